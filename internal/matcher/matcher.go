// Package matcher pairs bank-account withdrawals with the credit-card
// payments they settle. It is a pure transform: matches and review-flag
// changes are returned as data for the caller to apply.
package matcher

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Review reasons attached by the matcher.
const (
	ReasonAmbiguous      = "ambiguous_match_candidates"
	ReasonPartialPayment = "partial_payment"
	ReasonNoCCMatch      = "payment_pattern_no_cc_match"
)

// Config bounds how far apart a bank withdrawal and a CC payment may be.
type Config struct {
	DateToleranceDays int
	AmountTolerance   decimal.Decimal
}

// DefaultConfig returns the standard tolerances: 5 days, one cent.
func DefaultConfig() Config {
	return Config{
		DateToleranceDays: 5,
		AmountTolerance:   decimal.RequireFromString("0.01"),
	}
}

// Stats summarizes one matching run.
type Stats struct {
	BankCandidates        int
	CCCandidates          int
	MatchesFound          int
	AmbiguousFlagged      int
	PartialPaymentFlagged int
	NoCandidateFlagged    int
}

// Result is everything MatchPayments produced.
type Result struct {
	Matches       []model.Match
	ReviewUpdates []model.ReviewUpdate
	Warnings      []string
	Stats         Stats
}

// bankCandidate is one payment-looking bank withdrawal plus the ranking
// metrics computed over the full CC pool.
type bankCandidate struct {
	txn        model.Transaction
	abs        decimal.Decimal
	patterns   []model.PaymentPattern
	accountSet map[int]struct{}

	// Metrics over ALL CC candidates, ignoring claim state. They drive
	// the greedy processing order: most-constrained first.
	count         int
	minDateDiff   int
	minAmountDiff decimal.Decimal
	candidateIDs  map[string]struct{}

	ambiguous bool
}

// MatchPayments recognizes payment-looking bank withdrawals, orders them
// most-constrained-first, and resolves each against the pool of unclaimed
// CC payments, falling back to 1:N aggregation for split payments.
// The input slice is never mutated.
func MatchPayments(txns []model.Transaction, patterns []model.PaymentPattern, cfg Config) Result {
	res := Result{}

	if len(patterns) == 0 {
		res.Warnings = append(res.Warnings, "no payment patterns configured; payment matching skipped")
	}

	// Partition. Bank side: asset accounts, money out. CC side: liability
	// accounts, money in. Zero amounts are never payment candidates.
	var bankTxns, ccTxns []model.Transaction
	for _, t := range txns {
		switch {
		case model.IsAssetAccount(t.AccountID) && t.SignedAmount.IsNegative():
			bankTxns = append(bankTxns, t)
		case model.IsLiabilityAccount(t.AccountID) && t.SignedAmount.IsPositive():
			ccTxns = append(ccTxns, t)
		}
	}
	res.Stats.BankCandidates = len(bankTxns)
	res.Stats.CCCandidates = len(ccTxns)

	candidates := recognizeCandidates(bankTxns, ccTxns, patterns, cfg)
	flagAmbiguousGroups(candidates)

	claimed := make(map[string]struct{})
	flag := func(txnID, reason string) {
		res.ReviewUpdates = append(res.ReviewUpdates, model.ReviewUpdate{
			TxnID:            txnID,
			NeedsReview:      true,
			AddReviewReasons: []string{reason},
		})
	}

	for _, bc := range candidates {
		if bc.ambiguous {
			flag(bc.txn.ID, ReasonAmbiguous)
			res.Stats.AmbiguousFlagged++
			continue
		}

		match, outcome := resolveCandidate(bc, ccTxns, claimed, cfg)
		switch outcome {
		case outcomeMatched:
			for _, id := range match.CCTxnIDs {
				claimed[id] = struct{}{}
			}
			res.Matches = append(res.Matches, match)
			res.Stats.MatchesFound++
		case outcomeAmbiguous:
			flag(bc.txn.ID, ReasonAmbiguous)
			res.Stats.AmbiguousFlagged++
		case outcomePartial:
			flag(bc.txn.ID, ReasonPartialPayment)
			res.Stats.PartialPaymentFlagged++
		case outcomeNoCandidates:
			flag(bc.txn.ID, ReasonNoCCMatch)
			res.Stats.NoCandidateFlagged++
		}
	}

	return res
}

// recognizeCandidates finds payment-looking bank withdrawals, computes
// their ranking metrics over the full CC pool, and returns them sorted
// most-constrained-first: fewest candidates, then closest date, then
// closest amount. Transaction ID is the final key so ties order
// deterministically.
func recognizeCandidates(bankTxns, ccTxns []model.Transaction, patterns []model.PaymentPattern, cfg Config) []*bankCandidate {
	var out []*bankCandidate

	for _, bank := range bankTxns {
		if bank.SignedAmount.IsZero() {
			continue
		}
		desc := categorizer.NormalizeDescription(bank.RawDescription)
		pats := eligiblePatterns(desc, patterns)
		if len(pats) == 0 {
			continue
		}

		bc := &bankCandidate{
			txn:           bank,
			abs:           bank.SignedAmount.Abs(),
			patterns:      pats,
			accountSet:    make(map[int]struct{}),
			minDateDiff:   math.MaxInt32,
			minAmountDiff: decimal.New(math.MaxInt32, 0),
			candidateIDs:  make(map[string]struct{}),
		}
		for _, p := range pats {
			for _, id := range liabilityAccounts(p.Accounts) {
				bc.accountSet[id] = struct{}{}
			}
		}

		for _, cc := range ccTxns {
			if _, ok := bc.accountSet[cc.AccountID]; !ok {
				continue
			}
			dateDiff := DaysBetween(bank.EffectiveDate, cc.EffectiveDate)
			if dateDiff > cfg.DateToleranceDays {
				continue
			}
			amountDiff := bc.abs.Sub(cc.SignedAmount.Abs()).Abs()
			if amountDiff.Cmp(cfg.AmountTolerance) > 0 {
				continue
			}
			bc.count++
			bc.candidateIDs[cc.ID] = struct{}{}
			if dateDiff < bc.minDateDiff {
				bc.minDateDiff = dateDiff
			}
			if amountDiff.Cmp(bc.minAmountDiff) < 0 {
				bc.minAmountDiff = amountDiff
			}
		}

		out = append(out, bc)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.count != b.count {
			return a.count < b.count
		}
		if a.minDateDiff != b.minDateDiff {
			return a.minDateDiff < b.minDateDiff
		}
		if c := a.minAmountDiff.Cmp(b.minAmountDiff); c != 0 {
			return c < 0
		}
		return a.txn.ID < b.txn.ID
	})
	return out
}

// flagAmbiguousGroups marks multi-way ties: consecutive candidates in the
// sorted order with identical metrics where two of them could be satisfied
// by the same CC transaction. Those are never auto-matched.
func flagAmbiguousGroups(candidates []*bankCandidate) {
	for start := 0; start < len(candidates); {
		end := start + 1
		for end < len(candidates) && sameMetrics(candidates[start], candidates[end]) {
			end++
		}
		group := candidates[start:end]
		if len(group) > 1 && overlappingSets(group) {
			for _, bc := range group {
				bc.ambiguous = true
			}
		}
		start = end
	}
}

func sameMetrics(a, b *bankCandidate) bool {
	return a.count == b.count &&
		a.minDateDiff == b.minDateDiff &&
		a.minAmountDiff.Equal(b.minAmountDiff)
}

func overlappingSets(group []*bankCandidate) bool {
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			for id := range group[i].candidateIDs {
				if _, ok := group[j].candidateIDs[id]; ok {
					return true
				}
			}
		}
	}
	return false
}

type outcome int

const (
	outcomeMatched outcome = iota
	outcomeAmbiguous
	outcomePartial
	outcomeNoCandidates
)

// resolveCandidate matches one bank withdrawal against the unclaimed CC
// pool: single winner by closest date then closest amount, an exact tie on
// both axes is ambiguous, and when no single CC fits, a group of payment
// receipts summing exactly to the withdrawal matches 1:N.
func resolveCandidate(bc *bankCandidate, ccTxns []model.Transaction, claimed map[string]struct{}, cfg Config) (model.Match, outcome) {
	type scored struct {
		txn        model.Transaction
		dateDiff   int
		amountDiff decimal.Decimal
	}
	var eligible []scored

	for _, cc := range ccTxns {
		if _, ok := claimed[cc.ID]; ok {
			continue
		}
		if _, ok := bc.accountSet[cc.AccountID]; !ok {
			continue
		}
		dateDiff := DaysBetween(bc.txn.EffectiveDate, cc.EffectiveDate)
		if dateDiff > cfg.DateToleranceDays {
			continue
		}
		amountDiff := bc.abs.Sub(cc.SignedAmount.Abs()).Abs()
		if amountDiff.Cmp(cfg.AmountTolerance) > 0 {
			continue
		}
		eligible = append(eligible, scored{txn: cc, dateDiff: dateDiff, amountDiff: amountDiff})
	}

	if len(eligible) == 1 {
		only := eligible[0]
		return model.Match{
			BankTxnID:    bc.txn.ID,
			CCTxnIDs:     []string{only.txn.ID},
			Amount:       bc.abs,
			DateDiffDays: only.dateDiff,
		}, outcomeMatched
	}

	if len(eligible) > 1 {
		sort.Slice(eligible, func(i, j int) bool {
			if eligible[i].dateDiff != eligible[j].dateDiff {
				return eligible[i].dateDiff < eligible[j].dateDiff
			}
			if c := eligible[i].amountDiff.Cmp(eligible[j].amountDiff); c != 0 {
				return c < 0
			}
			return eligible[i].txn.ID < eligible[j].txn.ID
		})
		best, next := eligible[0], eligible[1]
		if best.dateDiff == next.dateDiff && best.amountDiff.Equal(next.amountDiff) {
			return model.Match{}, outcomeAmbiguous
		}
		return model.Match{
			BankTxnID:    bc.txn.ID,
			CCTxnIDs:     []string{best.txn.ID},
			Amount:       bc.abs,
			DateDiffDays: best.dateDiff,
		}, outcomeMatched
	}

	// No single CC fits. Try aggregating split payments: every unclaimed
	// payment receipt in the date window, amount check relaxed.
	var groupIDs []string
	sum := decimal.Zero
	maxDiff := 0
	for _, cc := range ccTxns {
		if _, ok := claimed[cc.ID]; ok {
			continue
		}
		if _, ok := bc.accountSet[cc.AccountID]; !ok {
			continue
		}
		dateDiff := DaysBetween(bc.txn.EffectiveDate, cc.EffectiveDate)
		if dateDiff > cfg.DateToleranceDays {
			continue
		}
		groupIDs = append(groupIDs, cc.ID)
		sum = sum.Add(cc.SignedAmount.Abs())
		if dateDiff > maxDiff {
			maxDiff = dateDiff
		}
	}

	if len(groupIDs) > 0 && sum.Equal(bc.abs) {
		return model.Match{
			BankTxnID:    bc.txn.ID,
			CCTxnIDs:     groupIDs,
			Amount:       bc.abs,
			DateDiffDays: maxDiff,
		}, outcomeMatched
	}
	if len(groupIDs) > 0 {
		return model.Match{}, outcomePartial
	}
	return model.Match{}, outcomeNoCandidates
}

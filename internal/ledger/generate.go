// Package ledger turns categorized, payment-matched transactions into
// balanced double-entry journal entries and validates them.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// AccountLookup resolves posting-target account IDs to chart entries.
type AccountLookup interface {
	Get(id int) (model.Account, bool)
}

// Stats summarizes one generation run.
type Stats struct {
	TotalEntries          int
	TotalLines            int
	MatchedPaymentEntries int
	RegularEntries        int
}

// Result is everything GenerateJournal produced.
type Result struct {
	Entries    []model.JournalEntry
	Validation JournalValidation
	Warnings   []string
	Stats      Stats
}

// GenerateJournal converts transactions and their payment matches into
// journal entries. Transactions order by effective date then ID; entry IDs
// are assigned sequentially from startingEntryID in that order. A Match
// whose amount disagrees with its underlying transactions is a
// construction error, not a warning: it means a logic bug upstream.
func GenerateJournal(txns []model.Transaction, matches []model.Match, accounts AccountLookup, startingEntryID int) (Result, error) {
	res := Result{}

	txnByID := make(map[string]model.Transaction, len(txns))
	for _, t := range txns {
		txnByID[t.ID] = t
	}

	matchedCC := make(map[string]struct{})
	matchByBankID := make(map[string]model.Match, len(matches))
	for _, m := range matches {
		// A match whose bank side is absent is dropped whole, so its CC
		// transactions still post as regular entries.
		if _, found := txnByID[m.BankTxnID]; !found {
			res.Warnings = append(res.Warnings, fmt.Sprintf("match references unknown bank transaction %s", m.BankTxnID))
			continue
		}
		matchByBankID[m.BankTxnID] = m
		for _, id := range m.CCTxnIDs {
			matchedCC[id] = struct{}{}
		}
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	nextEntryID := startingEntryID
	for _, txn := range sorted {
		// The CC side of a matched payment is captured by the entry
		// generated from the bank side.
		if _, isCC := matchedCC[txn.ID]; isCC {
			continue
		}

		if match, ok := matchByBankID[txn.ID]; ok {
			ccTxns := make([]model.Transaction, 0, len(match.CCTxnIDs))
			for _, id := range match.CCTxnIDs {
				ct, found := txnByID[id]
				if !found {
					res.Warnings = append(res.Warnings, fmt.Sprintf("match references unknown CC transaction %s", id))
					continue
				}
				ccTxns = append(ccTxns, ct)
			}
			if len(ccTxns) == 0 {
				continue
			}

			entry, warnings, err := matchedPaymentEntry(match, txn, ccTxns, nextEntryID, accounts)
			if err != nil {
				return Result{}, err
			}
			res.Warnings = append(res.Warnings, warnings...)
			res.Entries = append(res.Entries, entry)
			nextEntryID++
			res.Stats.MatchedPaymentEntries++
			continue
		}

		entry, warnings, ok := regularEntry(txn, nextEntryID, accounts)
		res.Warnings = append(res.Warnings, warnings...)
		if ok {
			res.Entries = append(res.Entries, entry)
			nextEntryID++
			res.Stats.RegularEntries++
		}
	}

	res.Stats.TotalEntries = len(res.Entries)
	for _, e := range res.Entries {
		res.Stats.TotalLines += len(e.Lines)
	}
	res.Validation = ValidateJournal(res.Entries)
	return res, nil
}

// matchedPaymentEntry collapses a matched payment into one entry: debit
// each CC (liability) account, credit the bank (asset) account.
func matchedPaymentEntry(match model.Match, bankTxn model.Transaction, ccTxns []model.Transaction, entryID int, accounts AccountLookup) (model.JournalEntry, []string, error) {
	var warnings []string

	bankAbs := bankTxn.SignedAmount.Abs()
	ccSum := decimal.Zero
	for _, ct := range ccTxns {
		ccSum = ccSum.Add(ct.SignedAmount.Abs())
	}
	if !match.Amount.Equal(bankAbs) || !match.Amount.Equal(ccSum) {
		ids := make([]string, len(ccTxns))
		for i, ct := range ccTxns {
			ids[i] = ct.ID
		}
		return model.JournalEntry{}, nil, fmt.Errorf(
			"match amount mismatch: match=%s bank=%s ccSum=%s (bank %s, cc [%s])",
			match.Amount, bankAbs, ccSum, bankTxn.ID, strings.Join(ids, ", "))
	}

	var lines []model.JournalLine
	for _, ct := range ccTxns {
		name, warning := resolveAccountName(ct.AccountID, accounts)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		lines = append(lines, model.JournalLine{
			AccountID:   ct.AccountID,
			AccountName: name,
			Debit:       ct.SignedAmount.Abs(),
			TxnID:       ct.ID,
		})
	}

	bankName, warning := resolveAccountName(bankTxn.AccountID, accounts)
	if warning != "" {
		warnings = append(warnings, warning)
	}
	lines = append(lines, model.JournalLine{
		AccountID:   bankTxn.AccountID,
		AccountName: bankName,
		Credit:      match.Amount,
		TxnID:       bankTxn.ID,
	})

	return model.JournalEntry{
		EntryID:     entryID,
		Date:        bankTxn.EffectiveDate,
		Description: "Payment match - " + bankTxn.Description,
		Lines:       lines,
	}, warnings, nil
}

// regularEntry builds the two-line entry for an unmatched transaction.
// Polarity follows the source account type and the sign of the amount:
//
//	liability, inflow  (refund/reward):  DR liability,  CR category
//	liability, outflow (charge):         DR category,   CR liability
//	asset, inflow  (deposit/income):     DR asset,      CR category
//	asset, outflow (withdrawal/expense): DR category,   CR asset
func regularEntry(txn model.Transaction, entryID int, accounts AccountLookup) (model.JournalEntry, []string, bool) {
	var warnings []string

	sourceType := model.AccountTypeOf(txn.AccountID)
	if sourceType != model.AccountTypeAsset && sourceType != model.AccountTypeLiability {
		warnings = append(warnings, fmt.Sprintf("transaction %s: account %d (%s) is not a valid posting source", txn.ID, txn.AccountID, sourceType))
		return model.JournalEntry{}, warnings, false
	}

	amount := txn.SignedAmount.Abs()
	inflow := txn.SignedAmount.IsPositive()

	sourceName, warning := resolveAccountName(txn.AccountID, accounts)
	if warning != "" {
		warnings = append(warnings, warning)
	}
	categoryName, warning := resolveAccountName(txn.CategoryID, accounts)
	if warning != "" {
		warnings = append(warnings, warning)
	}

	sourceLine := model.JournalLine{AccountID: txn.AccountID, AccountName: sourceName, TxnID: txn.ID}
	categoryLine := model.JournalLine{AccountID: txn.CategoryID, AccountName: categoryName, TxnID: txn.ID}

	// Inflows debit the source account for both asset deposits and
	// liability refunds; outflows debit the category.
	var lines []model.JournalLine
	if inflow {
		sourceLine.Debit = amount
		categoryLine.Credit = amount
		lines = []model.JournalLine{sourceLine, categoryLine}
	} else {
		categoryLine.Debit = amount
		sourceLine.Credit = amount
		lines = []model.JournalLine{categoryLine, sourceLine}
	}

	return model.JournalEntry{
		EntryID:     entryID,
		Date:        txn.EffectiveDate,
		Description: txn.Description,
		Lines:       lines,
	}, warnings, true
}

// resolveAccountName surfaces unknown accounts with a placeholder and a
// warning. They are never silently dropped or auto-created.
func resolveAccountName(accountID int, accounts AccountLookup) (name, warning string) {
	if a, ok := accounts.Get(accountID); ok {
		return a.Name, ""
	}
	return fmt.Sprintf("Unknown (%d)", accountID), fmt.Sprintf("unknown account ID: %d", accountID)
}

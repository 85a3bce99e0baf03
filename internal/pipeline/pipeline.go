// Package pipeline runs the processing stages in order: identity/dedup,
// categorization, payment matching, journal generation, validation. Like
// the stages themselves it is pure: it takes parsed batches and returns
// data, leaving all I/O to the caller.
package pipeline

import (
	"sort"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/identity"
	"github.com/ohjona/finance-engine-2.0/internal/ledger"
	"github.com/ohjona/finance-engine-2.0/internal/matcher"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// FileBatch is the parsed contents of one source file.
type FileBatch struct {
	Filename     string
	Transactions []model.Transaction
}

// Input carries everything one processing run needs.
type Input struct {
	Batches         []FileBatch
	Rules           model.RuleSet
	BankCategories  categorizer.BankCategoryMap
	PaymentPatterns []model.PaymentPattern
	Matching        matcher.Config
	Accounts        ledger.AccountLookup
	StartingEntryID int // 0 means 1
}

// Run is the complete output of one processing run.
type Run struct {
	Transactions      []model.Transaction
	DuplicatesRemoved int
	CategorizeStats   categorizer.Stats
	Matches           []model.Match
	ReviewUpdates     []model.ReviewUpdate
	MatchStats        matcher.Stats
	Journal           ledger.Result
	Warnings          []string
}

// Process runs the full pipeline over the input batches. Batches are
// ordered lexicographically by filename before deduplication so IDs and
// cross-file duplicate resolution are stable across runs.
func Process(in Input) (Run, error) {
	run := Run{}

	batches := make([]FileBatch, len(in.Batches))
	copy(batches, in.Batches)
	sort.Slice(batches, func(i, j int) bool { return batches[i].Filename < batches[j].Filename })

	perFile := make([][]model.Transaction, len(batches))
	for i, b := range batches {
		perFile[i] = b.Transactions
	}

	unique, duplicates, err := identity.Deduplicate(perFile)
	if err != nil {
		return Run{}, err
	}
	run.DuplicatesRemoved = duplicates

	categorized, warnings, catStats := categorizer.CategorizeAll(unique, in.Rules, categorizer.Options{
		BankCategories: in.BankCategories,
	})
	run.CategorizeStats = catStats
	run.Warnings = append(run.Warnings, warnings...)

	matchResult := matcher.MatchPayments(categorized, in.PaymentPatterns, in.Matching)
	run.Matches = matchResult.Matches
	run.ReviewUpdates = matchResult.ReviewUpdates
	run.MatchStats = matchResult.Stats
	run.Warnings = append(run.Warnings, matchResult.Warnings...)

	run.Transactions = matcher.ApplyReviewUpdates(categorized, matchResult.ReviewUpdates)

	startingID := in.StartingEntryID
	if startingID == 0 {
		startingID = 1
	}
	journal, err := ledger.GenerateJournal(run.Transactions, run.Matches, in.Accounts, startingID)
	if err != nil {
		return Run{}, err
	}
	run.Journal = journal
	run.Warnings = append(run.Warnings, journal.Warnings...)

	return run, nil
}

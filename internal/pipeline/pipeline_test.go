package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjona/finance-engine-2.0/internal/accounts"
	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/identity"
	"github.com/ohjona/finance-engine-2.0/internal/matcher"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(date time.Time, desc, amount string, account int) model.Transaction {
	signed := dec(amount)
	return model.Transaction{
		ID:             identity.Fingerprint(date, desc, signed, account),
		TxnDate:        date,
		PostDate:       date,
		EffectiveDate:  date,
		RawDescription: desc,
		Description:    categorizer.NormalizeDescription(desc),
		SignedAmount:   signed,
		AccountID:      account,
		CategoryID:     model.UncategorizedCategoryID,
		SourceFile:     "test.csv",
	}
}

func testInput() Input {
	chipotle := txn(day(time.April, 5), "CHIPOTLE 1234", "-15.42", 2122)
	zara := txn(day(time.April, 6), "ZARA USA", "-89.99", 2122)
	ccPayment := txn(day(time.April, 20), "ONLINE PAYMENT - THANK YOU", "105.41", 2122)
	bankPayment := txn(day(time.April, 22), "AMEX AUTOPAY 250422", "-105.41", 1120)

	dir := accounts.NewDirectory(accounts.DefaultChart())

	return Input{
		Batches: []FileBatch{
			{Filename: "amex_2122_202504.csv", Transactions: []model.Transaction{chipotle, zara, ccPayment}},
			{Filename: "chase-checking_1120_202504.csv", Transactions: []model.Transaction{bankPayment}},
		},
		Rules: model.RuleSet{
			UserRules: []model.Rule{
				model.NewRule("CHIPOTLE", model.PatternSubstring, 4320),
				model.NewRule("ZARA", model.PatternSubstring, 4410),
			},
		},
		PaymentPatterns: []model.PaymentPattern{
			{Keywords: []string{"PAYMENT", "AUTOPAY"}, CardIdentifier: "AMEX", Accounts: []int{2122}},
		},
		Matching: matcher.DefaultConfig(),
		Accounts: dir,
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	run, err := Process(testInput())
	require.NoError(t, err)

	assert.Equal(t, 0, run.DuplicatesRemoved)
	assert.Equal(t, 4, run.CategorizeStats.Total)
	assert.Equal(t, 2, run.CategorizeStats.User)

	require.Len(t, run.Matches, 1)
	assert.True(t, run.Matches[0].Amount.Equal(dec("105.41")))
	assert.Equal(t, 2, run.Matches[0].DateDiffDays)
	assert.Empty(t, run.ReviewUpdates)

	// Two charge entries plus one collapsed payment entry.
	require.Len(t, run.Journal.Entries, 3)
	assert.Equal(t, 1, run.Journal.Stats.MatchedPaymentEntries)
	assert.Equal(t, 2, run.Journal.Stats.RegularEntries)

	v := run.Journal.Validation
	assert.True(t, v.Valid)
	assert.True(t, v.TotalDebits.Equal(dec("210.82")), "total debits: %s", v.TotalDebits)
	assert.True(t, v.TotalCredits.Equal(dec("210.82")), "total credits: %s", v.TotalCredits)
	assert.True(t, v.Difference.IsZero())
}

func TestProcess_EntryOrdering(t *testing.T) {
	run, err := Process(testInput())
	require.NoError(t, err)
	require.Len(t, run.Journal.Entries, 3)

	assert.Equal(t, "CHIPOTLE 1234", run.Journal.Entries[0].Description)
	assert.Equal(t, "ZARA USA", run.Journal.Entries[1].Description)
	assert.Equal(t, "Payment match - AMEX AUTOPAY 250422", run.Journal.Entries[2].Description)
	assert.Equal(t, 1, run.Journal.Entries[0].EntryID)
	assert.Equal(t, 2, run.Journal.Entries[1].EntryID)
	assert.Equal(t, 3, run.Journal.Entries[2].EntryID)
}

func TestProcess_CrossFileDuplicatesDropped(t *testing.T) {
	in := testInput()
	// The same charge appears in an overlapping statement export.
	duplicate := txn(day(time.April, 5), "CHIPOTLE 1234", "-15.42", 2122)
	in.Batches = append(in.Batches, FileBatch{
		Filename: "amex_2122_202505.csv",
		Transactions: []model.Transaction{
			duplicate,
			txn(day(time.May, 2), "SHELL OIL 57442", "-40.00", 2122),
		},
	})

	run, err := Process(in)
	require.NoError(t, err)
	assert.Equal(t, 1, run.DuplicatesRemoved)
	assert.Equal(t, 5, run.CategorizeStats.Total)
}

func TestProcess_BatchOrderInsensitive(t *testing.T) {
	in := testInput()
	reversed := testInput()
	reversed.Batches = []FileBatch{in.Batches[1], in.Batches[0]}

	a, err := Process(in)
	require.NoError(t, err)
	b, err := Process(reversed)
	require.NoError(t, err)

	require.Len(t, b.Journal.Entries, len(a.Journal.Entries))
	for i := range a.Journal.Entries {
		assert.Equal(t, a.Journal.Entries[i].Description, b.Journal.Entries[i].Description)
	}
}

func TestProcess_UnmatchedPaymentFlagged(t *testing.T) {
	in := testInput()
	// Drop the CC receipt: the bank withdrawal has nothing to settle.
	in.Batches[0].Transactions = in.Batches[0].Transactions[:2]

	run, err := Process(in)
	require.NoError(t, err)
	assert.Empty(t, run.Matches)
	require.Len(t, run.ReviewUpdates, 1)
	assert.Equal(t, []string{matcher.ReasonNoCCMatch}, run.ReviewUpdates[0].AddReviewReasons)

	// The flag lands on the output transactions.
	var flagged bool
	for _, tx := range run.Transactions {
		if tx.ID == run.ReviewUpdates[0].TxnID {
			flagged = tx.NeedsReview
		}
	}
	assert.True(t, flagged)
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Match pairs one bank withdrawal with the CC payment(s) it settles.
// Every CC transaction ID appears in at most one Match per batch, and
// Amount equals both the bank side and the sum of the CC sides.
type Match struct {
	BankTxnID    string
	CCTxnIDs     []string
	Amount       decimal.Decimal
	DateDiffDays int
}

// ReviewUpdate describes a review-flag change without performing it.
// The matcher proposes these; the caller applies them.
type ReviewUpdate struct {
	TxnID            string
	NeedsReview      bool
	AddReviewReasons []string
}

// JournalLine is one side of a double-entry. Exactly one of Debit/Credit
// is non-zero.
type JournalLine struct {
	AccountID   int
	AccountName string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	TxnID       string          // originating transaction, for traceability
}

// JournalEntry is a balanced set of lines representing one economic event.
type JournalEntry struct {
	EntryID     int
	Date        time.Time
	Description string
	Lines       []JournalLine
}

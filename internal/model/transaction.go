package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confidence score per categorization source.
const (
	ConfidenceUserRules     = 1.0
	ConfidenceSharedRules   = 0.9
	ConfidenceBaseRules     = 0.8
	ConfidenceBankCategory  = 0.6
	ConfidenceUncategorized = 0.3
)

// UncategorizedCategoryID is the sentinel assigned when no rule matches.
// Distinct from 4990 (Miscellaneous) so categorization failures stand out.
const UncategorizedCategoryID = 4999

// TxnIDLength is the number of hex characters in a base transaction ID.
const TxnIDLength = 16

// Transaction is one normalized bank or card line item. Parsers create it;
// identity, categorization and matching treat it as read-only and return
// copies with fields filled in.
type Transaction struct {
	ID             string          // fingerprint, optionally with -NN collision suffix
	TxnDate        time.Time       // date the transaction occurred
	PostDate       time.Time       // date the institution posted it
	EffectiveDate  time.Time       // drives ordering and date windowing
	Description    string          // normalized for matching
	RawDescription string          // verbatim from the export, hashed as-is
	SignedAmount   decimal.Decimal // negative = outflow, positive = inflow
	AccountID      int
	CategoryID     int
	RawCategory    string // institution-provided category, may be empty
	Confidence     float64
	NeedsReview    bool
	ReviewReasons  []string
	SourceFile     string
}

// Clone returns a deep copy. ReviewReasons is the only reference field.
func (t Transaction) Clone() Transaction {
	out := t
	if t.ReviewReasons != nil {
		out.ReviewReasons = append([]string(nil), t.ReviewReasons...)
	}
	return out
}

// Date formats a calendar date as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// Day builds a UTC-midnight calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// EntryValidation is the balance check for a single entry.
type EntryValidation struct {
	Valid       bool
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Err         string
}

// JournalValidation is the balance check for a whole batch. The validator
// reports; the orchestrating layer decides whether a failure is fatal.
type JournalValidation struct {
	Valid        bool
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
	Errors       []string
	Warnings     []string
}

// ValidateEntry checks that one entry's debits equal its credits exactly.
// Decimal equality, no epsilon.
func ValidateEntry(entry model.JournalEntry) EntryValidation {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range entry.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	v := EntryValidation{
		Valid:       debits.Equal(credits),
		DebitTotal:  debits,
		CreditTotal: credits,
	}
	if !v.Valid {
		v.Err = fmt.Sprintf("entry %d unbalanced: debits=%s credits=%s", entry.EntryID, debits, credits)
	}
	return v
}

// ValidateJournal checks every entry and the batch totals.
func ValidateJournal(entries []model.JournalEntry) JournalValidation {
	result := JournalValidation{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, entry := range entries {
		ev := ValidateEntry(entry)
		if !ev.Valid {
			result.Errors = append(result.Errors, ev.Err)
		}
		result.TotalDebits = result.TotalDebits.Add(ev.DebitTotal)
		result.TotalCredits = result.TotalCredits.Add(ev.CreditTotal)
	}

	result.Difference = result.TotalDebits.Sub(result.TotalCredits).Abs()
	if !result.Difference.IsZero() {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"journal unbalanced: total debits=%s total credits=%s difference=%s",
			result.TotalDebits, result.TotalCredits, result.Difference))
	}
	result.Valid = len(result.Errors) == 0
	return result
}

package importer

import (
	"fmt"
	"io"
)

// ChaseCheckingParser parses Chase checking CSV exports.
//
// Format: Posting Date, Description, Amount. Positive = deposit, which
// already matches the engine convention.
type ChaseCheckingParser struct{}

// Institution returns the parser name used in filenames.
func (p *ChaseCheckingParser) Institution() string { return "chase-checking" }

// Parse reads a Chase checking CSV and returns normalized transactions.
func (p *ChaseCheckingParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRows(r, []string{"Posting Date", "Description", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("chase-checking: %w", err)
	}

	var res Result
	for _, row := range rows {
		if row["Posting Date"] == "" {
			res.SkippedRows++
			continue
		}
		date, err := parseUSDate(row["Posting Date"])
		if err != nil {
			res.SkippedRows++
			continue
		}
		amount, err := parseAmount(row["Amount"])
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("invalid amount %q, skipping row", row["Amount"]))
			res.SkippedRows++
			continue
		}

		res.Transactions = append(res.Transactions, newTransaction(
			date, date, row["Description"], amount, accountID, "", sourceFile))
	}
	return res, nil
}

package importer

import (
	"fmt"
	"io"
)

// FidelityParser parses Fidelity credit card CSV exports.
//
// Format: Date, Name, Amount, with dates in YYYY-MM-DD unlike the
// MM/DD/YYYY used by the other institutions. Fidelity reports charges
// as negative amounts, so amounts pass through unchanged.
type FidelityParser struct{}

// Institution returns the parser name used in filenames.
func (p *FidelityParser) Institution() string { return "fidelity" }

// Parse reads a Fidelity CSV and returns normalized transactions.
func (p *FidelityParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRows(r, []string{"Date", "Name", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("fidelity: %w", err)
	}

	var res Result
	for _, row := range rows {
		if row["Date"] == "" {
			res.SkippedRows++
			continue
		}
		date, err := parseISODate(row["Date"])
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
			date, date, row["Name"], amount, accountID, "", sourceFile))
	}
	return res, nil
}

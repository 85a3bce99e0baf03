package importer

import (
	"fmt"
	"io"
)

// AmexParser parses Amex card CSV exports.
//
// Format: Date, Description, Amount, Category. Amex reports charges as
// positive amounts, so the sign is negated to the engine convention
// (negative = outflow). No separate post date.
type AmexParser struct{}

// Institution returns the parser name used in filenames.
func (p *AmexParser) Institution() string { return "amex" }

// Parse reads an Amex CSV and returns normalized transactions.
func (p *AmexParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRows(r, []string{"Date", "Description", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("amex: %w", err)
	}

	var res Result
	for _, row := range rows {
		if row["Date"] == "" {
			res.SkippedRows++
			continue
		}
		date, err := parseUSDate(row["Date"])
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
			date, date, row["Description"], amount.Neg(), accountID, row["Category"], sourceFile))
	}
	return res, nil
}

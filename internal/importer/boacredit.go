package importer

import (
	"fmt"
	"io"
)

// BoACreditParser parses Bank of America credit card CSV exports.
//
// Format: Posted Date, Reference Number, Payee, Address, Amount. BoA
// reports purchases as negative amounts, so amounts pass through
// unchanged. Only the posted date is exported.
type BoACreditParser struct{}

// Institution returns the parser name used in filenames.
func (p *BoACreditParser) Institution() string { return "boa-credit" }

// Parse reads a BoA credit card CSV and returns normalized transactions.
func (p *BoACreditParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRows(r, []string{"Posted Date", "Payee", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("boa-credit: %w", err)
	}

	var res Result
	for _, row := range rows {
		if row["Posted Date"] == "" {
			res.SkippedRows++
			continue
		}
		date, err := parseUSDate(row["Posted Date"])
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
			date, date, row["Payee"], amount, accountID, "", sourceFile))
	}
	return res, nil
}

package importer

import (
	"fmt"
	"io"
	"strings"
)

// BoACheckingParser parses Bank of America checking CSV exports.
//
// Format: Date, Description, Amount, preceded by account summary rows,
// so the header is located by scanning rather than assumed first.
// Positive = deposit, which already matches the engine convention.
// Beginning-balance rows carry no amount and are not transactions.
type BoACheckingParser struct{}

// Institution returns the parser name used in filenames.
func (p *BoACheckingParser) Institution() string { return "boa-checking" }

// Parse reads a BoA checking CSV and returns normalized transactions.
func (p *BoACheckingParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRowsScanning(r, []string{"Date", "Description", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("boa-checking: %w", err)
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
		if row["Amount"] == "" || strings.Contains(strings.ToLower(row["Description"]), "beginning balance") {
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

package importer

import (
	"fmt"
	"io"
)

// DiscoverParser parses Discover card CSV exports.
//
// Format: Trans. Date, Post Date, Description, Amount, Category. Discover
// follows the card convention of negative = purchase, so amounts pass
// through unchanged.
type DiscoverParser struct{}

// Institution returns the parser name used in filenames.
func (p *DiscoverParser) Institution() string { return "discover" }

// Parse reads a Discover CSV and returns normalized transactions.
func (p *DiscoverParser) Parse(r io.Reader, accountID int, sourceFile string) (Result, error) {
	rows, err := readRows(r, []string{"Trans. Date", "Description", "Amount"})
	if err != nil {
		return Result{}, fmt.Errorf("discover: %w", err)
	}

	var res Result
	for _, row := range rows {
		if row["Trans. Date"] == "" {
			res.SkippedRows++
			continue
		}
		txnDate, err := parseUSDate(row["Trans. Date"])
		if err != nil {
			res.SkippedRows++
			continue
		}
		postDate := txnDate
		if row["Post Date"] != "" {
			if parsed, err := parseUSDate(row["Post Date"]); err == nil {
				postDate = parsed
			}
		}
		amount, err := parseAmount(row["Amount"])
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("invalid amount %q, skipping row", row["Amount"]))
			res.SkippedRows++
			continue
		}

		res.Transactions = append(res.Transactions, newTransaction(
			txnDate, postDate, row["Description"], amount, accountID, row["Category"], sourceFile))
	}
	return res, nil
}

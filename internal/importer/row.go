package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/identity"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

const usDateFormat = "01/02/2006"

const isoDateFormat = "2006-01-02"

// headerScanLimit bounds how many leading records readRowsScanning
// searches for the header row.
const headerScanLimit = 10

// readRows reads a headered CSV and verifies the required columns are
// present, returning rows as column-name maps. The header must be the
// first record.
func readRows(r io.Reader, required []string) ([]map[string]string, error) {
	records, err := readRecords(r)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	header := cleanHeader(records[0])
	for _, col := range required {
		if !containsColumn(header, col) {
			return nil, fmt.Errorf("missing required column %q (found: %s)", col, strings.Join(header, ", "))
		}
	}
	return recordsToRows(header, records[1:]), nil
}

// readRowsScanning reads a CSV whose header row may be preceded by
// summary records, as in Bank of America checking exports. The first
// record within headerScanLimit that carries every required column is
// taken as the header.
func readRowsScanning(r io.Reader, required []string) ([]map[string]string, error) {
	records, err := readRecords(r)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	limit := min(len(records), headerScanLimit)
	for i := 0; i < limit; i++ {
		header := cleanHeader(records[i])
		ok := true
		for _, col := range required {
			if !containsColumn(header, col) {
				ok = false
				break
			}
		}
		if ok {
			return recordsToRows(header, records[i+1:]), nil
		}
	}
	return nil, fmt.Errorf("no header row with columns %s in first %d records", strings.Join(required, ", "), limit)
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

func cleanHeader(record []string) []string {
	header := make([]string, len(record))
	for i, h := range record {
		header[i] = strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF")
	}
	return header
}

func containsColumn(header []string, col string) bool {
	for _, h := range header {
		if h == col {
			return true
		}
	}
	return false
}

func recordsToRows(header []string, records [][]string) []map[string]string {
	var rows []map[string]string
	for _, rec := range records {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// parseUSDate parses MM/DD/YYYY into a UTC-midnight calendar date.
func parseUSDate(s string) (time.Time, error) {
	t, err := time.Parse(usDateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return model.Day(t.Year(), t.Month(), t.Day()), nil
}

// parseISODate parses YYYY-MM-DD into a UTC-midnight calendar date.
func parseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return model.Day(t.Year(), t.Month(), t.Day()), nil
}

// parseAmount parses a money field, stripping thousands commas and a
// leading dollar sign.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.TrimPrefix(clean, "$")
	return decimal.NewFromString(clean)
}

// newTransaction assembles a normalized Transaction, computing the
// fingerprint from the raw description and the already sign-normalized
// amount.
func newTransaction(txnDate, postDate time.Time, rawDesc string, signedAmount decimal.Decimal, accountID int, rawCategory, sourceFile string) model.Transaction {
	effective := txnDate
	return model.Transaction{
		ID:             identity.Fingerprint(effective, rawDesc, signedAmount, accountID),
		TxnDate:        txnDate,
		PostDate:       postDate,
		EffectiveDate:  effective,
		Description:    categorizer.NormalizeDescription(rawDesc),
		RawDescription: rawDesc,
		SignedAmount:   signedAmount,
		AccountID:      accountID,
		CategoryID:     model.UncategorizedCategoryID,
		RawCategory:    rawCategory,
		ReviewReasons:  []string{},
		SourceFile:     sourceFile,
	}
}

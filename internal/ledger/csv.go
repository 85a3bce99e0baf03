package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,description,account_id,account_name,debit,credit,txn_id"

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colDate     = 1
	colDesc     = 2
	colAcctID   = 3
	colAcctName = 4
	colDebit    = 5
	colCredit   = 6
	colTxnID    = 7
)

// WriteEntries writes journal entries to a journal.csv writer, one row
// per line, including the header.
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, entry := range entries {
		for _, line := range entry.Lines {
			if err := cw.Write(MarshalLine(entry, line)); err != nil {
				return fmt.Errorf("writing entry %d: %w", entry.EntryID, err)
			}
		}
	}
	return cw.Error()
}

// ReadEntries reads journal.csv back into entries, grouping consecutive
// rows that share an entry ID.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entryID, date, desc, line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if n := len(entries); n > 0 && entries[n-1].EntryID == entryID {
			entries[n-1].Lines = append(entries[n-1].Lines, line)
			continue
		}
		entries = append(entries, model.JournalEntry{
			EntryID:     entryID,
			Date:        date,
			Description: desc,
			Lines:       []model.JournalLine{line},
		})
	}
	return entries, nil
}

// MarshalLine converts one journal line to a CSV row. The unused side of
// the entry is an empty field, not "0".
func MarshalLine(entry model.JournalEntry, line model.JournalLine) []string {
	row := make([]string, numFields)
	row[colEntryID] = strconv.Itoa(entry.EntryID)
	row[colDate] = entry.Date.Format(dateFormat)
	row[colDesc] = entry.Description
	row[colAcctID] = strconv.Itoa(line.AccountID)
	row[colAcctName] = line.AccountName
	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.String()
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.String()
	}
	row[colTxnID] = line.TxnID
	return row
}

// UnmarshalLine converts a CSV row back to its entry fields and line.
func UnmarshalLine(record []string) (entryID int, date time.Time, description string, line model.JournalLine, err error) {
	if len(record) != numFields {
		return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	entryID, err = strconv.Atoi(record[colEntryID])
	if err != nil {
		return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("parsing entry_id %q: %w", record[colEntryID], err)
	}

	date, err = time.Parse(dateFormat, record[colDate])
	if err != nil {
		return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	line = model.JournalLine{
		AccountID:   accountID,
		AccountName: record[colAcctName],
		TxnID:       record[colTxnID],
	}
	if record[colDebit] != "" {
		line.Debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		line.Credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return 0, time.Time{}, "", model.JournalLine{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return entryID, date, record[colDesc], line, nil
}

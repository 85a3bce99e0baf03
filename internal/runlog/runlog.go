// Package runlog keeps an append-only CSV log of processing runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp         time.Time
	RunID             string
	Files             []string
	TransactionCount  int
	DuplicatesRemoved int
	MatchesFound      int
	EntriesGenerated  int
	JournalValid      bool
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,files,transaction_count,duplicates_removed,matches_found,entries_generated,journal_valid"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colFiles      = 2
	colTxnCount   = 3
	colDuplicates = 4
	colMatches    = 5
	colEntries    = 6
	colValid      = 7
)

// fileSeparator joins filenames inside the files field. Filenames
// containing it cannot round-trip, so MarshalEntry rejects them.
const fileSeparator = ";"

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) ([]string, error) {
	for _, f := range e.Files {
		if strings.Contains(f, fileSeparator) {
			return nil, fmt.Errorf("filename %q contains reserved separator %q", f, fileSeparator)
		}
	}

	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFiles] = strings.Join(e.Files, fileSeparator)
	row[colTxnCount] = strconv.Itoa(e.TransactionCount)
	row[colDuplicates] = strconv.Itoa(e.DuplicatesRemoved)
	row[colMatches] = strconv.Itoa(e.MatchesFound)
	row[colEntries] = strconv.Itoa(e.EntriesGenerated)
	row[colValid] = strconv.FormatBool(e.JournalValid)
	return row, nil
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	txnCount, err := strconv.Atoi(record[colTxnCount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transaction_count %q: %w", record[colTxnCount], err)
	}
	duplicates, err := strconv.Atoi(record[colDuplicates])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duplicates_removed %q: %w", record[colDuplicates], err)
	}
	matches, err := strconv.Atoi(record[colMatches])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing matches_found %q: %w", record[colMatches], err)
	}
	entries, err := strconv.Atoi(record[colEntries])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing entries_generated %q: %w", record[colEntries], err)
	}
	valid, err := strconv.ParseBool(record[colValid])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing journal_valid %q: %w", record[colValid], err)
	}

	var files []string
	if record[colFiles] != "" {
		files = strings.Split(record[colFiles], fileSeparator)
	}

	return Entry{
		Timestamp:         ts,
		RunID:             record[colRunID],
		Files:             files,
		TransactionCount:  txnCount,
		DuplicatesRemoved: duplicates,
		MatchesFound:      matches,
		EntriesGenerated:  entries,
		JournalValid:      valid,
	}, nil
}

// Append writes entries to <workspaceRoot>/logs/run-log.csv, creating the
// file and header if needed.
func Append(workspaceRoot string, entries []Entry) error {
	dir := filepath.Join(workspaceRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workspaceRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		row, err := MarshalEntry(e)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <workspaceRoot>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(workspaceRoot string) ([]Entry, error) {
	path := filepath.Join(workspaceRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

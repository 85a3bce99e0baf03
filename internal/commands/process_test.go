package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjona/finance-engine-2.0/internal/config"
	"github.com/ohjona/finance-engine-2.0/internal/ledger"
	"github.com/ohjona/finance-engine-2.0/internal/runlog"
)

// setupWorkspace initializes a workspace with the AMEX payment pattern
// bound to account 2122 and a pair of user rules.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runCommand(t, "init", dir, "--name", "personal")
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "engine.yaml")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	for i := range cfg.PaymentPatterns {
		if cfg.PaymentPatterns[i].CardIdentifier == "AMEX" {
			cfg.PaymentPatterns[i].Accounts = []int{2122}
		}
	}
	require.NoError(t, config.Save(cfgPath, cfg))

	_, err = runCommand(t, "add-rule", "-w", dir, "--pattern", "CHIPOTLE", "--category", "4320")
	require.NoError(t, err)
	_, err = runCommand(t, "add-rule", "-w", dir, "--pattern", "ZARA USA", "--category", "4410")
	require.NoError(t, err)

	return dir
}

func writeImport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), []byte(content), 0o644))
}

func TestProcess_EndToEnd(t *testing.T) {
	dir := setupWorkspace(t)

	writeImport(t, dir, "amex_2122_202504.csv",
		"Date,Description,Amount,Category\n"+
			"04/05/2025,CHIPOTLE 1234,15.42,Restaurant\n"+
			"04/06/2025,ZARA USA,89.99,Merchandise\n"+
			"04/20/2025,ONLINE PAYMENT - THANK YOU,-105.41,Payment\n")
	writeImport(t, dir, "chase-checking_1120_202504.csv",
		"Details,Posting Date,Description,Amount,Type,Balance\n"+
			"DEBIT,04/22/2025,AMEX AUTOPAY 250422,-105.41,ACH_DEBIT,1500.00\n")

	out, err := runCommand(t, "process", "-w", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Processed 2 files: 4 transactions (0 duplicates removed), 1 matches, 3 journal entries")
	assert.Contains(t, out, "Journal balanced: debits = credits = 210.82")

	// Journal written to export/ and readable.
	f, err := os.Open(filepath.Join(dir, "export", "journal.csv"))
	require.NoError(t, err)
	defer f.Close()
	entries, err := ledger.ReadEntries(f)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// Inputs moved to import/processed/.
	assert.NoFileExists(t, filepath.Join(dir, "import", "amex_2122_202504.csv"))
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "amex_2122_202504.csv"))

	// Run logged.
	log, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, 4, log[0].TransactionCount)
	assert.Equal(t, 1, log[0].MatchesFound)
	assert.Equal(t, 3, log[0].EntriesGenerated)
	assert.True(t, log[0].JournalValid)
}

func TestProcess_KeepInputs(t *testing.T) {
	dir := setupWorkspace(t)
	writeImport(t, dir, "amex_2122_202504.csv",
		"Date,Description,Amount,Category\n04/05/2025,CHIPOTLE 1234,15.42,Restaurant\n")

	_, err := runCommand(t, "process", "-w", dir, "--keep-inputs")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "import", "amex_2122_202504.csv"))
}

func TestProcess_EmptyImportDir(t *testing.T) {
	dir := setupWorkspace(t)
	out, err := runCommand(t, "process", "-w", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to process")
}

func TestProcess_SkipsUnrecognizedFiles(t *testing.T) {
	dir := setupWorkspace(t)
	writeImport(t, dir, "statement.csv", "a,b\n1,2\n")

	out, err := runCommand(t, "process", "-w", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipping statement.csv")
	assert.Contains(t, out, "no recognized files")
}

func TestAddRule_Validation(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "init", dir, "--name", "personal")
	require.NoError(t, err)

	_, err = runCommand(t, "add-rule", "-w", dir, "--pattern", "CHIPOTLE", "--category", "4320", "--type", "glob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pattern type")

	_, err = runCommand(t, "add-rule", "-w", dir, "--pattern", "CHIPOTLE", "--category", "7000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the reserved account ranges")

	_, err = runCommand(t, "add-rule", "-w", dir, "--pattern", "CHIPOTLE", "--category", "4320")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "rules", "user-rules.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "pattern: CHIPOTLE"))
}

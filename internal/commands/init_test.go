package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjona/finance-engine-2.0/internal/commands"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "init", dir, "--name", "personal")
	require.NoError(t, err)

	expectedDirs := []string{
		"rules",
		"logs",
		"export",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	for _, f := range []string{
		"engine.yaml",
		"chart-of-accounts.csv",
		filepath.Join("rules", "user-rules.yaml"),
		filepath.Join("rules", "shared-rules.yaml"),
		filepath.Join("rules", "base-rules.yaml"),
		filepath.Join("import", ".gitkeep"),
	} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, "init", dir, "--name", "personal")
	require.NoError(t, err)
	assert.Contains(t, out, `Initialized workspace "personal"`)

	data, err := os.ReadFile(filepath.Join(dir, "engine.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: personal")
	assert.Contains(t, contents, "date_tolerance_days: 5")
	assert.Contains(t, contents, `amount_tolerance: "0.01"`)
	assert.Contains(t, contents, "card_identifier: AMEX")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runCommand(t, "init", t.TempDir())
	require.Error(t, err)
}

func TestInit_PreservesExistingRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0o755))
	existing := "rules:\n  - pattern: CHIPOTLE\n    category_id: 4320\n"
	rulePath := filepath.Join(dir, "rules", "user-rules.yaml")
	require.NoError(t, os.WriteFile(rulePath, []byte(existing), 0o644))

	_, err := runCommand(t, "init", dir, "--name", "personal")
	require.NoError(t, err)

	data, err := os.ReadFile(rulePath)
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

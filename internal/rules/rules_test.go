package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

func writeRules(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	path := writeRules(t, t.TempDir(), "user-rules.yaml", `rules:
  - pattern: CHIPOTLE
    category_id: 4320
  - pattern: '^UBER\s+TRIP'
    pattern_type: regex
    category_id: 4260
    note: rides only
`)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, model.PatternSubstring, loaded[0].PatternType)
	assert.Equal(t, 4320, loaded[0].CategoryID)
	assert.Equal(t, model.PatternRegex, loaded[1].PatternType)
	assert.Equal(t, "rides only", loaded[1].Note)
}

func TestLoadFile_MissingIsEmpty(t *testing.T) {
	loaded, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadFile_BadYAML(t *testing.T) {
	path := writeRules(t, t.TempDir(), "user-rules.yaml", "rules: [not closed\n")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rules file")
}

func TestSaveFile_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-rules.yaml")
	in := []model.Rule{
		{Pattern: "CHIPOTLE", PatternType: model.PatternSubstring, CategoryID: 4320, AddedDate: "2025-04-01"},
		{Pattern: "TRADER JOE", PatternType: model.PatternSubstring, CategoryID: 4110, Note: "groceries"},
	}

	require.NoError(t, SaveFile(path, in))
	out, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	user := writeRules(t, dir, "user-rules.yaml", "rules:\n  - pattern: CHIPOTLE\n    category_id: 4320\n")
	base := writeRules(t, dir, "base-rules.yaml", "rules:\n  - pattern: NETFLIX\n    category_id: 4990\n")

	set, err := LoadSet(user, filepath.Join(dir, "shared-rules.yaml"), base)
	require.NoError(t, err)
	assert.Len(t, set.UserRules, 1)
	assert.Empty(t, set.SharedRules)
	assert.Len(t, set.BaseRules, 1)
}

func TestAddUserRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-rules.yaml")
	rule := model.Rule{Pattern: "CHIPOTLE", CategoryID: 4320, AddedDate: "2025-04-28"}

	require.NoError(t, AddUserRule(path, rule, nil))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "CHIPOTLE", loaded[0].Pattern)
	assert.Equal(t, model.PatternSubstring, loaded[0].PatternType)
	assert.Equal(t, "2025-04-28", loaded[0].AddedDate)
}

func TestAddUserRule_RejectsDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-rules.yaml")
	rule := model.Rule{Pattern: "CHIPOTLE", CategoryID: 4320}

	require.NoError(t, AddUserRule(path, rule, nil))
	err := AddUserRule(path, rule, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddUserRule_RejectsInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-rules.yaml")
	err := AddUserRule(path, model.Rule{Pattern: "AB", CategoryID: 4320}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rule pattern")
}

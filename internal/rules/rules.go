// Package rules loads and edits the three YAML rule-layer files.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// File is the on-disk shape of one rule layer.
type File struct {
	Rules []model.Rule `yaml:"rules"`
}

// LoadFile reads one rule layer. A missing file is an empty layer, not an
// error: a fresh workspace starts with no user rules. Pattern-type
// defaults are applied here so readers never see an empty type.
func LoadFile(path string) ([]model.Rule, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	out := make([]model.Rule, 0, len(f.Rules))
	for _, r := range f.Rules {
		rule := model.NewRule(r.Pattern, r.PatternType, r.CategoryID)
		rule.Note = r.Note
		rule.AddedDate = r.AddedDate
		out = append(out, rule)
	}
	return out, nil
}

// SaveFile writes one rule layer.
func SaveFile(path string, ruleList []model.Rule) error {
	data, err := yaml.Marshal(File{Rules: ruleList})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules file %s: %w", path, err)
	}
	return nil
}

// LoadSet assembles the full rule hierarchy from the three layer files.
func LoadSet(userPath, sharedPath, basePath string) (model.RuleSet, error) {
	user, err := LoadFile(userPath)
	if err != nil {
		return model.RuleSet{}, err
	}
	shared, err := LoadFile(sharedPath)
	if err != nil {
		return model.RuleSet{}, err
	}
	base, err := LoadFile(basePath)
	if err != nil {
		return model.RuleSet{}, err
	}
	return model.RuleSet{UserRules: user, SharedRules: shared, BaseRules: base}, nil
}

// AddUserRule validates and appends a rule to the user layer file.
func AddUserRule(path string, rule model.Rule, sample []model.Transaction) error {
	normalized := model.NewRule(rule.Pattern, rule.PatternType, rule.CategoryID)
	normalized.Note = rule.Note
	normalized.AddedDate = rule.AddedDate
	rule = normalized
	if result := ValidatePattern(rule.Pattern, rule.PatternType, sample); !result.Valid {
		return fmt.Errorf("invalid rule pattern %q: %v", rule.Pattern, result.Errors)
	}

	existing, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.Pattern == rule.Pattern && r.PatternType == rule.PatternType {
			return fmt.Errorf("rule pattern %q already exists", rule.Pattern)
		}
	}
	return SaveFile(path, append(existing, rule))
}

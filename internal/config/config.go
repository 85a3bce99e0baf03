// Package config reads and writes the workspace engine.yaml file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Config represents the top-level engine.yaml configuration.
type Config struct {
	Workspace       WorkspaceConfig             `yaml:"workspace"`
	Matching        MatchingConfig              `yaml:"matching"`
	PaymentPatterns []model.PaymentPattern      `yaml:"payment_patterns,omitempty"`
	BankCategories  categorizer.BankCategoryMap `yaml:"bank_categories,omitempty"`
	Rules           RulesConfig                 `yaml:"rules"`
}

// WorkspaceConfig identifies the workspace.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
}

// MatchingConfig holds payment-matching tolerances.
type MatchingConfig struct {
	DateToleranceDays int    `yaml:"date_tolerance_days"`
	AmountTolerance   string `yaml:"amount_tolerance"`
}

// RulesConfig points at the three rule-layer files, relative to the
// workspace root.
type RulesConfig struct {
	User   string `yaml:"user"`
	Shared string `yaml:"shared"`
	Base   string `yaml:"base"`
}

// Load reads an engine.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
// Payment patterns carry no eligible accounts until the user attaches
// real card account IDs.
func Default(name string) *Config {
	return &Config{
		Workspace: WorkspaceConfig{Name: name},
		Matching: MatchingConfig{
			DateToleranceDays: 5,
			AmountTolerance:   "0.01",
		},
		PaymentPatterns: []model.PaymentPattern{
			{Keywords: []string{"PAYMENT", "AUTOPAY"}, CardIdentifier: "AMEX"},
			{Keywords: []string{"PAYMENT", "AUTOPAY"}, CardIdentifier: "DISCOVER"},
			{Keywords: []string{"PAYMENT", "AUTOPAY", "EPAY"}, CardIdentifier: "CHASE CARD"},
		},
		Rules: RulesConfig{
			User:   "rules/user-rules.yaml",
			Shared: "rules/shared-rules.yaml",
			Base:   "rules/base-rules.yaml",
		},
	}
}

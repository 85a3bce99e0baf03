package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ohjona/finance-engine-2.0/internal/config"
	"github.com/ohjona/finance-engine-2.0/internal/model"
	"github.com/ohjona/finance-engine-2.0/internal/rules"
)

func newAddRuleCommand() *cobra.Command {
	var dir string
	var pattern string
	var patternType string
	var categoryID int
	var note string

	cmd := &cobra.Command{
		Use:   "add-rule",
		Short: "Add a categorization rule to the user layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runAddRule(cmd, absDir, pattern, patternType, categoryID, note)
		},
	}

	cmd.Flags().StringVarP(&dir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&pattern, "pattern", "", "description pattern (required)")
	_ = cmd.MarkFlagRequired("pattern")
	cmd.Flags().StringVar(&patternType, "type", string(model.PatternSubstring), "pattern type: substring or regex")
	cmd.Flags().IntVar(&categoryID, "category", 0, "category account ID (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&note, "note", "", "optional note")

	return cmd
}

func runAddRule(cmd *cobra.Command, dir, pattern, patternType string, categoryID int, note string) error {
	pt := model.PatternType(patternType)
	if pt != model.PatternSubstring && pt != model.PatternRegex {
		return fmt.Errorf("unknown pattern type %q", patternType)
	}
	if model.AccountTypeOf(categoryID) == model.AccountTypeUnknown {
		return fmt.Errorf("category %d is outside the reserved account ranges", categoryID)
	}

	cfg, err := config.Load(filepath.Join(dir, configFileName))
	if err != nil {
		return err
	}

	rule := model.NewRule(pattern, pt, categoryID)
	rule.Note = note
	rule.AddedDate = time.Now().UTC().Format("2006-01-02")

	path := filepath.Join(dir, cfg.Rules.User)
	if err := rules.AddUserRule(path, rule, nil); err != nil {
		return err
	}

	cmd.Printf("Added %s rule %q -> %d\n", pt, pattern, categoryID)
	return nil
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ohjona/finance-engine-2.0/internal/accounts"
	"github.com/ohjona/finance-engine-2.0/internal/config"
	"github.com/ohjona/finance-engine-2.0/internal/importer"
	"github.com/ohjona/finance-engine-2.0/internal/ledger"
	"github.com/ohjona/finance-engine-2.0/internal/matcher"
	"github.com/ohjona/finance-engine-2.0/internal/pipeline"
	"github.com/ohjona/finance-engine-2.0/internal/rules"
	"github.com/ohjona/finance-engine-2.0/internal/runlog"
)

func newProcessCommand() *cobra.Command {
	var dir string
	var keepInputs bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Parse, categorize, match and journal the files in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runProcess(cmd, absDir, keepInputs)
		},
	}

	cmd.Flags().StringVarP(&dir, "workspace", "w", ".", "workspace directory")
	cmd.Flags().BoolVar(&keepInputs, "keep-inputs", false, "do not move processed files out of import/")

	return cmd
}

func runProcess(cmd *cobra.Command, dir string, keepInputs bool) error {
	cfg, err := config.Load(filepath.Join(dir, configFileName))
	if err != nil {
		return err
	}

	chart, err := accounts.Load(dir)
	if err != nil {
		return err
	}

	ruleSet, err := rules.LoadSet(
		filepath.Join(dir, cfg.Rules.User),
		filepath.Join(dir, cfg.Rules.Shared),
		filepath.Join(dir, cfg.Rules.Base),
	)
	if err != nil {
		return err
	}

	matchCfg, err := matcherConfig(cfg.Matching)
	if err != nil {
		return err
	}

	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("Nothing to process: import/ is empty.")
		return nil
	}

	registry := importer.DefaultRegistry()
	var batches []pipeline.FileBatch
	var fileNames []string
	for _, file := range files {
		detection, ok := registry.Detect(file.Name)
		if !ok {
			cmd.Printf("Skipping %s: no parser for this filename\n", file.Name)
			continue
		}

		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		parsed, err := detection.Parser.Parse(f, detection.AccountID, file.Name)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		for _, w := range parsed.Warnings {
			cmd.Printf("Warning [%s]: %s\n", file.Name, w)
		}
		batches = append(batches, pipeline.FileBatch{Filename: file.Name, Transactions: parsed.Transactions})
		fileNames = append(fileNames, file.Name)
	}
	if len(batches) == 0 {
		cmd.Println("Nothing to process: no recognized files in import/.")
		return nil
	}

	run, err := pipeline.Process(pipeline.Input{
		Batches:         batches,
		Rules:           ruleSet,
		BankCategories:  cfg.BankCategories,
		PaymentPatterns: cfg.PaymentPatterns,
		Matching:        matchCfg,
		Accounts:        chart,
	})
	if err != nil {
		return err
	}

	for _, w := range run.Warnings {
		cmd.Printf("Warning: %s\n", w)
	}

	journalPath := filepath.Join(dir, "export", "journal.csv")
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	out, err := os.Create(journalPath)
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	defer out.Close()
	if err := ledger.WriteEntries(out, run.Journal.Entries); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}

	if !keepInputs {
		for _, name := range fileNames {
			if err := importer.MarkProcessed(dir, name); err != nil {
				return err
			}
		}
	}

	logEntry := runlog.Entry{
		Timestamp:         time.Now().UTC(),
		RunID:             runlog.NewRunID(),
		Files:             fileNames,
		TransactionCount:  len(run.Transactions),
		DuplicatesRemoved: run.DuplicatesRemoved,
		MatchesFound:      run.MatchStats.MatchesFound,
		EntriesGenerated:  run.Journal.Stats.TotalEntries,
		JournalValid:      run.Journal.Validation.Valid,
	}
	if err := runlog.Append(dir, []runlog.Entry{logEntry}); err != nil {
		return err
	}

	cmd.Printf("Processed %d files: %d transactions (%d duplicates removed), %d matches, %d journal entries\n",
		len(fileNames), len(run.Transactions), run.DuplicatesRemoved,
		run.MatchStats.MatchesFound, run.Journal.Stats.TotalEntries)
	cmd.Printf("Categorized: user=%d shared=%d base=%d bank=%d uncategorized=%d (review: %d)\n",
		run.CategorizeStats.User, run.CategorizeStats.Shared, run.CategorizeStats.Base,
		run.CategorizeStats.Bank, run.CategorizeStats.Uncategorized, run.CategorizeStats.NeedsReview)

	// An unbalanced journal is fatal for a production run; the validator
	// only reports.
	if !run.Journal.Validation.Valid {
		for _, e := range run.Journal.Validation.Errors {
			cmd.PrintErrln("Error: " + e)
		}
		return fmt.Errorf("journal validation failed (difference %s)", run.Journal.Validation.Difference)
	}

	cmd.Printf("Journal balanced: debits = credits = %s\n", run.Journal.Validation.TotalDebits)
	return nil
}

func matcherConfig(mc config.MatchingConfig) (matcher.Config, error) {
	out := matcher.DefaultConfig()
	if mc.DateToleranceDays > 0 {
		out.DateToleranceDays = mc.DateToleranceDays
	}
	if mc.AmountTolerance != "" {
		tolerance, err := decimal.NewFromString(mc.AmountTolerance)
		if err != nil {
			return matcher.Config{}, fmt.Errorf("invalid amount_tolerance %q: %w", mc.AmountTolerance, err)
		}
		out.AmountTolerance = tolerance
	}
	return out, nil
}

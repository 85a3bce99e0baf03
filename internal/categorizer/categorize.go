// Package categorizer assigns categories via the layered rule hierarchy:
// user rules, shared rules, base rules, bank category, then the
// uncategorized fallback.
package categorizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Source identifies which layer produced a categorization.
type Source string

const (
	SourceUser          Source = "user"
	SourceShared        Source = "shared"
	SourceBase          Source = "base"
	SourceBank          Source = "bank"
	SourceUncategorized Source = "uncategorized"
)

// ReasonNoRuleMatch flags a transaction no layer could categorize.
const ReasonNoRuleMatch = "no_rule_match"

// Result is what Categorize decides for one transaction. The caller (or
// CategorizeAll) applies it; the input transaction is never written to.
type Result struct {
	CategoryID    int
	Confidence    float64
	Source        Source
	NeedsReview   bool
	ReviewReasons []string
}

// Options carries the optional layer-4 bank category mapping.
type Options struct {
	BankCategories BankCategoryMap
}

// matchesRule tests a normalized description against one rule. A regex
// that fails to compile is a non-match with a warning, never a panic or
// error: one bad pattern must not block the remaining rules.
func matchesRule(normalizedDesc string, rule model.Rule) (matched bool, warning string) {
	if rule.PatternType == model.PatternRegex {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return false, fmt.Sprintf("invalid regex pattern %q: %v", rule.Pattern, err)
		}
		return re.MatchString(normalizedDesc), ""
	}
	// Substring rules normalize the pattern the same way as the description.
	return strings.Contains(normalizedDesc, NormalizeDescription(rule.Pattern)), ""
}

// Categorize runs the layer hierarchy for a single transaction. First
// matching rule within a layer wins; layers are tried in priority order.
func Categorize(txn model.Transaction, rules model.RuleSet, opts Options) (Result, []string) {
	var warnings []string
	desc := NormalizeDescription(txn.RawDescription)

	tryLayer := func(layer []model.Rule, source Source, confidence float64) *Result {
		for _, rule := range layer {
			matched, warning := matchesRule(desc, rule)
			if warning != "" {
				warnings = append(warnings, warning)
			}
			if matched {
				return &Result{
					CategoryID:    rule.CategoryID,
					Confidence:    confidence,
					Source:        source,
					ReviewReasons: []string{},
				}
			}
		}
		return nil
	}

	if r := tryLayer(rules.UserRules, SourceUser, model.ConfidenceUserRules); r != nil {
		return *r, warnings
	}
	if r := tryLayer(rules.SharedRules, SourceShared, model.ConfidenceSharedRules); r != nil {
		return *r, warnings
	}
	if r := tryLayer(rules.BaseRules, SourceBase, model.ConfidenceBaseRules); r != nil {
		return *r, warnings
	}

	if txn.RawCategory != "" {
		if id, ok := opts.BankCategories.GuessCategory(txn.RawCategory); ok {
			return Result{
				CategoryID:    id,
				Confidence:    model.ConfidenceBankCategory,
				Source:        SourceBank,
				ReviewReasons: []string{},
			}, warnings
		}
	}

	return Result{
		CategoryID:    model.UncategorizedCategoryID,
		Confidence:    model.ConfidenceUncategorized,
		Source:        SourceUncategorized,
		NeedsReview:   true,
		ReviewReasons: []string{ReasonNoRuleMatch},
	}, warnings
}

// Stats aggregates per-source counts over a batch.
type Stats struct {
	Total         int
	User          int
	Shared        int
	Base          int
	Bank          int
	Uncategorized int
	NeedsReview   int
}

// CategorizeAll categorizes a batch and returns new transactions with
// category, confidence and review fields applied. Warnings are
// deduplicated across the batch.
func CategorizeAll(txns []model.Transaction, rules model.RuleSet, opts Options) ([]model.Transaction, []string, Stats) {
	out := make([]model.Transaction, 0, len(txns))
	var warnings []string
	seenWarnings := make(map[string]struct{})
	stats := Stats{Total: len(txns)}

	for _, txn := range txns {
		result, ws := Categorize(txn, rules, opts)

		c := txn.Clone()
		c.CategoryID = result.CategoryID
		c.Confidence = result.Confidence
		c.NeedsReview = c.NeedsReview || result.NeedsReview
		c.ReviewReasons = appendMissing(c.ReviewReasons, result.ReviewReasons)
		out = append(out, c)

		for _, w := range ws {
			if _, ok := seenWarnings[w]; ok {
				continue
			}
			seenWarnings[w] = struct{}{}
			warnings = append(warnings, w)
		}

		switch result.Source {
		case SourceUser:
			stats.User++
		case SourceShared:
			stats.Shared++
		case SourceBase:
			stats.Base++
		case SourceBank:
			stats.Bank++
		case SourceUncategorized:
			stats.Uncategorized++
		}
		if result.NeedsReview {
			stats.NeedsReview++
		}
	}
	return out, warnings, stats
}

func appendMissing(reasons, add []string) []string {
	for _, r := range add {
		found := false
		for _, existing := range reasons {
			if existing == r {
				found = true
				break
			}
		}
		if !found {
			reasons = append(reasons, r)
		}
	}
	return reasons
}

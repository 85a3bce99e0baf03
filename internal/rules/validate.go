package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Pattern validation thresholds.
const (
	minPatternLength = 5
	// A pattern matching more than this share of the sample is too broad
	// to be a merchant rule.
	maxMatchPercent    = 0.2
	maxMatchesForBroad = 3
)

// ValidationResult reports whether a proposed rule pattern is usable.
type ValidationResult struct {
	Valid        bool
	Errors       []string
	Warnings     []string
	MatchCount   int
	MatchPercent float64
}

// ValidatePattern checks a proposed pattern: substring patterns must meet
// the minimum length, regex patterns must compile, and either kind is
// rejected when it matches an implausibly large share of the sample
// transactions.
func ValidatePattern(pattern string, patternType model.PatternType, sample []model.Transaction) ValidationResult {
	result := ValidationResult{}

	if pattern == "" {
		result.Errors = append(result.Errors, "pattern is empty")
		return result
	}

	switch patternType {
	case model.PatternRegex:
		if _, err := regexp.Compile("(?i)" + pattern); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("regex does not compile: %v", err))
			return result
		}
	default:
		if len(categorizer.NormalizeDescription(pattern)) < minPatternLength {
			result.Errors = append(result.Errors, fmt.Sprintf("pattern shorter than %d characters matches too easily", minPatternLength))
			return result
		}
	}

	rule := model.NewRule(pattern, patternType, 0)
	for _, txn := range sample {
		matched, _ := MatchesSample(txn, rule)
		if matched {
			result.MatchCount++
		}
	}
	if len(sample) > 0 {
		result.MatchPercent = float64(result.MatchCount) / float64(len(sample))
	}

	if len(sample) > maxMatchesForBroad && result.MatchPercent > maxMatchPercent {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"pattern matches %d of %d sample transactions; too broad", result.MatchCount, len(sample)))
		return result
	}
	if result.MatchCount == 0 && len(sample) > 0 {
		result.Warnings = append(result.Warnings, "pattern matches no sample transactions")
	}

	result.Valid = true
	return result
}

// MatchesSample tests one transaction against a rule the same way the
// categorizer will.
func MatchesSample(txn model.Transaction, rule model.Rule) (bool, error) {
	desc := categorizer.NormalizeDescription(txn.RawDescription)
	if rule.PatternType == model.PatternRegex {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(desc), nil
	}
	needle := categorizer.NormalizeDescription(rule.Pattern)
	return needle != "" && strings.Contains(desc, needle), nil
}

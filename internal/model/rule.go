package model

// PatternType selects how a rule pattern is evaluated.
type PatternType string

const (
	PatternSubstring PatternType = "substring"
	PatternRegex     PatternType = "regex"
)

// Rule maps a description pattern to a category.
type Rule struct {
	Pattern     string      `yaml:"pattern"`
	PatternType PatternType `yaml:"pattern_type,omitempty"`
	CategoryID  int         `yaml:"category_id"`
	Note        string      `yaml:"note,omitempty"`
	AddedDate   string      `yaml:"added_date,omitempty"` // YYYY-MM-DD
}

// NewRule builds a Rule, defaulting an empty pattern type to substring.
// Defaults are applied here, once, not at each read site.
func NewRule(pattern string, patternType PatternType, categoryID int) Rule {
	if patternType == "" {
		patternType = PatternSubstring
	}
	return Rule{Pattern: pattern, PatternType: patternType, CategoryID: categoryID}
}

// RuleSet holds the three ordered rule layers, tried strictly in
// user -> shared -> base priority order.
type RuleSet struct {
	UserRules   []Rule
	SharedRules []Rule
	BaseRules   []Rule
}

// PaymentPattern describes how a bank-statement line is recognized as a
// credit-card payment: at least one keyword plus the card identifier must
// appear in the normalized description, and the payment can only settle
// one of the listed CC accounts.
type PaymentPattern struct {
	Keywords       []string `yaml:"keywords"`
	CardIdentifier string   `yaml:"card_identifier"`
	Accounts       []int    `yaml:"accounts"`
}

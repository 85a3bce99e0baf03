package categorizer

import "strings"

// BankCategoryEntry maps an institution-provided category string to a
// category account.
type BankCategoryEntry struct {
	Category   string `yaml:"category"`
	CategoryID int    `yaml:"category_id"`
}

// BankCategoryMap is an ordered mapping consulted as the layer-4 fallback.
// Order matters: partial matching is bidirectional containment, so the
// first satisfying key wins and iteration must be in insertion order.
type BankCategoryMap []BankCategoryEntry

// GuessCategory resolves a bank-provided category string. Exact
// case-insensitive match first, then bidirectional substring containment.
// Returns (0, false) when nothing satisfies.
func (m BankCategoryMap) GuessCategory(rawCategory string) (int, bool) {
	if rawCategory == "" {
		return 0, false
	}
	needle := strings.ToUpper(strings.TrimSpace(rawCategory))

	for _, e := range m {
		if strings.ToUpper(e.Category) == needle {
			return e.CategoryID, true
		}
	}
	for _, e := range m {
		key := strings.ToUpper(e.Category)
		if strings.Contains(needle, key) || strings.Contains(key, needle) {
			return e.CategoryID, true
		}
	}
	return 0, false
}

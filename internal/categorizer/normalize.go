package categorizer

import "strings"

// NormalizeDescription prepares a description for pattern matching:
// uppercase, * and # become spaces (common bank separators), whitespace
// runs collapse to one space, leading/trailing whitespace trimmed.
//
// Matching only. Transaction IDs hash the raw description.
func NormalizeDescription(raw string) string {
	s := strings.ToUpper(raw)
	s = strings.NewReplacer("*", " ", "#", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

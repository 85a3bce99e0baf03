package matcher

import (
	"strings"
	"time"

	"github.com/ohjona/finance-engine-2.0/internal/categorizer"
	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// shortTermLength is the containment cutoff: needles this short must match
// on word boundaries so a 3-letter bank code cannot match inside an
// unrelated longer word.
const shortTermLength = 4

// containsTerm reports whether the normalized description contains term.
// The term is normalized the same way as the description first.
func containsTerm(normalizedDesc, term string) bool {
	needle := categorizer.NormalizeDescription(term)
	if needle == "" {
		return false
	}
	if len(needle) > shortTermLength {
		return strings.Contains(normalizedDesc, needle)
	}
	return containsWord(normalizedDesc, needle)
}

// containsWord is substring containment restricted to word boundaries:
// the characters adjacent to the hit must not be letters or digits.
func containsWord(haystack, needle string) bool {
	for from := 0; from+len(needle) <= len(haystack); {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(needle)
		beforeOK := i == 0 || !isWordByte(haystack[i-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		from = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// eligiblePatterns returns the payment patterns a bank description
// satisfies: at least one keyword, the card identifier, and at least one
// configured CC account in the liability range.
func eligiblePatterns(normalizedDesc string, patterns []model.PaymentPattern) []model.PaymentPattern {
	var out []model.PaymentPattern
	for _, p := range patterns {
		hasKeyword := false
		for _, kw := range p.Keywords {
			if containsTerm(normalizedDesc, kw) {
				hasKeyword = true
				break
			}
		}
		if !hasKeyword || !containsTerm(normalizedDesc, p.CardIdentifier) {
			continue
		}
		if len(liabilityAccounts(p.Accounts)) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func liabilityAccounts(ids []int) []int {
	var out []int
	for _, id := range ids {
		if model.IsLiabilityAccount(id) {
			out = append(out, id)
		}
	}
	return out
}

// DaysBetween is the absolute whole-day distance between two calendar dates.
func DaysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

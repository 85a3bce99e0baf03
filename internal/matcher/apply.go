package matcher

import "github.com/ohjona/finance-engine-2.0/internal/model"

// ApplyReviewUpdates applies review-flag descriptors and returns a new
// slice; reasons already present on a transaction are not duplicated.
func ApplyReviewUpdates(txns []model.Transaction, updates []model.ReviewUpdate) []model.Transaction {
	byID := make(map[string][]model.ReviewUpdate, len(updates))
	for _, u := range updates {
		byID[u.TxnID] = append(byID[u.TxnID], u)
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		c := txn.Clone()
		for _, u := range byID[txn.ID] {
			c.NeedsReview = c.NeedsReview || u.NeedsReview
			for _, reason := range u.AddReviewReasons {
				if !containsString(c.ReviewReasons, reason) {
					c.ReviewReasons = append(c.ReviewReasons, reason)
				}
			}
		}
		out = append(out, c)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

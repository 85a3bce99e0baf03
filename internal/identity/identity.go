// Package identity computes deterministic transaction fingerprints and
// resolves same-batch collisions with stable suffixes.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// maxCollisions caps same-fingerprint repeats; the suffix format is two digits.
const maxCollisions = 99

// Fingerprint hashes the canonical pipe-joined payload to a 16-hex-char ID.
// The raw description is hashed verbatim and the amount is rendered with
// trailing zeros trimmed, so the ID is stable across runs and independent
// of file name or processing order.
func Fingerprint(effectiveDate time.Time, rawDescription string, amount decimal.Decimal, accountID int) string {
	payload := strings.Join([]string{
		model.Date(effectiveDate),
		rawDescription,
		amount.String(),
		strconv.Itoa(accountID),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:model.TxnIDLength]
}

// ResolveCollisions suffixes repeated fingerprints within one source file:
// the first occurrence keeps the bare ID, later ones get -02, -03, ... in
// encounter order. Returns a new slice; the input is not mutated.
func ResolveCollisions(txns []model.Transaction) ([]model.Transaction, error) {
	seen := make(map[string]int, len(txns))
	out := make([]model.Transaction, 0, len(txns))

	for _, txn := range txns {
		base := txn.ID
		seen[base]++
		n := seen[base]

		c := txn.Clone()
		if n > 1 {
			if n > maxCollisions {
				return nil, fmt.Errorf("collision overflow: %s has more than %d duplicates", base, maxCollisions)
			}
			c.ID = fmt.Sprintf("%s-%02d", base, n)
		}
		out = append(out, c)
	}
	return out, nil
}

// Deduplicate resolves intra-file collisions for each batch, then drops
// transactions whose resolved ID was already accepted from an earlier batch.
// Batches must arrive in a fixed order (lexicographic by filename) so that
// a repeat within one file is suffixed and kept, while the same purchase
// re-exported in an overlapping window is discarded.
func Deduplicate(batches [][]model.Transaction) (unique []model.Transaction, duplicates int, err error) {
	accepted := make(map[string]struct{})

	for _, batch := range batches {
		resolved, rerr := ResolveCollisions(batch)
		if rerr != nil {
			return nil, 0, rerr
		}
		for _, txn := range resolved {
			if _, ok := accepted[txn.ID]; ok {
				duplicates++
				continue
			}
			accepted[txn.ID] = struct{}{}
			unique = append(unique, txn)
		}
	}
	return unique, duplicates, nil
}

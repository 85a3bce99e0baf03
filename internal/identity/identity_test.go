package identity

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(desc, amount string, account int) model.Transaction {
	date := day(2025, 1, 15)
	t := model.Transaction{
		TxnDate:        date,
		PostDate:       date,
		EffectiveDate:  date,
		RawDescription: desc,
		Description:    desc,
		SignedAmount:   dec(amount),
		AccountID:      account,
		CategoryID:     model.UncategorizedCategoryID,
	}
	t.ID = Fingerprint(t.EffectiveDate, t.RawDescription, t.SignedAmount, t.AccountID)
	return t
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(day(2025, 1, 15), "CHIPOTLE 1234", dec("-15.42"), 2122)
	b := Fingerprint(day(2025, 1, 15), "CHIPOTLE 1234", dec("-15.42"), 2122)
	assert.Equal(t, a, b)
	assert.Len(t, a, model.TxnIDLength)
	assert.Regexp(t, "^[0-9a-f]+$", a)
}

func TestFingerprint_TrailingZerosCanonical(t *testing.T) {
	// -15.420 and -15.42 are the same amount and must hash identically.
	a := Fingerprint(day(2025, 1, 15), "CHIPOTLE", dec("-15.42"), 2122)
	b := Fingerprint(day(2025, 1, 15), "CHIPOTLE", dec("-15.420"), 2122)
	assert.Equal(t, a, b)
}

func TestFingerprint_FieldSensitivity(t *testing.T) {
	base := Fingerprint(day(2025, 1, 15), "CHIPOTLE", dec("-15.42"), 2122)
	tests := []struct {
		name string
		got  string
	}{
		{"date", Fingerprint(day(2025, 1, 16), "CHIPOTLE", dec("-15.42"), 2122)},
		{"description", Fingerprint(day(2025, 1, 15), "CHIPOTLE ", dec("-15.42"), 2122)},
		{"amount", Fingerprint(day(2025, 1, 15), "CHIPOTLE", dec("-15.43"), 2122)},
		{"account", Fingerprint(day(2025, 1, 15), "CHIPOTLE", dec("-15.42"), 2131)},
	}
	for _, tt := range tests {
		assert.NotEqual(t, base, tt.got, "changing %s must change the fingerprint", tt.name)
	}
}

func TestResolveCollisions_Suffixes(t *testing.T) {
	txns := []model.Transaction{
		txn("COFFEE SHOP", "-4.50", 2122),
		txn("COFFEE SHOP", "-4.50", 2122),
		txn("COFFEE SHOP", "-4.50", 2122),
	}
	base := txns[0].ID

	resolved, err := ResolveCollisions(txns)
	require.NoError(t, err)
	require.Len(t, resolved, 3)

	assert.Equal(t, base, resolved[0].ID)
	assert.Equal(t, base+"-02", resolved[1].ID)
	assert.Equal(t, base+"-03", resolved[2].ID)

	// Input slice must be untouched.
	assert.Equal(t, base, txns[1].ID)
}

func TestResolveCollisions_PreservesOrder(t *testing.T) {
	txns := []model.Transaction{
		txn("ALPHA", "-1.00", 2122),
		txn("BETA", "-2.00", 2122),
		txn("ALPHA", "-1.00", 2122),
	}
	resolved, err := ResolveCollisions(txns)
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", resolved[0].RawDescription)
	assert.Equal(t, "BETA", resolved[1].RawDescription)
	assert.Equal(t, resolved[0].ID+"-02", resolved[2].ID)
}

func TestResolveCollisions_Overflow(t *testing.T) {
	txns := make([]model.Transaction, 100)
	for i := range txns {
		txns[i] = txn("SUBSCRIPTION", "-9.99", 2122)
	}
	_, err := ResolveCollisions(txns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision")
}

func TestDeduplicate_AcrossFiles(t *testing.T) {
	shared := txn("CHIPOTLE 1234", "-15.42", 2122)
	onlyA := txn("ZARA", "-89.99", 2122)
	onlyB := txn("SHELL OIL", "-40.00", 2122)

	unique, dups, err := Deduplicate([][]model.Transaction{
		{shared, onlyA},
		{shared, onlyB},
	})
	require.NoError(t, err)

	require.Len(t, unique, 3)
	assert.Equal(t, 1, dups)
	ids := map[string]bool{}
	for _, u := range unique {
		ids[u.ID] = true
	}
	assert.True(t, ids[shared.ID])
	assert.True(t, ids[onlyA.ID])
	assert.True(t, ids[onlyB.ID])
}

func TestDeduplicate_CollisionsResolvedPerFile(t *testing.T) {
	a := txn("COFFEE SHOP", "-4.50", 2122)
	b := txn("COFFEE SHOP", "-4.50", 2122)

	unique, dups, err := Deduplicate([][]model.Transaction{{a, b}})
	require.NoError(t, err)

	// Same-file collisions are distinct transactions, not duplicates.
	require.Len(t, unique, 2)
	assert.Equal(t, 0, dups)
	assert.Equal(t, a.ID, unique[0].ID)
	assert.Equal(t, fmt.Sprintf("%s-02", a.ID), unique[1].ID)
}

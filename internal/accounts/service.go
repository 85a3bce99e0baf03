// Package accounts provides the chart-of-accounts directory the ledger
// resolves posting targets against.
package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohjona/finance-engine-2.0/internal/model"
)

// Directory provides in-memory lookup over the chart of accounts.
type Directory struct {
	accounts []model.Account
	byID     map[int]model.Account
}

// NewDirectory creates a Directory from a slice of accounts.
func NewDirectory(accounts []model.Account) *Directory {
	byID := make(map[int]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Directory{accounts: accounts, byID: byID}
}

// Load reads chart-of-accounts.csv from a workspace root.
func Load(workspaceRoot string) (*Directory, error) {
	path := filepath.Join(workspaceRoot, "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewDirectory(accts), nil
}

// All returns all accounts.
func (d *Directory) All() []model.Account {
	return d.accounts
}

// Get returns an account by ID.
func (d *Directory) Get(id int) (model.Account, bool) {
	a, ok := d.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (d *Directory) Exists(id int) bool {
	_, ok := d.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (d *Directory) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range d.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to <workspaceRoot>/chart-of-accounts.csv.
func (d *Directory) Save(workspaceRoot string) error {
	path := filepath.Join(workspaceRoot, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, d.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

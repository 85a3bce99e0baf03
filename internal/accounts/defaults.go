package accounts

import "github.com/ohjona/finance-engine-2.0/internal/model"

// DefaultChart returns the starter chart of accounts seeded by init.
// The 4-digit ID ranges carry the account type: 1xxx asset, 2xxx
// liability, 3xxx income, 4xxx expense, 9xxx special.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: 1120, Name: "Chase Checking", Type: model.AccountTypeAsset, Institution: "Chase", Description: "Primary checking account"},
		{ID: 1130, Name: "BofA Checking", Type: model.AccountTypeAsset, Institution: "Bank of America"},
		{ID: 2122, Name: "Amex Delta", Type: model.AccountTypeLiability, Institution: "Amex", Description: "Amex Delta SkyMiles card"},
		{ID: 2131, Name: "Discover It", Type: model.AccountTypeLiability, Institution: "Discover"},
		{ID: 3010, Name: "Salary", Type: model.AccountTypeIncome},
		{ID: 3910, Name: "Interest Income", Type: model.AccountTypeIncome},
		{ID: 4110, Name: "Groceries", Type: model.AccountTypeExpense},
		{ID: 4260, Name: "Transportation", Type: model.AccountTypeExpense},
		{ID: 4320, Name: "Restaurants", Type: model.AccountTypeExpense},
		{ID: 4410, Name: "Clothing", Type: model.AccountTypeExpense},
		{ID: 4510, Name: "Utilities", Type: model.AccountTypeExpense},
		{ID: 4990, Name: "Miscellaneous", Type: model.AccountTypeExpense},
		{ID: model.UncategorizedCategoryID, Name: "Uncategorized", Type: model.AccountTypeExpense, Description: "Categorization fallback; review before closing"},
		{ID: 9010, Name: "Transfers", Type: model.AccountTypeSpecial, Description: "Inter-account transfers"},
	}
}

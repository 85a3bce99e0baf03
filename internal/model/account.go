package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeSpecial   AccountType = "special"
	AccountTypeUnknown   AccountType = "unknown"
)

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          int
	Name        string
	Type        AccountType
	Institution string
	Description string
}

// Account ID ranges. The 4-digit ID encodes the account type.
const (
	assetMin     = 1000
	assetMax     = 1999
	liabilityMin = 2000
	liabilityMax = 2999
	incomeMin    = 3000
	incomeMax    = 3999
	expenseMin   = 4000
	expenseMax   = 4999
	specialMin   = 9000
	specialMax   = 9999
)

// AccountTypeOf classifies an account ID by its reserved range.
func AccountTypeOf(id int) AccountType {
	switch {
	case id >= assetMin && id <= assetMax:
		return AccountTypeAsset
	case id >= liabilityMin && id <= liabilityMax:
		return AccountTypeLiability
	case id >= incomeMin && id <= incomeMax:
		return AccountTypeIncome
	case id >= expenseMin && id <= expenseMax:
		return AccountTypeExpense
	case id >= specialMin && id <= specialMax:
		return AccountTypeSpecial
	default:
		return AccountTypeUnknown
	}
}

// IsAssetAccount reports whether id falls in the asset (bank) range.
func IsAssetAccount(id int) bool {
	return AccountTypeOf(id) == AccountTypeAsset
}

// IsLiabilityAccount reports whether id falls in the liability (card) range.
func IsLiabilityAccount(id int) bool {
	return AccountTypeOf(id) == AccountTypeLiability
}

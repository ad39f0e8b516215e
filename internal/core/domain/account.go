package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType represents the classification of an accounting category.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AllAccountTypes lists the types in reporting order.
var AllAccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for types whose balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// NaturalBalance returns the balance in the type's natural sign:
// debit minus credit for Asset and Expense, credit minus debit otherwise.
func (t AccountType) NaturalBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if t.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Account is an accounting category of an organization's chart of accounts.
type Account struct {
	AccountID      string      `json:"account_id"`
	OrganizationID string      `json:"organization_id"`
	Name           string      `json:"name"`
	AccountCode    string      `json:"account_code"`
	AccountType    AccountType `json:"account_type"`
	IsHeader       bool        `json:"is_header"`
	IsSystem       bool        `json:"is_system"`
	IsActive       bool        `json:"is_active"`
	AuditFields
}

// IsPostable reports whether lines may reference the account in new entries.
func (a Account) IsPostable() bool {
	return !a.IsHeader && a.IsActive
}

// DedupeResult reports what Deduplicate did with the surplus rows of each name.
// Rows referenced by journal lines are deactivated instead of deleted so
// historical entries keep their account.
type DedupeResult struct {
	Removed     int
	Deactivated int
}

// NormalizeAccountName is the key under which account names are compared for
// duplicates and resolution.
func NormalizeAccountName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ChartSeed is one row of the default chart created for new organizations.
type ChartSeed struct {
	Code string
	Name string
	Type AccountType
}

// Well known account names the hooks and quick entries fall back on.
const (
	AccountNameOperatingBank  = "Operating Bank"
	AccountNameRentalIncome   = "Rental Income"
	AccountNameOtherExpense   = "Other Expense"
	DefaultCashAccountCode    = "1020"
	DefaultRentalIncomeCode   = "4100"
	DefaultRepairsExpenseCode = "5100"
)

// DefaultChart returns the system chart seeded for every organization.
func DefaultChart() []ChartSeed {
	return []ChartSeed{
		{Code: "1010", Name: "Cash on Hand", Type: Asset},
		{Code: DefaultCashAccountCode, Name: AccountNameOperatingBank, Type: Asset},
		{Code: "1100", Name: "Accounts Receivable", Type: Asset},
		{Code: "2100", Name: "Security Deposits Held", Type: Liability},
		{Code: "3000", Name: "Owner's Equity", Type: Equity},
		{Code: DefaultRentalIncomeCode, Name: AccountNameRentalIncome, Type: Revenue},
		{Code: "4200", Name: "Late Fees", Type: Revenue},
		{Code: DefaultRepairsExpenseCode, Name: "Repairs & Maintenance", Type: Expense},
		{Code: "5200", Name: "Utilities", Type: Expense},
		{Code: "5300", Name: "Insurance", Type: Expense},
		{Code: "5400", Name: "Property Taxes", Type: Expense},
		{Code: "5500", Name: "Mortgage Interest", Type: Expense},
		{Code: "5600", Name: "HOA Fees", Type: Expense},
		{Code: "5700", Name: "Landscaping", Type: Expense},
		{Code: "5800", Name: "Cleaning", Type: Expense},
		{Code: "5900", Name: AccountNameOtherExpense, Type: Expense},
	}
}

package dto

import "github.com/shopspring/decimal"

// RecordIncomeRequest posts revenue received into a cash account in one step.
// DepositToAccountID defaults to the organization's operating bank account.
type RecordIncomeRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"money_positive"`
	RevenueAccountID   string          `json:"revenue_account_id" binding:"required"`
	DepositToAccountID *string         `json:"deposit_to_account_id"`
	Date               string          `json:"date" binding:"required,datetime=2006-01-02"`
	PropertyID         *string         `json:"property_id"`
	Description        string          `json:"description" binding:"max=255"`
}

// RecordExpenseRequest posts an expense paid from a cash account in one step.
// PaidFromAccountID defaults to the organization's operating bank account.
type RecordExpenseRequest struct {
	Amount            decimal.Decimal `json:"amount" binding:"money_positive"`
	ExpenseAccountID  string          `json:"expense_account_id" binding:"required"`
	PaidFromAccountID *string         `json:"paid_from_account_id"`
	Date              string          `json:"date" binding:"required,datetime=2006-01-02"`
	Vendor            string          `json:"vendor" binding:"max=255"`
	Description       string          `json:"description" binding:"max=255"`
	PropertyID        *string         `json:"property_id"`
}

// RecordTransferRequest moves money between two asset accounts.
type RecordTransferRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"money_positive"`
	FromAccountID string          `json:"from_account_id" binding:"required"`
	ToAccountID   string          `json:"to_account_id" binding:"required,nefield=FromAccountID"`
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description   string          `json:"description" binding:"max=255"`
}

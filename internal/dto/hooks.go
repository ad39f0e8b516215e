package dto

import "github.com/shopspring/decimal"

// RentPaymentEvent is emitted by the payments module when a rent payment completes.
type RentPaymentEvent struct {
	PaymentID        string          `json:"payment_id" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"money_positive"`
	PaymentDate      string          `json:"payment_date" binding:"required,datetime=2006-01-02"`
	DepositAccountID *string         `json:"deposit_account_id"`
	PropertyID       *string         `json:"property_id"`
	UnitID           *string         `json:"unit_id"`
	TenantName       string          `json:"tenant_name" binding:"max=255"`
	Reference        string          `json:"reference" binding:"max=100"`
}

// BillPaymentEvent is emitted by the bills module when a bill payment is recorded.
// A missing ExpenseAccountID falls back to "Other Expense".
type BillPaymentEvent struct {
	BillPaymentID     string          `json:"bill_payment_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"money_positive"`
	PaymentDate       string          `json:"payment_date" binding:"required,datetime=2006-01-02"`
	ExpenseAccountID  *string         `json:"expense_account_id"`
	PaidFromAccountID *string         `json:"paid_from_account_id"`
	VendorName        string          `json:"vendor_name" binding:"max=255"`
	PropertyID        *string         `json:"property_id"`
	UnitID            *string         `json:"unit_id"`
	Reference         string          `json:"reference" binding:"max=100"`
}

// HookResponse returns the entry recorded for the event. Created is false when
// the event had already been recorded.
type HookResponse struct {
	JournalEntry JournalEntryResponse `json:"journal_entry"`
	Created      bool                 `json:"created"`
}

// ImportedRow is one categorized bank statement row handed off by the CSV importer.
// A positive amount is money in, a negative amount is money out.
type ImportedRow struct {
	RowID             string          `json:"row_id" binding:"required"`
	Date              string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount            decimal.Decimal `json:"amount" binding:"money_nonzero"`
	CategoryAccountID string          `json:"category_account_id" binding:"required"`
	Description       string          `json:"description" binding:"max=255"`
	PropertyID        *string         `json:"property_id"`
}

// ImportBatchRequest is the post-import hand-off of categorized rows.
type ImportBatchRequest struct {
	BankAccountID string        `json:"bank_account_id" binding:"required"`
	Rows          []ImportedRow `json:"rows" binding:"required,min=1,dive"`
}

// ImportRowResult reports the entry recorded for one row.
type ImportRowResult struct {
	RowID   string `json:"row_id"`
	EntryID string `json:"entry_id"`
	Created bool   `json:"created"`
}

// ImportBatchResponse summarizes an import hand-off.
type ImportBatchResponse struct {
	Results    []ImportRowResult `json:"results"`
	Created    int               `json:"created"`
	Duplicates int               `json:"duplicates"`
}

package dto

import (
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new chart account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=255"`
	AccountCode string             `json:"account_code" binding:"omitempty,alphanum,max=20"`
	AccountType domain.AccountType `json:"account_type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsHeader    bool               `json:"is_header"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	AccountCode *string `json:"account_code" binding:"omitempty,alphanum,max=20"`
	IsActive    *bool   `json:"is_active"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"id"`
	Name          string             `json:"name"`
	AccountCode   string             `json:"account_code"`
	AccountType   domain.AccountType `json:"account_type"`
	IsHeader      bool               `json:"is_header"`
	IsSystem      bool               `json:"is_system"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	CreatedBy     string             `json:"created_by"`
	LastUpdatedAt time.Time          `json:"last_updated_at"`
	LastUpdatedBy string             `json:"last_updated_by"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		AccountCode:   acc.AccountCode,
		AccountType:   acc.AccountType,
		IsHeader:      acc.IsHeader,
		IsSystem:      acc.IsSystem,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// DeduplicateChartResponse reports what happened to duplicate rows.
type DeduplicateChartResponse struct {
	Removed     int `json:"removed"`
	Deactivated int `json:"deactivated"`
}

// AccountLedgerParams defines query parameters for the account ledger.
type AccountLedgerParams struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// AccountLedgerLineResponse is one posted line with the running balance after it.
type AccountLedgerLineResponse struct {
	EntryID      string `json:"entry_id"`
	LineID       string `json:"line_id"`
	EntryDate    string `json:"entry_date"`
	Memo         string `json:"memo"`
	Description  string `json:"description,omitempty"`
	SourceType   string `json:"source_type"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Balance      string `json:"balance"`
}

// AccountLedgerResponse is the running-balance statement of an account.
type AccountLedgerResponse struct {
	Account        AccountResponse             `json:"account"`
	DateFrom       *string                     `json:"date_from,omitempty"`
	DateTo         *string                     `json:"date_to,omitempty"`
	OpeningBalance string                      `json:"opening_balance"`
	Lines          []AccountLedgerLineResponse `json:"lines"`
	ClosingBalance string                      `json:"closing_balance"`
}

// ToAccountLedgerResponse converts a domain.AccountLedger to its DTO.
func ToAccountLedgerResponse(l *domain.AccountLedger) AccountLedgerResponse {
	res := AccountLedgerResponse{
		Account:        ToAccountResponse(&l.Account),
		DateFrom:       formatOptionalDate(l.DateFrom),
		DateTo:         formatOptionalDate(l.DateTo),
		OpeningBalance: domain.FormatMoney(l.OpeningBalance),
		Lines:          make([]AccountLedgerLineResponse, len(l.Lines)),
		ClosingBalance: domain.FormatMoney(l.ClosingBalance),
	}
	for i, line := range l.Lines {
		res.Lines[i] = AccountLedgerLineResponse{
			EntryID:      line.EntryID,
			LineID:       line.LineID,
			EntryDate:    line.EntryDate.Format(domain.DateLayout),
			Memo:         line.Memo,
			Description:  line.Description,
			SourceType:   line.SourceType,
			DebitAmount:  domain.FormatMoney(line.DebitAmount),
			CreditAmount: domain.FormatMoney(line.CreditAmount),
			Balance:      domain.FormatMoney(line.Balance),
		}
	}
	return res
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

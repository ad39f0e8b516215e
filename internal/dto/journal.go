package dto

import (
	"strings"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID    string          `json:"account_id" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debit_amount" binding:"money"`
	CreditAmount decimal.Decimal `json:"credit_amount" binding:"money"`
	Description  string          `json:"description" binding:"max=255"`
	PropertyID   *string         `json:"property_id"`
	UnitID       *string         `json:"unit_id"`
	Reference    string          `json:"reference" binding:"max=100"`
}

// CreateJournalEntryRequest defines the data needed to create a manual entry.
// Status defaults to Draft.
type CreateJournalEntryRequest struct {
	EntryDate string               `json:"entry_date" binding:"required,datetime=2006-01-02"`
	Memo      string               `json:"memo" binding:"max=1000"`
	Status    string               `json:"status" binding:"omitempty,oneof=DRAFT POSTED draft posted"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TargetStatus returns the requested initial status.
func (r CreateJournalEntryRequest) TargetStatus() domain.JournalStatus {
	if r.Status == "" {
		return domain.Draft
	}
	return domain.JournalStatus(strings.ToUpper(r.Status))
}

// UpdateJournalEntryRequest replaces the date, memo and lines of a Draft.
type UpdateJournalEntryRequest struct {
	EntryDate string               `json:"entry_date" binding:"required,datetime=2006-01-02"`
	Memo      string               `json:"memo" binding:"max=1000"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReverseJournalEntryRequest carries the optional date of the reversal.
type ReverseJournalEntryRequest struct {
	ReversalDate *string `json:"reversal_date" binding:"omitempty,datetime=2006-01-02"`
}

// JournalLineResponse defines the data returned for a line.
type JournalLineResponse struct {
	LineID       string  `json:"id"`
	LineNo       int     `json:"line_no"`
	AccountID    string  `json:"account_id"`
	DebitAmount  string  `json:"debit_amount"`
	CreditAmount string  `json:"credit_amount"`
	Description  string  `json:"description,omitempty"`
	PropertyID   *string `json:"property_id,omitempty"`
	UnitID       *string `json:"unit_id,omitempty"`
	Reference    string  `json:"reference,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"id"`
	OrganizationID    string                `json:"organization_id"`
	EntryDate         string                `json:"entry_date"`
	Memo              string                `json:"memo"`
	Status            domain.JournalStatus  `json:"status"`
	SourceType        string                `json:"source_type"`
	SourceID          *string               `json:"source_id,omitempty"`
	PostedAt          *time.Time            `json:"posted_at,omitempty"`
	ReversedByEntryID *string               `json:"reversed_by_entry_id,omitempty"`
	TotalDebit        string                `json:"total_debit"`
	TotalCredit       string                `json:"total_credit"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"created_at"`
	CreatedBy         string                `json:"created_by"`
	LastUpdatedAt     time.Time             `json:"last_updated_at"`
	LastUpdatedBy     string                `json:"last_updated_by"`
}

// JournalEntryEnvelope wraps an entry under the journal_entry key.
type JournalEntryEnvelope struct {
	JournalEntry JournalEntryResponse `json:"journal_entry"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debit, credit := e.Totals()
	res := JournalEntryResponse{
		EntryID:           e.EntryID,
		OrganizationID:    e.OrganizationID,
		EntryDate:         e.EntryDate.Format(domain.DateLayout),
		Memo:              e.Memo,
		Status:            e.Status,
		SourceType:        e.SourceType,
		SourceID:          e.SourceID,
		PostedAt:          e.PostedAt,
		ReversedByEntryID: e.ReversedByEntryID,
		TotalDebit:        domain.FormatMoney(debit),
		TotalCredit:       domain.FormatMoney(credit),
		Lines:             make([]JournalLineResponse, len(e.Lines)),
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
	for i, l := range e.Lines {
		res.Lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			LineNo:       l.LineNo,
			AccountID:    l.AccountID,
			DebitAmount:  domain.FormatMoney(l.DebitAmount),
			CreditAmount: domain.FormatMoney(l.CreditAmount),
			Description:  l.Description,
			PropertyID:   l.PropertyID,
			UnitID:       l.UnitID,
			Reference:    l.Reference,
		}
	}
	return res
}

// NewJournalEntryEnvelope wraps the converted entry.
func NewJournalEntryEnvelope(e *domain.JournalEntry) JournalEntryEnvelope {
	return JournalEntryEnvelope{JournalEntry: ToJournalEntryResponse(e)}
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED VOIDED draft posted reversed voided"`
	SourceType string `form:"source_type"`
	SourceID   string `form:"source_id"`
	AccountID  string `form:"account_id"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  string `form:"next_token"`
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	JournalEntries []JournalEntryResponse `json:"journal_entries"`
	NextToken      *string                `json:"next_token,omitempty"`
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	res := ListJournalEntriesResponse{
		JournalEntries: make([]JournalEntryResponse, len(entries)),
		NextToken:      nextToken,
	}
	for i := range entries {
		res.JournalEntries[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

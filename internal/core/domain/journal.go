package domain

import (
	"fmt"
	"time"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus is the lifecycle state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
	Voided   JournalStatus = "VOIDED"
)

// IsValid reports whether s is a known status.
func (s JournalStatus) IsValid() bool {
	switch s {
	case Draft, Posted, Reversed, Voided:
		return true
	}
	return false
}

// InLedger reports whether lines of an entry in this status count toward
// balances. A Reversed entry was Posted and stays in the ledger next to the
// reversal that offsets it.
func (s JournalStatus) InLedger() bool {
	return s == Posted || s == Reversed
}

// Source types written by the ledger itself. Other collaborators may use
// their own discriminators.
const (
	SourceManual      = "manual"
	SourceRentPayment = "rent_payment"
	SourceTransfer    = "transfer"
	SourceReversal    = "reversal"
	SourceImport      = "import"
)

// JournalEntry is the header of a double-entry transaction.
type JournalEntry struct {
	EntryID           string        `json:"entry_id"`
	OrganizationID    string        `json:"organization_id"`
	EntryDate         time.Time     `json:"entry_date"`
	Memo              string        `json:"memo"`
	Status            JournalStatus `json:"status"`
	SourceType        string        `json:"source_type"`
	SourceID          *string       `json:"source_id,omitempty"`
	PostedAt          *time.Time    `json:"posted_at,omitempty"`
	ReversedByEntryID *string       `json:"reversed_by_entry_id,omitempty"`
	Lines             []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against an account.
type JournalLine struct {
	LineID         string          `json:"line_id"`
	EntryID        string          `json:"entry_id"`
	OrganizationID string          `json:"organization_id"`
	LineNo         int             `json:"line_no"`
	AccountID      string          `json:"account_id"`
	DebitAmount    decimal.Decimal `json:"debit_amount"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	Description    string          `json:"description,omitempty"`
	PropertyID     *string         `json:"property_id,omitempty"`
	UnitID         *string         `json:"unit_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// ValidateShape checks that exactly one side of the line carries a strictly
// positive amount.
func (l JournalLine) ValidateShape() error {
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, l.LineNo)
	}
	if !MoneyInRange(l.DebitAmount) || !MoneyInRange(l.CreditAmount) {
		return fmt.Errorf("%w: line %d amount exceeds %s", apperrors.ErrValidation, l.LineNo, FormatMoney(MaxMoney))
	}
	debit := l.DebitAmount.IsPositive()
	credit := l.CreditAmount.IsPositive()
	switch {
	case debit && credit:
		return fmt.Errorf("%w: line %d has both debit and credit amounts", apperrors.ErrValidation, l.LineNo)
	case !debit && !credit:
		return fmt.Errorf("%w: line %d has neither a debit nor a credit amount", apperrors.ErrValidation, l.LineNo)
	}
	return nil
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.DebitAmount, l.CreditAmount = l.CreditAmount, l.DebitAmount
	return l
}

// Totals sums both columns independently.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit, credit
}

// ValidateLines checks the shape of every line.
func (e JournalEntry) ValidateLines() error {
	for _, l := range e.Lines {
		if err := l.ValidateShape(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForPost checks cardinality, line shape and balance. Account and
// period checks need the store and live in the lifecycle service.
func (e JournalEntry) ValidateForPost() error {
	if len(e.Lines) < 2 {
		return fmt.Errorf("%w: a posted entry needs at least two lines, got %d", apperrors.ErrValidation, len(e.Lines))
	}
	if err := e.ValidateLines(); err != nil {
		return err
	}
	debit, credit := e.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits (%s) do not equal credits (%s)", apperrors.ErrUnbalancedEntry, FormatMoney(debit), FormatMoney(credit))
	}
	return nil
}

// AccountIDs returns the distinct accounts referenced by the lines.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// StatusChange describes a conditional status transition of one entry.
type StatusChange struct {
	EntryID           string
	From              JournalStatus
	To                JournalStatus
	PostedAt          *time.Time
	ReversedByEntryID *string
	UpdatedBy         string
	UpdatedAt         time.Time
}

// JournalFilter narrows journal entry queries. OrganizationID is mandatory.
type JournalFilter struct {
	OrganizationID string
	Status         *JournalStatus
	SourceType     *string
	SourceID       *string
	AccountID      *string
	DateFrom       *time.Time
	DateTo         *time.Time
}

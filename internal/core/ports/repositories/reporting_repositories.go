package repositories

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// ReportingRepository aggregates posted lines for the report derivers. Only
// lines whose parent entry is in the ledger (Posted, or Reversed with its
// offsetting reversal) are ever considered.
type ReportingRepository interface {
	// GetAccountTotals sums debit and credit amounts per account independently.
	// Accounts without matching lines are omitted.
	GetAccountTotals(ctx context.Context, organizationID string, filter domain.LineFilter) ([]domain.AccountTotals, error)

	// GetAccountLedgerLines lists Posted lines on one account in date order.
	GetAccountLedgerLines(ctx context.Context, organizationID, accountID string, filter domain.LineFilter) ([]domain.LedgerLine, error)
}

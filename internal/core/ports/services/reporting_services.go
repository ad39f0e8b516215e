package services

import (
	"context"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// ReportingService derives statements from the posted ledger of one organization.
// Reports are recomputed on every call.
type ReportingService interface {
	// TrialBalance lists per-account debit and credit totals for entries dated on or before asOf.
	TrialBalance(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalanceReport, error)
	// ProfitAndLoss covers the inclusive range [from, to].
	ProfitAndLoss(ctx context.Context, organizationID string, from, to time.Time) (*domain.ProfitAndLossReport, error)
	BalanceSheet(ctx context.Context, organizationID string, asOf time.Time) (*domain.BalanceSheetReport, error)
}

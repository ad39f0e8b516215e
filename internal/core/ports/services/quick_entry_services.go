package services

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// QuickEntrySvc records common two-line entries directly as Posted.
type QuickEntrySvc interface {
	RecordIncome(ctx context.Context, organizationID string, req dto.RecordIncomeRequest, userID string) (*domain.JournalEntry, error)
	RecordExpense(ctx context.Context, organizationID string, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error)
	RecordTransfer(ctx context.Context, organizationID string, req dto.RecordTransferRequest, userID string) (*domain.JournalEntry, error)
}

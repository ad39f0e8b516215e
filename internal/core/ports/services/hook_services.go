package services

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// HookSvc records posted entries on behalf of other modules. Every hook is
// idempotent on (source_type, source_id): the boolean result is false when the
// event had already been recorded and the existing entry is returned.
type HookSvc interface {
	RecordRentPayment(ctx context.Context, organizationID string, event dto.RentPaymentEvent, userID string) (*domain.JournalEntry, bool, error)
	RecordBillPayment(ctx context.Context, organizationID string, event dto.BillPaymentEvent, userID string) (*domain.JournalEntry, bool, error)

	// The InTx variants run inside a transaction owned by the caller, so the
	// ledger entry commits or rolls back together with the payment. They do not
	// touch the hook metrics; only the caller knows whether the entry committed.
	RecordRentPaymentInTx(ctx context.Context, tx repositories.Repositories, organizationID string, event dto.RentPaymentEvent, userID string) (*domain.JournalEntry, bool, error)
	RecordBillPaymentInTx(ctx context.Context, tx repositories.Repositories, organizationID string, event dto.BillPaymentEvent, userID string) (*domain.JournalEntry, bool, error)

	// RecordImportedBatch posts one entry per imported row in a single transaction.
	RecordImportedBatch(ctx context.Context, organizationID string, req dto.ImportBatchRequest, userID string) (*dto.ImportBatchResponse, error)
}

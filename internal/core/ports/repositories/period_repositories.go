package repositories

import (
	"context"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods lists the periods of an organization ordered by start date.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)

	// FindOverlappingPeriods returns periods intersecting [start, end].
	FindOverlappingPeriods(ctx context.Context, organizationID string, start, end time.Time) ([]domain.AccountingPeriod, error)

	// FindLockedPeriodForDate returns the first locked period containing date, or nil.
	FindLockedPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodLock persists the lock flag, locked_at, locked_by and audit fields.
	UpdatePeriodLock(ctx context.Context, period domain.AccountingPeriod) error
}

// PeriodTransactionSupport defines locking operations valid inside a transaction
type PeriodTransactionSupport interface {
	// LockPeriodsCoveringDate selects every period containing date with a row lock,
	// so a concurrent Lock cannot commit between the check and the posting. It
	// also holds off period creation for the organization until the transaction ends.
	LockPeriodsCoveringDate(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error)

	// AcquirePeriodCreationLock serializes period creation within an organization
	// and waits for transactions that have already checked the periods.
	AcquirePeriodCreationLock(ctx context.Context, organizationID string) error

	// FindPeriodByIDForUpdate retrieves a period and locks its row.
	FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodTransactionSupport
}

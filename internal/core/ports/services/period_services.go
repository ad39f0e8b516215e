package services

import (
	"context"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// PeriodSvc manages accounting periods and the posting gate they enforce.
type PeriodSvc interface {
	CreatePeriod(ctx context.Context, organizationID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)
	LockPeriod(ctx context.Context, organizationID, periodID, userID string) (*domain.AccountingPeriod, error)
	UnlockPeriod(ctx context.Context, organizationID, periodID, userID string) (*domain.AccountingPeriod, error)
	IsDateLocked(ctx context.Context, organizationID string, date time.Time) (bool, error)
	GetPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error)
}

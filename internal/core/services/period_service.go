package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// periodService implements the PeriodSvc interface
type periodService struct {
	BaseService
	store portsrepo.Store
}

// NewPeriodService creates a new PeriodSvc.
func NewPeriodService(store portsrepo.Store, opts ...ServiceOption) portssvc.PeriodSvc {
	o := applyOptions(opts)
	return &periodService{
		BaseService: BaseService{Clock: o.clock},
		store:       store,
	}
}

var _ portssvc.PeriodSvc = (*periodService)(nil)

// CreatePeriod creates an unlocked period. Periods of one organization never
// overlap and never span a calendar year boundary.
func (s *periodService) CreatePeriod(ctx context.Context, organizationID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	start, err := parseRequestDate("period_start", req.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseRequestDate("period_end", req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: period_start must not be after period_end", apperrors.ErrValidation)
	}
	if start.Year() != end.Year() {
		return nil, fmt.Errorf("%w: a period must fall within one calendar year", apperrors.ErrValidation)
	}

	now := s.Now()
	period := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		PeriodStart:    start,
		PeriodEnd:      end,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		if err := tx.Periods().AcquirePeriodCreationLock(ctx, organizationID); err != nil {
			return err
		}
		overlapping, err := tx.Periods().FindOverlappingPeriods(ctx, organizationID, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			o := overlapping[0]
			return fmt.Errorf("%w: %s to %s", apperrors.ErrPeriodOverlap,
				o.PeriodStart.Format(domain.DateLayout), o.PeriodEnd.Format(domain.DateLayout))
		}
		return tx.Periods().SavePeriod(ctx, period)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create accounting period",
			slog.String("organization_id", organizationID),
			slog.String("period_start", req.PeriodStart),
			slog.String("period_end", req.PeriodEnd))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period created",
		slog.String("organization_id", organizationID),
		slog.String("period_id", period.PeriodID))
	return &period, nil
}

// LockPeriod locks a period. Locking a locked period is a no-op.
func (s *periodService) LockPeriod(ctx context.Context, organizationID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.setLock(ctx, organizationID, periodID, userID, true)
}

// UnlockPeriod clears the lock and its metadata.
func (s *periodService) UnlockPeriod(ctx context.Context, organizationID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.setLock(ctx, organizationID, periodID, userID, false)
}

func (s *periodService) setLock(ctx context.Context, organizationID, periodID, userID string, locked bool) (*domain.AccountingPeriod, error) {
	action := "unlock"
	if locked {
		action = "lock"
	}

	var period domain.AccountingPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		p, err := tx.Periods().FindPeriodByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if p.OrganizationID != organizationID {
			return fmt.Errorf("period %s: %w", periodID, apperrors.ErrNotFound)
		}
		period = *p
		if period.IsLocked == locked {
			return nil
		}

		now := s.Now()
		period.IsLocked = locked
		if locked {
			by := userID
			period.LockedAt = &now
			period.LockedBy = &by
		} else {
			period.LockedAt = nil
			period.LockedBy = nil
		}
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		return tx.Periods().UpdatePeriodLock(ctx, period)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to "+action+" accounting period",
			slog.String("organization_id", organizationID),
			slog.String("period_id", periodID))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period "+action+"ed",
		slog.String("organization_id", organizationID),
		slog.String("period_id", periodID),
		slog.String("user_id", userID))
	return &period, nil
}

// IsDateLocked reports whether date falls in a locked period.
func (s *periodService) IsDateLocked(ctx context.Context, organizationID string, date time.Time) (bool, error) {
	p, err := s.store.Periods().FindLockedPeriodForDate(ctx, organizationID, domain.DateOnly(date))
	if err != nil {
		s.LogError(ctx, err, "Failed to check period lock", slog.String("organization_id", organizationID))
		return false, err
	}
	return p != nil, nil
}

// GetPeriodByID retrieves a period of the organization.
func (s *periodService) GetPeriodByID(ctx context.Context, organizationID, periodID string) (*domain.AccountingPeriod, error) {
	p, err := s.store.Periods().FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if p.OrganizationID != organizationID {
		return nil, fmt.Errorf("period %s: %w", periodID, apperrors.ErrNotFound)
	}
	return p, nil
}

// ListPeriods lists the organization's periods by start date.
func (s *periodService) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	periods, err := s.store.Periods().ListPeriods(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounting periods", slog.String("organization_id", organizationID))
		return nil, err
	}
	return periods, nil
}

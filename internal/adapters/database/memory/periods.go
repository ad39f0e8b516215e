package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

func (v *view) FindPeriodByID(_ context.Context, periodID string) (*domain.AccountingPeriod, error) {
	p, ok := v.read().periods[periodID]
	if !ok {
		return nil, fmt.Errorf("period %s: %w", periodID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (v *view) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return v.FindPeriodByID(ctx, periodID)
}

func (v *view) ListPeriods(_ context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	return v.collectPeriods(organizationID, func(domain.AccountingPeriod) bool { return true }), nil
}

func (v *view) FindOverlappingPeriods(_ context.Context, organizationID string, start, end time.Time) ([]domain.AccountingPeriod, error) {
	return v.collectPeriods(organizationID, func(p domain.AccountingPeriod) bool { return p.Overlaps(start, end) }), nil
}

func (v *view) FindLockedPeriodForDate(_ context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	locked := v.collectPeriods(organizationID, func(p domain.AccountingPeriod) bool { return p.IsLocked && p.Contains(date) })
	if len(locked) == 0 {
		return nil, nil
	}
	return &locked[0], nil
}

// LockPeriodsCoveringDate needs no row lock: transactions are serialized.
func (v *view) LockPeriodsCoveringDate(_ context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	return v.collectPeriods(organizationID, func(p domain.AccountingPeriod) bool { return p.Contains(date) }), nil
}

func (v *view) AcquirePeriodCreationLock(context.Context, string) error {
	return nil
}

func (v *view) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	return v.write(ctx, func(st *state) error {
		if _, exists := st.periods[period.PeriodID]; exists {
			return fmt.Errorf("%w: period %s already exists", apperrors.ErrDuplicate, period.PeriodID)
		}
		st.periods[period.PeriodID] = period
		return nil
	})
}

func (v *view) UpdatePeriodLock(ctx context.Context, period domain.AccountingPeriod) error {
	return v.write(ctx, func(st *state) error {
		existing, ok := st.periods[period.PeriodID]
		if !ok {
			return fmt.Errorf("period %s: %w", period.PeriodID, apperrors.ErrNotFound)
		}
		existing.IsLocked = period.IsLocked
		existing.LockedAt = period.LockedAt
		existing.LockedBy = period.LockedBy
		existing.LastUpdatedAt = period.LastUpdatedAt
		existing.LastUpdatedBy = period.LastUpdatedBy
		st.periods[period.PeriodID] = existing
		return nil
	})
}

func (v *view) collectPeriods(organizationID string, keep func(domain.AccountingPeriod) bool) []domain.AccountingPeriod {
	periods := make([]domain.AccountingPeriod, 0)
	for _, p := range v.read().periods {
		if p.OrganizationID == organizationID && keep(p) {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		if !periods[i].PeriodStart.Equal(periods[j].PeriodStart) {
			return periods[i].PeriodStart.Before(periods[j].PeriodStart)
		}
		return periods[i].PeriodID < periods[j].PeriodID
	})
	return periods
}

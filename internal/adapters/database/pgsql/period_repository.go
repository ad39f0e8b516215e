package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
)

type periodRepository struct {
	BaseRepository
}

// Ensure periodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*periodRepository)(nil)

const periodColumns = `
	period_id, organization_id, period_start, period_end, is_locked, locked_at, locked_by,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.OrganizationID,
		&p.PeriodStart,
		&p.PeriodEnd,
		&p.IsLocked,
		&p.LockedAt,
		&p.LockedBy,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	p.PeriodStart = domain.DateOnly(p.PeriodStart)
	p.PeriodEnd = domain.DateOnly(p.PeriodEnd)
	return p, err
}

func (r *periodRepository) queryPeriods(ctx context.Context, what, where string, args ...any) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_period WHERE ` + where
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, what)
	}
	defer rows.Close()

	periods := make([]domain.AccountingPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, what)
	}
	return periods, nil
}

// FindPeriodByID retrieves a period by its identifier.
func (r *periodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	p, err := scanPeriod(r.DB.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM accounting_period WHERE period_id = $1;`, periodID))
	if err != nil {
		return nil, translateError(err, "find period "+periodID)
	}
	return &p, nil
}

// FindPeriodByIDForUpdate retrieves a period and holds its row lock.
func (r *periodRepository) FindPeriodByIDForUpdate(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	p, err := scanPeriod(r.DB.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM accounting_period WHERE period_id = $1 FOR UPDATE;`, periodID))
	if err != nil {
		return nil, translateError(err, "lock period "+periodID)
	}
	return &p, nil
}

// ListPeriods lists the periods of an organization by start date.
func (r *periodRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.AccountingPeriod, error) {
	return r.queryPeriods(ctx, "list periods",
		`organization_id = $1 ORDER BY period_start, period_id;`, organizationID)
}

// FindOverlappingPeriods returns periods intersecting [start, end].
func (r *periodRepository) FindOverlappingPeriods(ctx context.Context, organizationID string, start, end time.Time) ([]domain.AccountingPeriod, error) {
	return r.queryPeriods(ctx, "find overlapping periods",
		`organization_id = $1 AND period_start <= $3 AND period_end >= $2 ORDER BY period_start, period_id;`,
		organizationID, domain.DateOnly(start), domain.DateOnly(end))
}

// FindLockedPeriodForDate returns the earliest locked period containing date, or nil.
func (r *periodRepository) FindLockedPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	p, err := scanPeriod(r.DB.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_period
		WHERE organization_id = $1 AND is_locked AND period_start <= $2 AND period_end >= $2
		ORDER BY period_start, period_id
		LIMIT 1;`, organizationID, domain.DateOnly(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err, "find locked period")
	}
	return &p, nil
}

// LockPeriodsCoveringDate reads every period containing date FOR UPDATE, so
// a concurrent Lock waits for the posting transaction and vice versa. It first
// takes the organization's advisory lock in shared mode: CreatePeriod holds the
// same key exclusively, so no period can appear over date until this
// transaction ends.
func (r *periodRepository) LockPeriodsCoveringDate(ctx context.Context, organizationID string, date time.Time) ([]domain.AccountingPeriod, error) {
	if _, err := r.DB.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1);`, organizationLockKey(organizationID)); err != nil {
		return nil, translateError(err, "acquire shared period lock")
	}
	return r.queryPeriods(ctx, "lock periods covering date", `
		organization_id = $1 AND period_start <= $2 AND period_end >= $2
		ORDER BY period_start, period_id
		FOR UPDATE;`, organizationID, domain.DateOnly(date))
}

// AcquirePeriodCreationLock takes a transaction scoped advisory lock keyed
// by organization in exclusive mode. It is released at commit or rollback.
func (r *periodRepository) AcquirePeriodCreationLock(ctx context.Context, organizationID string) error {
	_, err := r.DB.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, organizationLockKey(organizationID))
	return translateError(err, "acquire period creation lock")
}

// SavePeriod persists a new period.
func (r *periodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO accounting_period (`+periodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		period.PeriodID,
		period.OrganizationID,
		period.PeriodStart,
		period.PeriodEnd,
		period.IsLocked,
		period.LockedAt,
		period.LockedBy,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	return translateError(err, "save period "+period.PeriodID)
}

// UpdatePeriodLock persists the lock flag and who set it.
func (r *periodRepository) UpdatePeriodLock(ctx context.Context, period domain.AccountingPeriod) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE accounting_period
		SET is_locked = $2, locked_at = $3, locked_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE period_id = $1;`,
		period.PeriodID,
		period.IsLocked,
		period.LockedAt,
		period.LockedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update period "+period.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "update period "+period.PeriodID)
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the repositories need, so the
// same code runs against the pool or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB DBTX
}

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgRaiseException      = "P0001"
	pgNumericOutOfRange   = "22003"
)

// translateError maps driver errors to application errors.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
		case pgNumericOutOfRange:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, what, pgErr.Message)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidation, what, pgErr.ConstraintName)
		case pgRaiseException:
			return fmt.Errorf("%w: %s", apperrors.ErrWrongStatus, pgErr.Message)
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to "+what, err)
}

// organizationLockKey derives the advisory lock key of one organization's
// periods. Creation takes it exclusively, postings take it shared.
func organizationLockKey(organizationID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("accounting_period:" + organizationID))
	return int64(h.Sum64())
}

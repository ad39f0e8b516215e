package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
)

// Store is the PostgreSQL implementation of portsrepo.Store.
type Store struct {
	pool *pgxpool.Pool
	repositories
}

// NewStore creates a store over a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		repositories: newRepositories(pool),
	}
}

var _ portsrepo.Store = (*Store)(nil)

// WithTx runs fn in a READ COMMITTED transaction. Row locks taken with
// FOR UPDATE and advisory locks are held until commit or rollback.
func (s *Store) WithTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// repositories binds every repository to one DBTX.
type repositories struct {
	accounts  *accountRepository
	journals  *journalRepository
	periods   *periodRepository
	reporting *reportingRepository
}

func newRepositories(db DBTX) repositories {
	base := BaseRepository{DB: db}
	return repositories{
		accounts:  &accountRepository{BaseRepository: base},
		journals:  &journalRepository{BaseRepository: base},
		periods:   &periodRepository{BaseRepository: base},
		reporting: &reportingRepository{BaseRepository: base},
	}
}

func (r repositories) Accounts() portsrepo.AccountRepositoryFacade { return r.accounts }
func (r repositories) Journals() portsrepo.JournalRepositoryFacade { return r.journals }
func (r repositories) Periods() portsrepo.PeriodRepositoryFacade   { return r.periods }
func (r repositories) Reporting() portsrepo.ReportingRepository    { return r.reporting }

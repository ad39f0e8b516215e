// Package memory is an in-process implementation of the repository ports.
// It keeps committed state behind a single pointer and gives each
// transaction a private copy, so a failed or panicking transaction leaves no
// trace. Transactions are serialized.
package memory

import (
	"context"
	"sync"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
)

// Store implements portsrepo.Store in memory.
type Store struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

var _ portsrepo.Store = (*Store)(nil)

type state struct {
	accounts map[string]domain.Account
	entries  map[string]domain.JournalEntry
	periods  map[string]domain.AccountingPeriod
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		entries:  make(map[string]domain.JournalEntry),
		periods:  make(map[string]domain.AccountingPeriod),
	}
}

// clone copies the maps. Values are never mutated in place, so sharing them
// between snapshots is safe.
func (s *state) clone() *state {
	c := &state{
		accounts: make(map[string]domain.Account, len(s.accounts)),
		entries:  make(map[string]domain.JournalEntry, len(s.entries)),
		periods:  make(map[string]domain.AccountingPeriod, len(s.periods)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	return c
}

func (s *Store) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// WithTx runs fn against a private copy of the committed state and publishes
// the copy only when fn returns nil and ctx is still live.
func (s *Store) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.current().clone()
	if err := fn(ctx, &view{store: s, st: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = working
	s.mu.Unlock()
	return nil
}

// Accounts returns repositories that read committed state and autocommit writes.
func (s *Store) Accounts() portsrepo.AccountRepositoryFacade { return &view{store: s} }

// Journals returns the journal repository outside any transaction.
func (s *Store) Journals() portsrepo.JournalRepositoryFacade { return &view{store: s} }

// Periods returns the period repository outside any transaction.
func (s *Store) Periods() portsrepo.PeriodRepositoryFacade { return &view{store: s} }

// Reporting returns the reporting repository over committed state.
func (s *Store) Reporting() portsrepo.ReportingRepository { return &view{store: s} }

// view binds every repository to either a transaction's working state or,
// when st is nil, the store's committed state.
type view struct {
	store *Store
	st    *state
}

var (
	_ portsrepo.Repositories            = (*view)(nil)
	_ portsrepo.AccountRepositoryFacade = (*view)(nil)
	_ portsrepo.JournalRepositoryFacade = (*view)(nil)
	_ portsrepo.PeriodRepositoryFacade  = (*view)(nil)
	_ portsrepo.ReportingRepository     = (*view)(nil)
)

func (v *view) Accounts() portsrepo.AccountRepositoryFacade { return v }
func (v *view) Journals() portsrepo.JournalRepositoryFacade { return v }
func (v *view) Periods() portsrepo.PeriodRepositoryFacade   { return v }
func (v *view) Reporting() portsrepo.ReportingRepository    { return v }

func (v *view) read() *state {
	if v.st != nil {
		return v.st
	}
	return v.store.current()
}

// write applies fn to the transaction's state, or in a transaction of its own
// when the view is not bound to one.
func (v *view) write(ctx context.Context, fn func(st *state) error) error {
	if v.st != nil {
		return fn(v.st)
	}
	return v.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		return fn(tx.(*view).st)
	})
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}

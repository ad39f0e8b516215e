package repositories

import (
	"context"
)

// Repositories is the set of repositories bound to one unit of work: either
// the shared pool or a single open transaction.
type Repositories interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Periods() PeriodRepositoryFacade
	Reporting() ReportingRepository
}

// TxFunc is the body of a transaction. The repositories it receives are bound
// to the transaction.
type TxFunc func(ctx context.Context, tx Repositories) error

// Store exposes non-transactional repositories for reads and a way to run a
// function inside one database transaction.
type Store interface {
	Repositories

	// WithTx begins a transaction, runs fn and commits when fn returns nil.
	// Any error, or a panic, rolls the transaction back.
	WithTx(ctx context.Context, fn TxFunc) error
}

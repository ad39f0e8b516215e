package repositories

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// AccountReader defines read operations for chart of accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCode retrieves an account by its code within an organization.
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error)

	// FindAccountByName retrieves an account whose normalized name matches within
	// an organization. When duplicates exist the earliest created row wins.
	FindAccountByName(ctx context.Context, organizationID, name string) (*domain.Account, error)

	// ListAccounts lists the chart of an organization ordered by code then name.
	ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error)

	// CountLinesForAccounts counts journal lines referencing each account.
	CountLinesForAccounts(ctx context.Context, accountIDs []string) (map[string]int, error)
}

// AccountWriter defines write operations for chart of accounts data
type AccountWriter interface {
	// SaveAccount persists a new account. A clash on name or code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, code, active flag and audit fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccounts removes the given accounts.
	DeleteAccounts(ctx context.Context, accountIDs []string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

package services

import (
	"context"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// ChartReaderSvc defines read operations for the chart of accounts
type ChartReaderSvc interface {
	// GetAccountByID retrieves an account of the organization.
	GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the organization's chart.
	ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetAccountLedger lists posted lines on an account with a running balance.
	GetAccountLedger(ctx context.Context, organizationID, accountID string, from, to *time.Time) (*domain.AccountLedger, error)
}

// ChartWriterSvc defines write operations for the chart of accounts
type ChartWriterSvc interface {
	// SeedChart idempotently creates the default system chart.
	SeedChart(ctx context.Context, organizationID, userID string) ([]domain.Account, error)

	// ResolveAccount finds an account by name and type, creating it on demand.
	ResolveAccount(ctx context.Context, organizationID, name string, accountType domain.AccountType, userID string) (*domain.Account, error)

	// DeduplicateChart keeps one account per normalized name and retires the rest.
	DeduplicateChart(ctx context.Context, organizationID, userID string) (*domain.DedupeResult, error)

	// CreateAccount persists a new non-system account.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates name, code or the active flag.
	UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes a non-system account that no line references.
	DeleteAccount(ctx context.Context, organizationID, accountID string) error
}

// ChartSvcFacade combines all chart-related service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
}

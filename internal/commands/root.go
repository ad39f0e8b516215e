package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/onyxpm/onyx_backend/internal/adapters/database/pgsql"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/core/services"
	"github.com/onyxpm/onyx_backend/internal/platform/config"
	"github.com/onyxpm/onyx_backend/pkg/database"
)

// defaultActor is recorded as created_by/locked_by for operator actions.
const defaultActor = "onyx-admin"

// OrganizationRegistrar registers tenants.
type OrganizationRegistrar interface {
	EnsureOrganization(ctx context.Context, org domain.Organization) (*domain.Organization, bool, error)
}

// Backend is what a command runs against.
type Backend struct {
	Store         portsrepo.Store
	Organizations OrganizationRegistrar
	Close         func()
}

// Opener connects a Backend for one command invocation.
type Opener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error)

// Option customizes the root command.
type Option func(*app)

// WithOpener replaces the PostgreSQL backend, mainly for tests.
func WithOpener(open Opener) Option {
	return func(a *app) { a.open = open }
}

// WithConfig sets the configuration instead of loading it from the environment.
func WithConfig(cfg *config.Config) Option {
	return func(a *app) { a.cfg = cfg }
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	open   Opener
	actor  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{open: openPostgres}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "onyx_admin",
		Short: "Operator tooling for the Onyx PM accounting core",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg == nil {
				cfg, err := config.LoadConfig()
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				a.cfg = cfg
			}
			if a.logger == nil {
				a.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.actor, "actor", defaultActor, "user id recorded on changes")

	rootCmd.AddCommand(
		newMigrateCommand(a),
		newCreateOrgCommand(a),
		newSeedChartCommand(a),
		newDedupeChartCommand(a),
		newCreatePeriodCommand(a),
		newLockPeriodCommand(a, true),
		newLockPeriodCommand(a, false),
		newIssueTokenCommand(a),
	)

	return rootCmd
}

// withServices opens the backend, builds the services and runs fn.
func (a *app) withServices(ctx context.Context, fn func(*Backend, *portssvc.ServiceContainer) error) error {
	backend, err := a.open(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(backend, services.NewServiceContainer(a.cfg, backend.Store))
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL must be set")
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}
	store := pgsql.NewStore(pool)
	return &Backend{
		Store:         store,
		Organizations: store.Organizations(),
		Close:         func() { database.ClosePgxPool(pool) },
	}, nil
}

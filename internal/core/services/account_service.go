package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
	"github.com/onyxpm/onyx_backend/internal/utils/accounting"
)

// chartService manages an organization's chart of accounts.
type chartService struct {
	BaseService
	store portsrepo.Store
}

// NewChartService creates a new ChartSvcFacade.
func NewChartService(store portsrepo.Store, opts ...ServiceOption) portssvc.ChartSvcFacade {
	o := applyOptions(opts)
	return &chartService{
		BaseService: BaseService{Clock: o.clock},
		store:       store,
	}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func newAccount(organizationID, name, code string, accountType domain.AccountType, isSystem bool, userID string, now time.Time) domain.Account {
	return domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(name),
		AccountCode:    strings.TrimSpace(code),
		AccountType:    accountType,
		IsSystem:       isSystem,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// resolveAccount returns the account named name, creating a non-system one on
// demand. A concurrent creator wins and its row is returned.
func resolveAccount(ctx context.Context, repos portsrepo.Repositories, organizationID, name string, accountType domain.AccountType, userID string, now time.Time) (*domain.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}

	find := func() (*domain.Account, error) {
		acc, err := repos.Accounts().FindAccountByName(ctx, organizationID, name)
		if err != nil {
			return nil, err
		}
		if acc.AccountType != accountType {
			return nil, fmt.Errorf("%w: account %q exists with type %s, not %s", apperrors.ErrInvalidAccount, acc.Name, acc.AccountType, accountType)
		}
		return acc, nil
	}

	acc, err := find()
	if err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return acc, err
	}

	created := newAccount(organizationID, name, "", accountType, false, userID, now)
	if err := repos.Accounts().SaveAccount(ctx, created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return find()
		}
		return nil, fmt.Errorf("failed to create account %q: %w", name, err)
	}
	return &created, nil
}

// SeedChart idempotently creates the default system chart. Existing accounts
// matching a seed row by code or name are kept untouched.
func (s *chartService) SeedChart(ctx context.Context, organizationID, userID string) ([]domain.Account, error) {
	var chart []domain.Account
	created := 0
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		chart = chart[:0]
		created = 0
		now := s.Now()
		for _, seed := range domain.DefaultChart() {
			acc, err := findSeeded(ctx, tx, organizationID, seed)
			if err != nil {
				return err
			}
			if acc == nil {
				fresh := newAccount(organizationID, seed.Name, seed.Code, seed.Type, true, userID, now)
				if err := tx.Accounts().SaveAccount(ctx, fresh); err != nil {
					return fmt.Errorf("failed to seed account %q: %w", seed.Name, err)
				}
				acc = &fresh
				created++
			}
			chart = append(chart, *acc)
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to seed chart of accounts", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Chart of accounts seeded",
		slog.String("organization_id", organizationID),
		slog.Int("created", created),
		slog.Int("total", len(chart)))
	return chart, nil
}

func findSeeded(ctx context.Context, repos portsrepo.Repositories, organizationID string, seed domain.ChartSeed) (*domain.Account, error) {
	if seed.Code != "" {
		acc, err := repos.Accounts().FindAccountByCode(ctx, organizationID, seed.Code)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	acc, err := repos.Accounts().FindAccountByName(ctx, organizationID, seed.Name)
	if err == nil {
		return acc, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// ResolveAccount finds an account by name and type, creating it on demand.
func (s *chartService) ResolveAccount(ctx context.Context, organizationID, name string, accountType domain.AccountType, userID string) (*domain.Account, error) {
	var acc *domain.Account
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		var err error
		acc, err = resolveAccount(ctx, tx, organizationID, name, accountType, userID, s.Now())
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to resolve account",
			slog.String("organization_id", organizationID),
			slog.String("name", name))
		return nil, err
	}
	return acc, nil
}

// DeduplicateChart keeps one account per normalized name: the one with a
// code, the earliest created on ties. Surplus rows without journal lines are
// deleted; surplus rows with history are deactivated.
func (s *chartService) DeduplicateChart(ctx context.Context, organizationID, userID string) (*domain.DedupeResult, error) {
	result := &domain.DedupeResult{}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		*result = domain.DedupeResult{}
		accounts, err := tx.Accounts().ListAccounts(ctx, organizationID, true)
		if err != nil {
			return err
		}

		groups := make(map[string][]domain.Account)
		var order []string
		for _, acc := range accounts {
			key := domain.NormalizeAccountName(acc.Name)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], acc)
		}

		var surplus []domain.Account
		for _, key := range order {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			sortDedupeCandidates(group)
			surplus = append(surplus, group[1:]...)
		}
		if len(surplus) == 0 {
			return nil
		}

		ids := make([]string, len(surplus))
		for i, acc := range surplus {
			ids[i] = acc.AccountID
		}
		usage, err := tx.Accounts().CountLinesForAccounts(ctx, ids)
		if err != nil {
			return err
		}

		var toDelete []string
		now := s.Now()
		for _, acc := range surplus {
			if usage[acc.AccountID] == 0 {
				toDelete = append(toDelete, acc.AccountID)
				continue
			}
			if !acc.IsActive {
				continue
			}
			acc.IsActive = false
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			if err := tx.Accounts().UpdateAccount(ctx, acc); err != nil {
				return err
			}
			result.Deactivated++
		}
		if len(toDelete) > 0 {
			if err := tx.Accounts().DeleteAccounts(ctx, toDelete); err != nil {
				return err
			}
			result.Removed = len(toDelete)
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to deduplicate chart of accounts", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Chart of accounts deduplicated",
		slog.String("organization_id", organizationID),
		slog.Int("removed", result.Removed),
		slog.Int("deactivated", result.Deactivated))
	return result, nil
}

// sortDedupeCandidates puts the account to keep first.
func sortDedupeCandidates(group []domain.Account) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if (a.AccountCode != "") != (b.AccountCode != "") {
			return a.AccountCode != ""
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.AccountID < b.AccountID
	})
}

// CreateAccount persists a new non-system account.
func (s *chartService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	acc := newAccount(organizationID, req.Name, req.AccountCode, req.AccountType, false, userID, s.Now())
	acc.IsHeader = req.IsHeader
	if err := s.store.Accounts().SaveAccount(ctx, acc); err != nil {
		s.LogFailure(ctx, err, "Failed to create account",
			slog.String("organization_id", organizationID),
			slog.String("name", acc.Name))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("organization_id", organizationID),
		slog.String("account_id", acc.AccountID))
	return &acc, nil
}

// GetAccountByID retrieves an account of the organization.
func (s *chartService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	acc, err := s.store.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if acc.OrganizationID != organizationID {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return acc, nil
}

// ListAccounts retrieves the organization's chart.
func (s *chartService) ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.store.Accounts().ListAccounts(ctx, organizationID, params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount updates name, code or the active flag.
func (s *chartService) UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var updated domain.Account
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		acc, err := tx.Accounts().FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.OrganizationID != organizationID {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
			}
			acc.Name = name
		}
		if req.AccountCode != nil {
			acc.AccountCode = strings.TrimSpace(*req.AccountCode)
		}
		if req.IsActive != nil {
			acc.IsActive = *req.IsActive
		}
		acc.LastUpdatedAt = s.Now()
		acc.LastUpdatedBy = userID

		if err := tx.Accounts().UpdateAccount(ctx, *acc); err != nil {
			return err
		}
		updated = *acc
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update account",
			slog.String("organization_id", organizationID),
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated",
		slog.String("organization_id", organizationID),
		slog.String("account_id", accountID))
	return &updated, nil
}

// DeleteAccount removes a non-system account that no line references.
func (s *chartService) DeleteAccount(ctx context.Context, organizationID, accountID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		acc, err := tx.Accounts().FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.OrganizationID != organizationID {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		if acc.IsSystem {
			return fmt.Errorf("%w: system account %q cannot be deleted", apperrors.ErrValidation, acc.Name)
		}
		usage, err := tx.Accounts().CountLinesForAccounts(ctx, []string{accountID})
		if err != nil {
			return err
		}
		if usage[accountID] > 0 {
			return fmt.Errorf("%w: account %q has journal lines; deactivate it instead", apperrors.ErrValidation, acc.Name)
		}
		return tx.Accounts().DeleteAccounts(ctx, []string{accountID})
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete account",
			slog.String("organization_id", organizationID),
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("organization_id", organizationID),
		slog.String("account_id", accountID))
	return nil
}

// GetAccountLedger lists posted lines on an account with a running balance
// in the account's natural sign.
func (s *chartService) GetAccountLedger(ctx context.Context, organizationID, accountID string, from, to *time.Time) (*domain.AccountLedger, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: date_from must not be after date_to", apperrors.ErrValidation)
	}
	acc, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if from != nil {
		before := domain.DateOnly(*from).AddDate(0, 0, -1)
		totals, err := s.store.Reporting().GetAccountTotals(ctx, organizationID, domain.LineFilter{DateTo: &before, AccountID: &accountID})
		if err != nil {
			s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", accountID))
			return nil, err
		}
		for _, t := range totals {
			opening = opening.Add(t.NaturalBalance())
		}
	}

	lines, err := s.store.Reporting().GetAccountLedgerLines(ctx, organizationID, accountID, domain.LineFilter{DateFrom: from, DateTo: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to load account ledger lines", slog.String("account_id", accountID))
		return nil, err
	}
	closing, err := accounting.ApplyRunningBalance(opening, lines, acc.AccountType)
	if err != nil {
		return nil, err
	}

	return &domain.AccountLedger{
		Account:        *acc,
		DateFrom:       from,
		DateTo:         to,
		OpeningBalance: opening,
		Lines:          lines,
		ClosingBalance: closing,
	}, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

func (v *view) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	acc, ok := v.read().accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &acc, nil
}

func (v *view) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	st := v.read()
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := st.accounts[id]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (v *view) FindAccountByCode(_ context.Context, organizationID, code string) (*domain.Account, error) {
	if code != "" {
		for _, acc := range v.read().accounts {
			if acc.OrganizationID == organizationID && acc.AccountCode == code {
				return &acc, nil
			}
		}
	}
	return nil, fmt.Errorf("account code %s: %w", code, apperrors.ErrNotFound)
}

func (v *view) FindAccountByName(_ context.Context, organizationID, name string) (*domain.Account, error) {
	key := domain.NormalizeAccountName(name)
	var best *domain.Account
	for _, acc := range v.read().accounts {
		if acc.OrganizationID != organizationID || domain.NormalizeAccountName(acc.Name) != key {
			continue
		}
		if best == nil || acc.CreatedAt.Before(best.CreatedAt) ||
			(acc.CreatedAt.Equal(best.CreatedAt) && acc.AccountID < best.AccountID) {
			candidate := acc
			best = &candidate
		}
	}
	if best == nil {
		return nil, fmt.Errorf("account %q: %w", name, apperrors.ErrNotFound)
	}
	return best, nil
}

func (v *view) ListAccounts(_ context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for _, acc := range v.read().accounts {
		if acc.OrganizationID != organizationID || (!includeInactive && !acc.IsActive) {
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if (a.AccountCode == "") != (b.AccountCode == "") {
			return a.AccountCode != ""
		}
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.AccountID < b.AccountID
	})
	return accounts, nil
}

func (v *view) CountLinesForAccounts(_ context.Context, accountIDs []string) (map[string]int, error) {
	wanted := make(map[string]bool, len(accountIDs))
	counts := make(map[string]int, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
		counts[id] = 0
	}
	for _, e := range v.read().entries {
		for _, l := range e.Lines {
			if wanted[l.AccountID] {
				counts[l.AccountID]++
			}
		}
	}
	return counts, nil
}

func (v *view) SaveAccount(ctx context.Context, account domain.Account) error {
	return v.write(ctx, func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		if err := checkAccountUnique(st, account); err != nil {
			return err
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (v *view) UpdateAccount(ctx context.Context, account domain.Account) error {
	return v.write(ctx, func(st *state) error {
		existing, ok := st.accounts[account.AccountID]
		if !ok {
			return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
		}
		if err := checkAccountUnique(st, account); err != nil {
			return err
		}
		existing.Name = account.Name
		existing.AccountCode = account.AccountCode
		existing.IsActive = account.IsActive
		existing.LastUpdatedAt = account.LastUpdatedAt
		existing.LastUpdatedBy = account.LastUpdatedBy
		st.accounts[account.AccountID] = existing
		return nil
	})
}

func (v *view) DeleteAccounts(ctx context.Context, accountIDs []string) error {
	return v.write(ctx, func(st *state) error {
		doomed := make(map[string]bool, len(accountIDs))
		for _, id := range accountIDs {
			doomed[id] = true
		}
		for _, e := range st.entries {
			for _, l := range e.Lines {
				if doomed[l.AccountID] {
					return fmt.Errorf("%w: account %s is referenced by journal lines", apperrors.ErrValidation, l.AccountID)
				}
			}
		}
		for id := range doomed {
			delete(st.accounts, id)
		}
		return nil
	})
}

// checkAccountUnique mirrors the unique constraints on (organization, name)
// and on non-empty (organization, code).
func checkAccountUnique(st *state, account domain.Account) error {
	for _, other := range st.accounts {
		if other.AccountID == account.AccountID || other.OrganizationID != account.OrganizationID {
			continue
		}
		if other.Name == account.Name {
			return fmt.Errorf("%w: account named %q already exists", apperrors.ErrDuplicate, account.Name)
		}
		if account.AccountCode != "" && other.AccountCode == account.AccountCode {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.AccountCode)
		}
	}
	return nil
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
)

type accountRepository struct {
	BaseRepository
}

// Ensure accountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

const accountColumns = `
	account_id, organization_id, name, account_code, account_type,
	is_header, is_system, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var accountType string
	err := row.Scan(
		&acc.AccountID,
		&acc.OrganizationID,
		&acc.Name,
		&acc.AccountCode,
		&accountType,
		&acc.IsHeader,
		&acc.IsSystem,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	acc.AccountType = domain.AccountType(accountType)
	return acc, err
}

func (r *accountRepository) findOne(ctx context.Context, what, where string, args ...any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounting_category WHERE ` + where + ` LIMIT 1;`
	acc, err := scanAccount(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, what)
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "find account "+accountID, `account_id = $1`, accountID)
}

// FindAccountsByIDs retrieves the accounts that exist among accountIDs.
func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return found, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounting_category WHERE account_id = ANY($1);`
	rows, err := r.DB.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "find accounts")
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		found[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate accounts")
	}
	return found, nil
}

// FindAccountByCode retrieves an account by code within an organization.
func (r *accountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	if code == "" {
		return nil, fmt.Errorf("empty account code: %w", apperrors.ErrNotFound)
	}
	return r.findOne(ctx, "find account code "+code,
		`organization_id = $1 AND account_code = $2`, organizationID, code)
}

// FindAccountByName matches names case-insensitively with whitespace
// collapsed. The earliest created row wins.
func (r *accountRepository) FindAccountByName(ctx context.Context, organizationID, name string) (*domain.Account, error) {
	return r.findOne(ctx, "find account "+name,
		`organization_id = $1 AND lower(regexp_replace(btrim(name), '\s+', ' ', 'g')) = $2
		 ORDER BY created_at, account_id`,
		organizationID, domain.NormalizeAccountName(name))
}

// ListAccounts lists the chart ordered by code (uncoded last), then name.
func (r *accountRepository) ListAccounts(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounting_category
		WHERE organization_id = $1 AND ($2 OR is_active)
		ORDER BY account_code = '', account_code, name, account_id;`
	rows, err := r.DB.Query(ctx, query, organizationID, includeInactive)
	if err != nil {
		return nil, translateError(err, "list accounts")
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate accounts")
	}
	return accounts, nil
}

// CountLinesForAccounts counts journal lines per account, zero included.
func (r *accountRepository) CountLinesForAccounts(ctx context.Context, accountIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(accountIDs))
	for _, id := range accountIDs {
		counts[id] = 0
	}
	if len(accountIDs) == 0 {
		return counts, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT account_id, COUNT(*)
		FROM journal_entry_line
		WHERE account_id = ANY($1)
		GROUP BY account_id;`, accountIDs)
	if err != nil {
		return nil, translateError(err, "count journal lines")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan line count: %w", err)
		}
		counts[id] = n
	}
	return counts, translateError(rows.Err(), "iterate line counts")
}

// SaveAccount inserts a new account. A clash on name or code is reported as
// apperrors.ErrDuplicate without aborting the surrounding transaction.
func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounting_category (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT DO NOTHING;`
	tag, err := r.DB.Exec(ctx, query,
		account.AccountID,
		account.OrganizationID,
		account.Name,
		account.AccountCode,
		string(account.AccountType),
		account.IsHeader,
		account.IsSystem,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "save account "+account.Name)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %q or its code already exists", apperrors.ErrDuplicate, account.Name)
	}
	return nil
}

// UpdateAccount updates the mutable fields of an account.
func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE accounting_category
		SET name = $2, account_code = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;`,
		account.AccountID,
		account.Name,
		account.AccountCode,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update account "+account.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteAccounts removes accounts. Referenced accounts fail the foreign key.
func (r *accountRepository) DeleteAccounts(ctx context.Context, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	_, err := r.DB.Exec(ctx, `DELETE FROM accounting_category WHERE account_id = ANY($1);`, accountIDs)
	return translateError(err, "delete accounts")
}

package pgsql

import (
	"context"
	"fmt"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/utils/accounting"
)

type reportingRepository struct {
	BaseRepository
}

// Ensure reportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// ledgerLinesFrom joins lines to their header and account, keeping only
// entries that count toward balances. $1 organization, $2 date_from, $3
// date_to, $4 account types, $5 account id.
const ledgerLinesFrom = `
	FROM journal_entry_line l
	JOIN journal_entry e ON e.entry_id = l.entry_id
	JOIN accounting_category a ON a.account_id = l.account_id
	WHERE e.organization_id = $1
	  AND e.status IN ('POSTED', 'REVERSED')
	  AND ($2::date IS NULL OR e.entry_date >= $2::date)
	  AND ($3::date IS NULL OR e.entry_date <= $3::date)
	  AND (cardinality($4::text[]) = 0 OR a.account_type = ANY($4::text[]))
	  AND ($5::text IS NULL OR l.account_id = $5::text)`

func lineFilterArgs(organizationID string, filter domain.LineFilter) []any {
	types := make([]string, len(filter.AccountTypes))
	for i, t := range filter.AccountTypes {
		types[i] = string(t)
	}
	return []any{organizationID, dateArg(filter.DateFrom), dateArg(filter.DateTo), types, filter.AccountID}
}

// GetAccountTotals sums both columns per account in one aggregate query.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, organizationID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	query := `
		SELECT a.account_id, a.account_code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)` +
		ledgerLinesFrom + `
		GROUP BY a.account_id, a.account_code, a.name, a.account_type
		ORDER BY a.account_code = '', a.account_code, a.name, a.account_id;`

	rows, err := r.DB.Query(ctx, query, lineFilterArgs(organizationID, filter)...)
	if err != nil {
		return nil, translateError(err, "aggregate account totals")
	}
	defer rows.Close()

	totals := make([]domain.AccountTotals, 0)
	for rows.Next() {
		var t domain.AccountTotals
		var accountType string
		if err := rows.Scan(&t.AccountID, &t.AccountCode, &t.AccountName, &accountType, &t.DebitTotal, &t.CreditTotal); err != nil {
			return nil, fmt.Errorf("failed to scan account totals: %w", err)
		}
		t.AccountType = domain.AccountType(accountType)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate account totals")
	}
	// Database collation may disagree with byte order on codes.
	accounting.SortAccountTotals(totals)
	return totals, nil
}

// GetAccountLedgerLines lists the ledger lines of one account in posting order.
func (r *reportingRepository) GetAccountLedgerLines(ctx context.Context, organizationID, accountID string, filter domain.LineFilter) ([]domain.LedgerLine, error) {
	filter.AccountID = &accountID
	query := `
		SELECT e.entry_id, l.line_id, e.entry_date, e.memo, l.description, e.source_type,
		       l.debit_amount, l.credit_amount, e.created_at` +
		ledgerLinesFrom + `
		ORDER BY e.entry_date, e.created_at, e.entry_id, l.line_no;`

	rows, err := r.DB.Query(ctx, query, lineFilterArgs(organizationID, filter)...)
	if err != nil {
		return nil, translateError(err, "list ledger lines")
	}
	defer rows.Close()

	lines := make([]domain.LedgerLine, 0)
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(&l.EntryID, &l.LineID, &l.EntryDate, &l.Memo, &l.Description, &l.SourceType,
			&l.DebitAmount, &l.CreditAmount, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		l.EntryDate = domain.DateOnly(l.EntryDate)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate ledger lines")
	}
	return lines, nil
}

package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/utils/pagination"
)

type journalRepository struct {
	BaseRepository
}

// Ensure journalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

const entryColumns = `
	entry_id, organization_id, entry_date, memo, status, source_type, source_id,
	posted_at, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, entry_id, organization_id, line_no, account_id, debit_amount, credit_amount,
	description, property_id, unit_id, reference`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var status string
	err := row.Scan(
		&e.EntryID,
		&e.OrganizationID,
		&e.EntryDate,
		&e.Memo,
		&status,
		&e.SourceType,
		&e.SourceID,
		&e.PostedAt,
		&e.ReversedByEntryID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	e.Status = domain.JournalStatus(status)
	e.EntryDate = domain.DateOnly(e.EntryDate)
	return e, err
}

func (r *journalRepository) findEntry(ctx context.Context, what, suffix string, args ...any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entry WHERE ` + suffix
	entry, err := scanEntry(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, what)
	}
	lines, err := r.loadLines(ctx, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.EntryID]
	return &entry, nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "find journal entry "+entryID, `entry_id = $1;`, entryID)
}

// FindEntryByIDForUpdate locks the header row until the transaction ends.
func (r *journalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, "lock journal entry "+entryID, `entry_id = $1 FOR UPDATE;`, entryID)
}

// FindEntryBySource retrieves the entry recorded for an external source.
func (r *journalRepository) FindEntryBySource(ctx context.Context, organizationID, sourceType, sourceID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, fmt.Sprintf("find journal entry for %s/%s", sourceType, sourceID),
		`organization_id = $1 AND source_type = $2 AND source_id = $3;`,
		organizationID, sourceType, sourceID)
}

// loadLines fetches the lines of the given entries keyed by entry id.
func (r *journalRepository) loadLines(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	byEntry := make(map[string][]domain.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return byEntry, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_entry_line WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := r.DB.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, translateError(err, "load journal lines")
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.OrganizationID,
			&l.LineNo,
			&l.AccountID,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Description,
			&l.PropertyID,
			&l.UnitID,
			&l.Reference,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		byEntry[l.EntryID] = append(byEntry[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate journal lines")
	}
	return byEntry, nil
}

// ListEntries pages through entries newest first using a keyset cursor on
// (entry_date, created_at, entry_id).
func (r *journalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{filter.OrganizationID}
	where := `organization_id = $1`
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}

	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.SourceType != nil {
		add("source_type = $%d", *filter.SourceType)
	}
	if filter.SourceID != nil {
		add("source_id = $%d", *filter.SourceID)
	}
	if filter.DateFrom != nil {
		add("entry_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("entry_date <= $%d", *filter.DateTo)
	}
	if filter.AccountID != nil {
		add("EXISTS (SELECT 1 FROM journal_entry_line l WHERE l.entry_id = journal_entry.entry_id AND l.account_id = $%d)", *filter.AccountID)
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		where += fmt.Sprintf(" AND (entry_date, created_at, entry_id) < ($%d, $%d, $%d)", n-2, n-1, n)
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entry WHERE ` + where +
		` ORDER BY entry_date DESC, created_at DESC, entry_id DESC`
	if limit > 0 {
		// One extra row tells whether another page exists.
		args = append(args, limit+1)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query+";", args...)
	if err != nil {
		return nil, nil, translateError(err, "list journal entries")
	}
	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err, "iterate journal entries")
	}

	var next *string
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, next, nil
}

// SaveEntry inserts the header as a Draft, then its lines in one batch, then
// moves the header to the entry's status. Lines can only be inserted under a
// Draft header. A header clash on the source key is reported as ErrDuplicate.
func (r *journalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entry (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING;`
	tag, err := r.DB.Exec(ctx, query,
		entry.EntryID,
		entry.OrganizationID,
		entry.EntryDate,
		entry.Memo,
		string(domain.Draft),
		entry.SourceType,
		entry.SourceID,
		nil,
		nil,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert journal entry "+entry.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s or its source is already recorded", apperrors.ErrDuplicate, entry.EntryID)
	}
	if err := r.insertLines(ctx, entry.EntryID, entry.Lines); err != nil {
		return err
	}
	if entry.Status == domain.Draft {
		return nil
	}
	_, err = r.DB.Exec(ctx, `
		UPDATE journal_entry
		SET status = $2, posted_at = $3, reversed_by_entry_id = $4
		WHERE entry_id = $1 AND status = 'DRAFT';`,
		entry.EntryID, string(entry.Status), entry.PostedAt, entry.ReversedByEntryID)
	return translateError(err, "set status of journal entry "+entry.EntryID)
}

func (r *journalRepository) insertLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO journal_entry_line (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	for _, l := range lines {
		batch.Queue(query,
			l.LineID,
			entryID,
			l.OrganizationID,
			l.LineNo,
			l.AccountID,
			l.DebitAmount,
			l.CreditAmount,
			l.Description,
			l.PropertyID,
			l.UnitID,
			l.Reference,
		)
	}
	br := r.DB.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateError(err, "insert lines of journal entry "+entryID)
	}
	return nil
}

// ReplaceDraft rewrites header fields and swaps the line set of a Draft.
func (r *journalRepository) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE journal_entry
		SET entry_date = $2, memo = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';`,
		entry.EntryID, entry.EntryDate, entry.Memo, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return translateError(err, "update draft "+entry.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, entry.EntryID, domain.Draft)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM journal_entry_line WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return translateError(err, "clear lines of draft "+entry.EntryID)
	}
	return r.insertLines(ctx, entry.EntryID, entry.Lines)
}

// UpdateEntryStatus applies a compare-and-set on the status column.
func (r *journalRepository) UpdateEntryStatus(ctx context.Context, update domain.StatusChange) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE journal_entry
		SET status = $3,
		    posted_at = COALESCE($4, posted_at),
		    reversed_by_entry_id = COALESCE($5, reversed_by_entry_id),
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE entry_id = $1 AND status = $2;`,
		update.EntryID,
		string(update.From),
		string(update.To),
		update.PostedAt,
		update.ReversedByEntryID,
		update.UpdatedAt,
		update.UpdatedBy,
	)
	if err != nil {
		return translateError(err, "update status of journal entry "+update.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, update.EntryID, update.From)
	}
	return nil
}

// DeleteDraftEntry deletes a Draft; its lines go with it through the cascade.
func (r *journalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM journal_entry WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return translateError(err, "delete draft "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, entryID, domain.Draft)
	}
	return nil
}

// explainMiss tells a missing entry apart from one in another status after a
// conditional write matched no row.
func (r *journalRepository) explainMiss(ctx context.Context, entryID string, expected domain.JournalStatus) error {
	var status string
	err := r.DB.QueryRow(ctx, `SELECT status FROM journal_entry WHERE entry_id = $1;`, entryID).Scan(&status)
	if err != nil {
		return translateError(err, "journal entry "+entryID)
	}
	return fmt.Errorf("%w: entry %s is %s, expected %s", apperrors.ErrWrongStatus, entryID, status, expected)
}

// dateArg converts an optional calendar date into a query argument.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return domain.DateOnly(*t)
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/utils/pagination"
)

func (v *view) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	e, ok := v.read().entries[entryID]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	e = copyEntry(e)
	return &e, nil
}

// FindEntryByIDForUpdate needs no row lock: transactions are serialized.
func (v *view) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return v.FindEntryByID(ctx, entryID)
}

func (v *view) FindEntryBySource(_ context.Context, organizationID, sourceType, sourceID string) (*domain.JournalEntry, error) {
	for _, e := range v.read().entries {
		if sameSource(e, organizationID, sourceType, sourceID) {
			e = copyEntry(e)
			return &e, nil
		}
	}
	return nil, fmt.Errorf("journal entry for %s/%s: %w", sourceType, sourceID, apperrors.ErrNotFound)
}

func sameSource(e domain.JournalEntry, organizationID, sourceType, sourceID string) bool {
	return e.SourceID != nil && e.OrganizationID == organizationID && e.SourceType == sourceType && *e.SourceID == sourceID
}

func (v *view) ListEntries(_ context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	matched := make([]domain.JournalEntry, 0)
	for _, e := range v.read().entries {
		if !matchesFilter(e, filter) {
			continue
		}
		if cursor != nil && !cursor.After(e.EntryDate, e.CreatedAt, e.EntryID) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	var next *string
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	for i := range matched {
		matched[i] = copyEntry(matched[i])
	}
	return matched, next, nil
}

func matchesFilter(e domain.JournalEntry, f domain.JournalFilter) bool {
	if e.OrganizationID != f.OrganizationID {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.SourceType != nil && e.SourceType != *f.SourceType {
		return false
	}
	if f.SourceID != nil && (e.SourceID == nil || *e.SourceID != *f.SourceID) {
		return false
	}
	if f.DateFrom != nil && e.EntryDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.EntryDate.After(*f.DateTo) {
		return false
	}
	if f.AccountID != nil {
		for _, l := range e.Lines {
			if l.AccountID == *f.AccountID {
				return true
			}
		}
		return false
	}
	return true
}

func (v *view) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return v.write(ctx, func(st *state) error {
		if _, exists := st.entries[entry.EntryID]; exists {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		if entry.SourceID != nil {
			for _, other := range st.entries {
				if sameSource(other, entry.OrganizationID, entry.SourceType, *entry.SourceID) {
					return fmt.Errorf("%w: source %s/%s already recorded", apperrors.ErrDuplicate, entry.SourceType, *entry.SourceID)
				}
			}
		}
		if err := checkLineAccounts(st, entry.Lines); err != nil {
			return err
		}
		st.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (v *view) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	return v.write(ctx, func(st *state) error {
		existing, ok := st.entries[entry.EntryID]
		if !ok {
			return fmt.Errorf("journal entry %s: %w", entry.EntryID, apperrors.ErrNotFound)
		}
		if existing.Status != domain.Draft {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrWrongStatus, entry.EntryID, existing.Status)
		}
		if err := checkLineAccounts(st, entry.Lines); err != nil {
			return err
		}
		existing.EntryDate = entry.EntryDate
		existing.Memo = entry.Memo
		existing.Lines = entry.Lines
		existing.LastUpdatedAt = entry.LastUpdatedAt
		existing.LastUpdatedBy = entry.LastUpdatedBy
		st.entries[entry.EntryID] = copyEntry(existing)
		return nil
	})
}

func (v *view) UpdateEntryStatus(ctx context.Context, update domain.StatusChange) error {
	return v.write(ctx, func(st *state) error {
		existing, ok := st.entries[update.EntryID]
		if !ok {
			return fmt.Errorf("journal entry %s: %w", update.EntryID, apperrors.ErrNotFound)
		}
		if existing.Status != update.From {
			return fmt.Errorf("%w: entry %s is %s, expected %s", apperrors.ErrWrongStatus, update.EntryID, existing.Status, update.From)
		}
		existing.Status = update.To
		if update.PostedAt != nil {
			existing.PostedAt = update.PostedAt
		}
		if update.ReversedByEntryID != nil {
			existing.ReversedByEntryID = update.ReversedByEntryID
		}
		existing.LastUpdatedAt = update.UpdatedAt
		existing.LastUpdatedBy = update.UpdatedBy
		st.entries[update.EntryID] = existing
		return nil
	})
}

func (v *view) DeleteDraftEntry(ctx context.Context, entryID string) error {
	return v.write(ctx, func(st *state) error {
		existing, ok := st.entries[entryID]
		if !ok {
			return fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		if existing.Status != domain.Draft {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrWrongStatus, entryID, existing.Status)
		}
		delete(st.entries, entryID)
		return nil
	})
}

// checkLineAccounts mirrors the foreign key from lines to accounts.
func checkLineAccounts(st *state, lines []domain.JournalLine) error {
	for _, l := range lines {
		if _, ok := st.accounts[l.AccountID]; !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, l.AccountID)
		}
	}
	return nil
}

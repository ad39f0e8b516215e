package repositories

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryBySource retrieves the entry recorded for an external source, if any.
	FindEntryBySource(ctx context.Context, organizationID, sourceType, sourceID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers matching the filter, newest first.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists an entry header and all of its lines as one unit.
	// When another entry already holds the same (organization, source_type,
	// source_id) it returns apperrors.ErrDuplicate and leaves the transaction usable.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceDraft rewrites the header and lines of an entry that is still a Draft.
	ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus moves an entry from one status to another. It fails with
	// apperrors.ErrWrongStatus when the entry is no longer in the expected status.
	UpdateEntryStatus(ctx context.Context, update domain.StatusChange) error

	// DeleteDraftEntry removes a Draft entry and its lines.
	DeleteDraftEntry(ctx context.Context, entryID string) error
}

// JournalTransactionSupport defines operations valid only inside a transaction
type JournalTransactionSupport interface {
	// FindEntryByIDForUpdate retrieves an entry with its lines and locks the header row.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}

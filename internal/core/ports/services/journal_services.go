package services

import (
	"context"
	"time"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry and its lines.
	GetEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries matching the filters.
	ListEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the lifecycle operations on journal entries
type JournalWriterSvc interface {
	// CreateEntry records a manual entry as a Draft or directly as Posted.
	CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateDraft replaces the date, memo and lines of a Draft.
	UpdateDraft(ctx context.Context, organizationID, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteDraft removes a Draft and its lines.
	DeleteDraft(ctx context.Context, organizationID, entryID, userID string) error

	// PostEntry moves a Draft to Posted after checking every posting invariant.
	PostEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error)

	// ReverseEntry posts a mirror entry dated reversalDate (today when nil) and
	// marks the original Reversed.
	ReverseEntry(ctx context.Context, organizationID, entryID string, reversalDate *time.Time, userID string) (*domain.JournalEntry, error)

	// VoidEntry moves a Draft to Voided.
	VoidEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

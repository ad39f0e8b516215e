package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
	"github.com/onyxpm/onyx_backend/internal/platform/metrics"
)

// journalService is the lifecycle engine for manual journal entries. It is
// the only component that changes the status of an entry.
type journalService struct {
	ledgerEngine
	store portsrepo.Store
}

// NewJournalService creates a new JournalService.
func NewJournalService(store portsrepo.Store, opts ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		ledgerEngine: newLedgerEngine(applyOptions(opts)),
		store:        store,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// loadEntry fetches an entry of the organization. Entries of other
// organizations are reported as not found.
func loadEntry(ctx context.Context, repos portsrepo.Repositories, organizationID, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	var (
		entry *domain.JournalEntry
		err   error
	)
	if forUpdate {
		entry, err = repos.Journals().FindEntryByIDForUpdate(ctx, entryID)
	} else {
		entry, err = repos.Journals().FindEntryByID(ctx, entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.OrganizationID != organizationID {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return entry, nil
}

// CreateEntry records a manual entry as a Draft or directly as Posted.
func (s *journalService) CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entryDate, err := parseRequestDate("entry_date", req.EntryDate)
	if err != nil {
		return nil, err
	}
	target := req.TargetStatus()

	entry := s.newEntry(organizationID, entryDate, req.Memo, domain.SourceManual, nil, linesFromRequest(req.Lines), userID)

	var created *domain.JournalEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		recorded, err := s.record(ctx, tx, entry, target)
		created = recorded
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create journal entry",
			slog.String("organization_id", organizationID),
			slog.String("target_status", string(target)))
		return nil, err
	}

	if created.Status == domain.Posted {
		metrics.RecordTransition(metrics.TransitionPost)
	} else {
		metrics.RecordTransition(metrics.TransitionCreateDraft)
	}
	s.LogInfo(ctx, "Journal entry created",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", created.EntryID),
		slog.String("status", string(created.Status)))
	return created, nil
}

// UpdateDraft replaces the date, memo and lines of a Draft atomically.
func (s *journalService) UpdateDraft(ctx context.Context, organizationID, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	entryDate, err := parseRequestDate("entry_date", req.EntryDate)
	if err != nil {
		return nil, err
	}

	var updated domain.JournalEntry
	err = s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		entry, err := loadEntry(ctx, tx, organizationID, entryID, true)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return fmt.Errorf("%w: only draft entries can be edited, entry is %s", apperrors.ErrWrongStatus, entry.Status)
		}

		updated = *entry
		updated.EntryDate = entryDate
		updated.Memo = req.Memo
		updated.LastUpdatedAt = s.Now()
		updated.LastUpdatedBy = userID
		updated.Lines = s.prepareLines(updated, linesFromRequest(req.Lines))

		if err := s.validateDraft(ctx, tx, updated); err != nil {
			return err
		}
		return tx.Journals().ReplaceDraft(ctx, updated)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update draft journal entry",
			slog.String("organization_id", organizationID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	metrics.RecordTransition(metrics.TransitionUpdateDraft)
	s.LogInfo(ctx, "Draft journal entry updated",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", entryID))
	return &updated, nil
}

// DeleteDraft removes a Draft and its lines. Any other status is preserved.
func (s *journalService) DeleteDraft(ctx context.Context, organizationID, entryID, userID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		entry, err := loadEntry(ctx, tx, organizationID, entryID, true)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return fmt.Errorf("%w: only draft entries can be deleted, entry is %s", apperrors.ErrWrongStatus, entry.Status)
		}
		return tx.Journals().DeleteDraftEntry(ctx, entryID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete draft journal entry",
			slog.String("organization_id", organizationID),
			slog.String("entry_id", entryID))
		return err
	}

	metrics.RecordTransition(metrics.TransitionDeleteDraft)
	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", entryID),
		slog.String("user_id", userID))
	return nil
}

// PostEntry moves a Draft to Posted.
func (s *journalService) PostEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error) {
	var posted domain.JournalEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		entry, err := loadEntry(ctx, tx, organizationID, entryID, true)
		if err != nil {
			return err
		}
		if err := s.validateForPost(ctx, tx, *entry); err != nil {
			return err
		}

		now := s.Now()
		if err := tx.Journals().UpdateEntryStatus(ctx, domain.StatusChange{
			EntryID:   entryID,
			From:      domain.Draft,
			To:        domain.Posted,
			PostedAt:  &now,
			UpdatedBy: userID,
			UpdatedAt: now,
		}); err != nil {
			return err
		}

		posted = *entry
		posted.Status = domain.Posted
		posted.PostedAt = &now
		posted.LastUpdatedAt = now
		posted.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post journal entry",
			slog.String("organization_id", organizationID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	metrics.RecordTransition(metrics.TransitionPost)
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", entryID))
	return &posted, nil
}

// ReverseEntry posts an entry with debit and credit swapped on every line,
// dated reversalDate or today, and marks the original Reversed.
func (s *journalService) ReverseEntry(ctx context.Context, organizationID, entryID string, reversalDate *time.Time, userID string) (*domain.JournalEntry, error) {
	date := s.Today()
	if reversalDate != nil {
		date = domain.DateOnly(*reversalDate)
	}

	var reversal *domain.JournalEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		original, err := loadEntry(ctx, tx, organizationID, entryID, true)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return fmt.Errorf("%w: only posted entries can be reversed, entry is %s", apperrors.ErrWrongStatus, original.Status)
		}

		lines := make([]domain.JournalLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = l.Swapped()
		}
		sourceID := original.EntryID
		entry := s.newEntry(organizationID, date, reversalMemo(original), domain.SourceReversal, &sourceID, lines, userID)

		reversal, err = s.record(ctx, tx, entry, domain.Posted)
		if err != nil {
			return err
		}

		return tx.Journals().UpdateEntryStatus(ctx, domain.StatusChange{
			EntryID:           original.EntryID,
			From:              domain.Posted,
			To:                domain.Reversed,
			ReversedByEntryID: &reversal.EntryID,
			UpdatedBy:         userID,
			UpdatedAt:         s.Now(),
		})
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to reverse journal entry",
			slog.String("organization_id", organizationID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	metrics.RecordTransition(metrics.TransitionReverse)
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	return reversal, nil
}

func reversalMemo(original *domain.JournalEntry) string {
	if strings.TrimSpace(original.Memo) == "" {
		return "Reversal of entry " + original.EntryID
	}
	return "Reversal of: " + original.Memo
}

// VoidEntry moves a Draft to Voided. Its lines stay for audit.
func (s *journalService) VoidEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error) {
	var voided domain.JournalEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		entry, err := loadEntry(ctx, tx, organizationID, entryID, true)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return fmt.Errorf("%w: only draft entries can be voided, entry is %s", apperrors.ErrWrongStatus, entry.Status)
		}

		now := s.Now()
		if err := tx.Journals().UpdateEntryStatus(ctx, domain.StatusChange{
			EntryID:   entryID,
			From:      domain.Draft,
			To:        domain.Voided,
			UpdatedBy: userID,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		voided = *entry
		voided.Status = domain.Voided
		voided.LastUpdatedAt = now
		voided.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to void journal entry",
			slog.String("organization_id", organizationID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	metrics.RecordTransition(metrics.TransitionVoid)
	s.LogInfo(ctx, "Journal entry voided",
		slog.String("organization_id", organizationID),
		slog.String("entry_id", entryID))
	return &voided, nil
}

// GetEntryByID retrieves an entry and its lines.
func (s *journalService) GetEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error) {
	entry, err := loadEntry(ctx, s.store, organizationID, entryID, false)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves a page of entries matching the filters.
func (s *journalService) ListEntries(ctx context.Context, organizationID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := domain.JournalFilter{OrganizationID: organizationID}
	if params.Status != "" {
		status := domain.JournalStatus(strings.ToUpper(params.Status))
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}
	if params.SourceType != "" {
		filter.SourceType = &params.SourceType
	}
	if params.SourceID != "" {
		filter.SourceID = &params.SourceID
	}
	if params.AccountID != "" {
		filter.AccountID = &params.AccountID
	}
	if params.DateFrom != "" {
		from, err := parseRequestDate("date_from", params.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = &from
	}
	if params.DateTo != "" {
		to, err := parseRequestDate("date_to", params.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = &to
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	entries, next, err := s.store.Journals().ListEntries(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list journal entries", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	resp := dto.ToListJournalEntriesResponse(entries, next)
	s.LogDebug(ctx, "Journal entries listed", slog.String("organization_id", organizationID), slog.Int("count", len(entries)))
	return &resp, nil
}

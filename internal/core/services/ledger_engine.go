package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// ledgerEngine holds the posting rules shared by every path that writes
// journal entries: manual entries, quick entries, hooks and reversals.
// All methods run against repositories bound to the caller's transaction.
type ledgerEngine struct {
	BaseService
	defaultCashCode string
}

func newLedgerEngine(o serviceOptions) ledgerEngine {
	return ledgerEngine{
		BaseService:     BaseService{Clock: o.clock},
		defaultCashCode: o.defaultCashCode,
	}
}

// newEntry assembles a Draft entry with fresh ids, audit fields and amounts
// rounded to cents.
func (e *ledgerEngine) newEntry(organizationID string, entryDate time.Time, memo, sourceType string, sourceID *string, lines []domain.JournalLine, userID string) domain.JournalEntry {
	now := e.Now()
	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: organizationID,
		EntryDate:      domain.DateOnly(entryDate),
		Memo:           memo,
		Status:         domain.Draft,
		SourceType:     sourceType,
		SourceID:       sourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	entry.Lines = e.prepareLines(entry, lines)
	return entry
}

// prepareLines stamps lines with ids, numbering and the parent's organization.
func (e *ledgerEngine) prepareLines(entry domain.JournalEntry, lines []domain.JournalLine) []domain.JournalLine {
	prepared := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.EntryID = entry.EntryID
		l.OrganizationID = entry.OrganizationID
		l.LineNo = i + 1
		l.DebitAmount = domain.RoundMoney(l.DebitAmount)
		l.CreditAmount = domain.RoundMoney(l.CreditAmount)
		prepared[i] = l
	}
	return prepared
}

// checkAccounts verifies that every referenced account exists in the
// organization and can be posted to.
func (e *ledgerEngine) checkAccounts(ctx context.Context, repos portsrepo.Repositories, entry domain.JournalEntry) error {
	ids := entry.AccountIDs()
	if len(ids) == 0 {
		return nil
	}
	accounts, err := repos.Accounts().FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidAccount, id)
		}
		if acc.OrganizationID != entry.OrganizationID {
			e.LogWarn(ctx, apperrors.ErrCrossOrganization, "Line references an account of another organization",
				slog.String("organization_id", entry.OrganizationID),
				slog.String("account_id", id))
			return fmt.Errorf("%w: account %s belongs to another organization", apperrors.ErrCrossOrganization, id)
		}
		if acc.IsHeader {
			return fmt.Errorf("%w: account %q is a header account", apperrors.ErrInvalidAccount, acc.Name)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %q is inactive", apperrors.ErrInvalidAccount, acc.Name)
		}
	}
	return nil
}

// checkPeriodOpen locks the periods covering date and fails when one of them
// is locked. The row locks hold until the caller's transaction ends.
func (e *ledgerEngine) checkPeriodOpen(ctx context.Context, repos portsrepo.Repositories, organizationID string, date time.Time) error {
	periods, err := repos.Periods().LockPeriodsCoveringDate(ctx, organizationID, date)
	if err != nil {
		return fmt.Errorf("failed to check accounting periods: %w", err)
	}
	for _, p := range periods {
		if p.IsLocked {
			return &apperrors.PeriodLockedError{PeriodID: p.PeriodID, Start: p.PeriodStart, End: p.PeriodEnd}
		}
	}
	return nil
}

// validateDraft applies the checks every stored entry must pass.
func (e *ledgerEngine) validateDraft(ctx context.Context, repos portsrepo.Repositories, entry domain.JournalEntry) error {
	if len(entry.Lines) == 0 {
		return fmt.Errorf("%w: an entry needs at least one line", apperrors.ErrValidation)
	}
	if err := entry.ValidateLines(); err != nil {
		return err
	}
	return e.checkAccounts(ctx, repos, entry)
}

// validateForPost enforces every posting invariant on a Draft entry.
func (e *ledgerEngine) validateForPost(ctx context.Context, repos portsrepo.Repositories, entry domain.JournalEntry) error {
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: only draft entries can be posted, entry is %s", apperrors.ErrWrongStatus, entry.Status)
	}
	if err := entry.ValidateForPost(); err != nil {
		return err
	}
	if err := e.checkAccounts(ctx, repos, entry); err != nil {
		return err
	}
	return e.checkPeriodOpen(ctx, repos, entry.OrganizationID, entry.EntryDate)
}

// record creates an entry and its lines in the target status. When the target
// is Posted every posting invariant is checked first, so a failure leaves
// nothing behind once the caller's transaction rolls back.
func (e *ledgerEngine) record(ctx context.Context, repos portsrepo.Repositories, entry domain.JournalEntry, target domain.JournalStatus) (*domain.JournalEntry, error) {
	entry.Status = domain.Draft
	switch target {
	case domain.Draft:
		if err := e.validateDraft(ctx, repos, entry); err != nil {
			return nil, err
		}
	case domain.Posted:
		if err := e.validateForPost(ctx, repos, entry); err != nil {
			return nil, err
		}
		postedAt := e.Now()
		entry.Status = domain.Posted
		entry.PostedAt = &postedAt
	default:
		return nil, fmt.Errorf("%w: entries can only be created as %s or %s", apperrors.ErrValidation, domain.Draft, domain.Posted)
	}

	if err := repos.Journals().SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// findBySource returns the entry already recorded for a source, or nil.
func (e *ledgerEngine) findBySource(ctx context.Context, repos portsrepo.Repositories, organizationID, sourceType, sourceID string) (*domain.JournalEntry, error) {
	existing, err := repos.Journals().FindEntryBySource(ctx, organizationID, sourceType, sourceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up source %s/%s: %w", sourceType, sourceID, err)
	}
	return existing, nil
}

// recordFromSource posts entry unless its source was recorded concurrently,
// in which case the winner's entry is returned with created=false.
func (e *ledgerEngine) recordFromSource(ctx context.Context, repos portsrepo.Repositories, entry domain.JournalEntry) (*domain.JournalEntry, bool, error) {
	created, err := e.record(ctx, repos, entry, domain.Posted)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) || entry.SourceID == nil {
		return nil, false, err
	}
	existing, findErr := e.findBySource(ctx, repos, entry.OrganizationID, entry.SourceType, *entry.SourceID)
	if findErr != nil {
		return nil, false, findErr
	}
	if existing == nil {
		return nil, false, err
	}
	return existing, false, nil
}

// requireAccount loads an account of the organization and checks its type.
func (e *ledgerEngine) requireAccount(ctx context.Context, repos portsrepo.Repositories, organizationID, accountID string, allowed ...domain.AccountType) (*domain.Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account id is required", apperrors.ErrValidation)
	}
	acc, err := repos.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidAccount, accountID)
		}
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	if acc.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: account %s belongs to another organization", apperrors.ErrCrossOrganization, accountID)
	}
	if len(allowed) > 0 && !containsType(allowed, acc.AccountType) {
		return nil, fmt.Errorf("%w: account %q is %s, expected %s", apperrors.ErrInvalidAccount, acc.Name, acc.AccountType, joinTypes(allowed))
	}
	return acc, nil
}

// cashAccount returns the explicit account when given, otherwise the
// organization's default cash account. Either way it must be an Asset.
func (e *ledgerEngine) cashAccount(ctx context.Context, repos portsrepo.Repositories, organizationID string, explicit *string) (*domain.Account, error) {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return e.requireAccount(ctx, repos, organizationID, *explicit, domain.Asset)
	}
	acc, err := repos.Accounts().FindAccountByCode(ctx, organizationID, e.defaultCashCode)
	if errors.Is(err, apperrors.ErrNotFound) {
		acc, err = repos.Accounts().FindAccountByName(ctx, organizationID, domain.AccountNameOperatingBank)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no default cash account (code %s) in the chart of accounts", apperrors.ErrInvalidAccount, e.defaultCashCode)
		}
		return nil, fmt.Errorf("failed to load default cash account: %w", err)
	}
	if acc.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: default cash account %q is not an asset", apperrors.ErrInvalidAccount, acc.Name)
	}
	return acc, nil
}

// parseAmount checks a requested amount is strictly positive after rounding.
func parseAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := domain.RoundMoney(amount)
	if !rounded.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !domain.MoneyInRange(rounded) {
		return decimal.Zero, fmt.Errorf("%w: amount must not exceed %s", apperrors.ErrValidation, domain.FormatMoney(domain.MaxMoney))
	}
	return rounded, nil
}

// parseRequestDate parses a YYYY-MM-DD field.
func parseRequestDate(field, value string) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return d, nil
}

// linesFromRequest converts requested lines to domain lines.
func linesFromRequest(reqs []dto.JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalLine{
			AccountID:    r.AccountID,
			DebitAmount:  r.DebitAmount,
			CreditAmount: r.CreditAmount,
			Description:  r.Description,
			PropertyID:   r.PropertyID,
			UnitID:       r.UnitID,
			Reference:    r.Reference,
		}
	}
	return lines
}

// twoLines builds a debit and a matching credit line.
func twoLines(debitAccountID, creditAccountID string, amount decimal.Decimal, description string, propertyID, unitID *string, reference string) []domain.JournalLine {
	return []domain.JournalLine{
		{
			AccountID:    debitAccountID,
			DebitAmount:  amount,
			CreditAmount: decimal.Zero,
			Description:  description,
			PropertyID:   propertyID,
			UnitID:       unitID,
			Reference:    reference,
		},
		{
			AccountID:    creditAccountID,
			DebitAmount:  decimal.Zero,
			CreditAmount: amount,
			Description:  description,
			PropertyID:   propertyID,
			UnitID:       unitID,
			Reference:    reference,
		},
	}
}

func containsType(types []domain.AccountType, t domain.AccountType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func joinTypes(types []domain.AccountType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, " or ")
}

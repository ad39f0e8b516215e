package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
	"github.com/onyxpm/onyx_backend/internal/platform/metrics"
)

// quickEntryService records the one-step income, expense and transfer forms.
type quickEntryService struct {
	ledgerEngine
	store portsrepo.Store
}

// NewQuickEntryService creates a new QuickEntrySvc.
func NewQuickEntryService(store portsrepo.Store, opts ...ServiceOption) portssvc.QuickEntrySvc {
	return &quickEntryService{
		ledgerEngine: newLedgerEngine(applyOptions(opts)),
		store:        store,
	}
}

var _ portssvc.QuickEntrySvc = (*quickEntryService)(nil)

// RecordIncome debits the deposit account and credits a revenue account.
func (s *quickEntryService) RecordIncome(ctx context.Context, organizationID string, req dto.RecordIncomeRequest, userID string) (*domain.JournalEntry, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseRequestDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	return s.post(ctx, organizationID, "income", func(ctx context.Context, tx portsrepo.Repositories) (domain.JournalEntry, error) {
		revenue, err := s.requireAccount(ctx, tx, organizationID, req.RevenueAccountID, domain.Revenue)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		cash, err := s.cashAccount(ctx, tx, organizationID, req.DepositToAccountID)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		memo := firstNonEmpty(req.Description, "Income: "+revenue.Name)
		lines := twoLines(cash.AccountID, revenue.AccountID, amount, req.Description, req.PropertyID, nil, "")
		return s.newEntry(organizationID, date, memo, domain.SourceManual, nil, lines, userID), nil
	})
}

// RecordExpense debits an expense account and credits the paying account.
func (s *quickEntryService) RecordExpense(ctx context.Context, organizationID string, req dto.RecordExpenseRequest, userID string) (*domain.JournalEntry, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseRequestDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	return s.post(ctx, organizationID, "expense", func(ctx context.Context, tx portsrepo.Repositories) (domain.JournalEntry, error) {
		expense, err := s.requireAccount(ctx, tx, organizationID, req.ExpenseAccountID, domain.Expense)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		cash, err := s.cashAccount(ctx, tx, organizationID, req.PaidFromAccountID)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		memo := expenseMemo(req.Vendor, req.Description, expense.Name)
		lines := twoLines(expense.AccountID, cash.AccountID, amount, req.Description, req.PropertyID, nil, "")
		return s.newEntry(organizationID, date, memo, domain.SourceManual, nil, lines, userID), nil
	})
}

// RecordTransfer debits the destination and credits the origin. Both sides
// must be Asset accounts.
func (s *quickEntryService) RecordTransfer(ctx context.Context, organizationID string, req dto.RecordTransferRequest, userID string) (*domain.JournalEntry, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseRequestDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: transfer accounts must differ", apperrors.ErrValidation)
	}

	return s.post(ctx, organizationID, "transfer", func(ctx context.Context, tx portsrepo.Repositories) (domain.JournalEntry, error) {
		from, err := s.requireAccount(ctx, tx, organizationID, req.FromAccountID, domain.Asset)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		to, err := s.requireAccount(ctx, tx, organizationID, req.ToAccountID, domain.Asset)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		memo := firstNonEmpty(req.Description, fmt.Sprintf("Transfer from %s to %s", from.Name, to.Name))
		lines := twoLines(to.AccountID, from.AccountID, amount, req.Description, nil, nil, "")
		return s.newEntry(organizationID, date, memo, domain.SourceTransfer, nil, lines, userID), nil
	})
}

// post builds the entry inside a transaction and records it as Posted.
func (s *quickEntryService) post(ctx context.Context, organizationID, kind string, build func(ctx context.Context, tx portsrepo.Repositories) (domain.JournalEntry, error)) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		entry, err := build(ctx, tx)
		if err != nil {
			return err
		}
		posted, err = s.record(ctx, tx, entry, domain.Posted)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to record "+kind,
			slog.String("organization_id", organizationID))
		return nil, err
	}

	metrics.RecordTransition(metrics.TransitionPost)
	s.LogInfo(ctx, "Recorded "+kind,
		slog.String("organization_id", organizationID),
		slog.String("entry_id", posted.EntryID))
	return posted, nil
}

func expenseMemo(vendor, description, accountName string) string {
	vendor = strings.TrimSpace(vendor)
	description = strings.TrimSpace(description)
	switch {
	case vendor != "" && description != "":
		return vendor + ": " + description
	case vendor != "":
		return vendor
	case description != "":
		return description
	}
	return "Expense: " + accountName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

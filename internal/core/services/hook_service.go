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

const (
	hookRentPayment = "rent_payment"
	hookBillPayment = "bill_payment"
	hookImport      = "import"
)

// hookService posts entries for events raised by the payments, bills and
// import modules.
type hookService struct {
	ledgerEngine
	store portsrepo.Store
}

// NewHookService creates a new HookSvc.
func NewHookService(store portsrepo.Store, opts ...ServiceOption) portssvc.HookSvc {
	return &hookService{
		ledgerEngine: newLedgerEngine(applyOptions(opts)),
		store:        store,
	}
}

var _ portssvc.HookSvc = (*hookService)(nil)

// RecordRentPayment posts a rent receipt in its own transaction.
func (s *hookService) RecordRentPayment(ctx context.Context, organizationID string, event dto.RentPaymentEvent, userID string) (*domain.JournalEntry, bool, error) {
	var (
		entry   *domain.JournalEntry
		created bool
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		var err error
		entry, created, err = s.RecordRentPaymentInTx(ctx, tx, organizationID, event, userID)
		return err
	})
	s.observe(ctx, hookRentPayment, organizationID, event.PaymentID, entry, created, err)
	if err != nil {
		return nil, false, err
	}
	return entry, created, nil
}

// RecordRentPaymentInTx debits cash and credits Rental Income. A payment that
// was already recorded returns its entry with created=false. The outcome is
// not counted in metrics here since the caller owns the commit.
func (s *hookService) RecordRentPaymentInTx(ctx context.Context, tx portsrepo.Repositories, organizationID string, event dto.RentPaymentEvent, userID string) (*domain.JournalEntry, bool, error) {
	amount, err := parseAmount(event.Amount)
	if err != nil {
		return nil, false, err
	}
	date, err := parseRequestDate("payment_date", event.PaymentDate)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.findBySource(ctx, tx, organizationID, domain.SourceRentPayment, event.PaymentID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	cash, err := s.cashAccount(ctx, tx, organizationID, event.DepositAccountID)
	if err != nil {
		return nil, false, err
	}
	income, err := resolveAccount(ctx, tx, organizationID, domain.AccountNameRentalIncome, domain.Revenue, userID, s.Now())
	if err != nil {
		return nil, false, err
	}

	memo := "Rent payment"
	if name := strings.TrimSpace(event.TenantName); name != "" {
		memo += " from " + name
	}
	sourceID := event.PaymentID
	lines := twoLines(cash.AccountID, income.AccountID, amount, memo, event.PropertyID, event.UnitID, event.Reference)
	entry := s.newEntry(organizationID, date, memo, domain.SourceRentPayment, &sourceID, lines, userID)
	return s.recordFromSource(ctx, tx, entry)
}

// RecordBillPayment posts a bill payment in its own transaction.
func (s *hookService) RecordBillPayment(ctx context.Context, organizationID string, event dto.BillPaymentEvent, userID string) (*domain.JournalEntry, bool, error) {
	var (
		entry   *domain.JournalEntry
		created bool
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		var err error
		entry, created, err = s.RecordBillPaymentInTx(ctx, tx, organizationID, event, userID)
		return err
	})
	s.observe(ctx, hookBillPayment, organizationID, event.BillPaymentID, entry, created, err)
	if err != nil {
		return nil, false, err
	}
	return entry, created, nil
}

// RecordBillPaymentInTx debits the expense account and credits cash. Like
// RecordRentPaymentInTx it leaves metrics to the owner of the transaction.
func (s *hookService) RecordBillPaymentInTx(ctx context.Context, tx portsrepo.Repositories, organizationID string, event dto.BillPaymentEvent, userID string) (*domain.JournalEntry, bool, error) {
	amount, err := parseAmount(event.Amount)
	if err != nil {
		return nil, false, err
	}
	date, err := parseRequestDate("payment_date", event.PaymentDate)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.findBySource(ctx, tx, organizationID, domain.SourceManual, event.BillPaymentID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	var expense *domain.Account
	if event.ExpenseAccountID != nil && strings.TrimSpace(*event.ExpenseAccountID) != "" {
		expense, err = s.requireAccount(ctx, tx, organizationID, *event.ExpenseAccountID, domain.Expense)
	} else {
		expense, err = resolveAccount(ctx, tx, organizationID, domain.AccountNameOtherExpense, domain.Expense, userID, s.Now())
	}
	if err != nil {
		return nil, false, err
	}
	cash, err := s.cashAccount(ctx, tx, organizationID, event.PaidFromAccountID)
	if err != nil {
		return nil, false, err
	}

	memo := "Bill payment"
	if vendor := strings.TrimSpace(event.VendorName); vendor != "" {
		memo += " to " + vendor
	}
	sourceID := event.BillPaymentID
	lines := twoLines(expense.AccountID, cash.AccountID, amount, memo, event.PropertyID, event.UnitID, event.Reference)
	entry := s.newEntry(organizationID, date, memo, domain.SourceManual, &sourceID, lines, userID)
	return s.recordFromSource(ctx, tx, entry)
}

// RecordImportedBatch posts every categorized row against the bank account.
// Money in debits the bank; money out credits it. Rows already imported are
// reported as duplicates. Any failing row rolls back the whole batch.
func (s *hookService) RecordImportedBatch(ctx context.Context, organizationID string, req dto.ImportBatchRequest, userID string) (*dto.ImportBatchResponse, error) {
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("%w: at least one row is required", apperrors.ErrValidation)
	}

	resp := &dto.ImportBatchResponse{}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		*resp = dto.ImportBatchResponse{Results: make([]dto.ImportRowResult, 0, len(req.Rows))}

		bank, err := s.requireAccount(ctx, tx, organizationID, req.BankAccountID, domain.Asset)
		if err != nil {
			return err
		}

		for _, row := range req.Rows {
			entry, created, err := s.importRow(ctx, tx, organizationID, bank, row, userID)
			if err != nil {
				return fmt.Errorf("row %s: %w", row.RowID, err)
			}
			resp.Results = append(resp.Results, dto.ImportRowResult{RowID: row.RowID, EntryID: entry.EntryID, Created: created})
			if created {
				resp.Created++
			} else {
				resp.Duplicates++
			}
		}
		return nil
	})
	if err != nil {
		metrics.RecordHook(hookImport, metrics.OutcomeError)
		s.LogFailure(ctx, err, "Failed to record imported batch",
			slog.String("organization_id", organizationID),
			slog.Int("rows", len(req.Rows)))
		return nil, err
	}

	for i := 0; i < resp.Created; i++ {
		metrics.RecordHook(hookImport, metrics.OutcomeCreated)
	}
	for i := 0; i < resp.Duplicates; i++ {
		metrics.RecordHook(hookImport, metrics.OutcomeDuplicate)
	}
	s.LogInfo(ctx, "Recorded imported batch",
		slog.String("organization_id", organizationID),
		slog.Int("created", resp.Created),
		slog.Int("duplicates", resp.Duplicates))
	return resp, nil
}

func (s *hookService) importRow(ctx context.Context, tx portsrepo.Repositories, organizationID string, bank *domain.Account, row dto.ImportedRow, userID string) (*domain.JournalEntry, bool, error) {
	if strings.TrimSpace(row.RowID) == "" {
		return nil, false, fmt.Errorf("%w: row_id is required", apperrors.ErrValidation)
	}
	amount, err := parseAmount(row.Amount.Abs())
	if err != nil {
		return nil, false, err
	}
	date, err := parseRequestDate("date", row.Date)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.findBySource(ctx, tx, organizationID, domain.SourceImport, row.RowID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	category, err := s.requireAccount(ctx, tx, organizationID, row.CategoryAccountID, domain.Revenue, domain.Expense)
	if err != nil {
		return nil, false, err
	}

	var lines []domain.JournalLine
	if row.Amount.IsPositive() {
		lines = twoLines(bank.AccountID, category.AccountID, amount, row.Description, row.PropertyID, nil, "")
	} else {
		lines = twoLines(category.AccountID, bank.AccountID, amount, row.Description, row.PropertyID, nil, "")
	}
	memo := firstNonEmpty(row.Description, "Imported: "+category.Name)
	sourceID := row.RowID
	entry := s.newEntry(organizationID, date, memo, domain.SourceImport, &sourceID, lines, userID)
	return s.recordFromSource(ctx, tx, entry)
}

// observe records the outcome of a hook that ran in its own transaction,
// after that transaction has committed or rolled back.
func (s *hookService) observe(ctx context.Context, hook, organizationID, sourceID string, entry *domain.JournalEntry, created bool, err error) {
	attrs := []any{
		slog.String("hook", hook),
		slog.String("organization_id", organizationID),
		slog.String("source_id", sourceID),
	}
	switch {
	case err != nil:
		metrics.RecordHook(hook, metrics.OutcomeError)
		s.LogFailure(ctx, err, "Hook failed", attrs...)
	case created:
		metrics.RecordHook(hook, metrics.OutcomeCreated)
		metrics.RecordTransition(metrics.TransitionPost)
		s.LogInfo(ctx, "Hook recorded entry", append(attrs, slog.String("entry_id", entry.EntryID))...)
	default:
		metrics.RecordHook(hook, metrics.OutcomeDuplicate)
		s.LogInfo(ctx, "Hook event already recorded", append(attrs, slog.String("entry_id", entry.EntryID))...)
	}
}

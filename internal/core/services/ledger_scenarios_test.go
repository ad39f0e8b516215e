package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/dto"
	"github.com/onyxpm/onyx_backend/internal/platform/metrics"
)

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) TestRecordIncome_TrialBalance() {
	s.income("200.00", "2026-02-14")

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.orgID, date("2026-02-14"))
	s.Require().NoError(err)
	s.Require().Len(tb.Rows, 2)

	s.Equal("1020", tb.Rows[0].AccountCode)
	s.Equal("200.00", domain.FormatMoney(tb.Rows[0].DebitTotal))
	s.Equal("0.00", domain.FormatMoney(tb.Rows[0].CreditTotal))
	s.Equal("4100", tb.Rows[1].AccountCode)
	s.Equal("0.00", domain.FormatMoney(tb.Rows[1].DebitTotal))
	s.Equal("200.00", domain.FormatMoney(tb.Rows[1].CreditTotal))
	s.Equal("200.00", domain.FormatMoney(tb.TotalDebit))
	s.Equal("200.00", domain.FormatMoney(tb.TotalCredit))
	s.True(tb.IsBalanced)
}

func (s *LedgerTestSuite) TestTrialBalance_ExcludesLaterEntries() {
	s.income("200.00", "2026-02-14")
	s.income("50.00", "2026-02-15")

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.orgID, date("2026-02-14"))
	s.Require().NoError(err)
	s.Equal("200.00", domain.FormatMoney(tb.TotalDebit))
}

func (s *LedgerTestSuite) TestRecordExpense_ProfitAndLoss() {
	s.expense("75.00", "2026-02-14")

	pnl, err := s.svc.Reporting.ProfitAndLoss(s.ctx, s.orgID, date("2026-01-01"), date("2026-12-31"))
	s.Require().NoError(err)
	s.Empty(pnl.Income)
	s.Require().Len(pnl.Expenses, 1)
	s.Equal("Repairs & Maintenance", pnl.Expenses[0].Name)
	s.Equal("75.00", domain.FormatMoney(pnl.Expenses[0].Amount))
	s.Equal("-75.00", domain.FormatMoney(pnl.NetIncome))
}

func (s *LedgerTestSuite) TestPostUnbalanced_StaysDraft() {
	entry := s.draft("2026-02-14", debit(s.id("1020"), "100.00"), credit(s.id("4100"), "50.00"))

	_, err := s.svc.Journal.PostEntry(s.ctx, s.orgID, entry.EntryID, s.userID)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, reloaded.Status)
	s.Nil(reloaded.PostedAt)
}

func (s *LedgerTestSuite) TestPostInLockedPeriod() {
	entry := s.draft("2026-02-10", debit(s.id("1020"), "10.00"), credit(s.id("4100"), "10.00"))
	period, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28"}, s.userID)
	s.Require().NoError(err)
	_, err = s.svc.Period.LockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Journal.PostEntry(s.ctx, s.orgID, entry.EntryID, s.userID)
	s.Require().ErrorIs(err, apperrors.ErrPeriodLocked)
	var locked *apperrors.PeriodLockedError
	s.Require().True(errors.As(err, &locked))
	s.Equal(date("2026-02-01"), locked.Start)
	s.Equal(date("2026-02-28"), locked.End)

	_, err = s.svc.Period.UnlockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)

	posted, err := s.svc.Journal.PostEntry(s.ctx, s.orgID, entry.EntryID, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.NotNil(posted.PostedAt)
}

func (s *LedgerTestSuite) TestReverse() {
	original := s.income("90.00", "2026-02-14")
	reversalDate := date("2026-02-20")

	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, s.orgID, original.EntryID, &reversalDate, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, reversal.Status)
	s.Equal(domain.SourceReversal, reversal.SourceType)
	s.Require().NotNil(reversal.SourceID)
	s.Equal(original.EntryID, *reversal.SourceID)
	s.Equal(reversalDate, reversal.EntryDate)

	s.Require().Len(reversal.Lines, 2)
	s.Equal(s.id("1020"), reversal.Lines[0].AccountID)
	s.Equal("90.00", domain.FormatMoney(reversal.Lines[0].CreditAmount))
	s.True(reversal.Lines[0].DebitAmount.IsZero())
	s.Equal(s.id("4100"), reversal.Lines[1].AccountID)
	s.Equal("90.00", domain.FormatMoney(reversal.Lines[1].DebitAmount))

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, original.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, reloaded.Status)
	s.Require().NotNil(reloaded.ReversedByEntryID)
	s.Equal(reversal.EntryID, *reloaded.ReversedByEntryID)

	// Account by account the pair nets to zero.
	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.orgID, reversalDate)
	s.Require().NoError(err)
	for _, row := range tb.Rows {
		s.True(row.DebitTotal.Equal(row.CreditTotal), "account %s does not net to zero", row.AccountCode)
	}
	s.assertLedgerInvariants(reversalDate)
}

func (s *LedgerTestSuite) TestReverse_DefaultsToToday() {
	original := s.income("90.00", "2026-02-14")

	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, s.orgID, original.EntryID, nil, s.userID)
	s.Require().NoError(err)
	s.Equal(date("2026-03-01"), reversal.EntryDate)
}

func (s *LedgerTestSuite) TestReverse_RequiresPosted() {
	entry := s.draft("2026-02-14", debit(s.id("1020"), "10.00"), credit(s.id("4100"), "10.00"))

	_, err := s.svc.Journal.ReverseEntry(s.ctx, s.orgID, entry.EntryID, nil, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)

	original := s.income("10.00", "2026-02-14")
	_, err = s.svc.Journal.ReverseEntry(s.ctx, s.orgID, original.EntryID, nil, s.userID)
	s.Require().NoError(err)
	_, err = s.svc.Journal.ReverseEntry(s.ctx, s.orgID, original.EntryID, nil, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)
}

func (s *LedgerTestSuite) TestReverse_LockedReversalDateRollsBack() {
	original := s.income("90.00", "2026-02-14")
	period, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-03-01", PeriodEnd: "2026-03-31"}, s.userID)
	s.Require().NoError(err)
	_, err = s.svc.Period.LockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, s.orgID, original.EntryID, nil, s.userID)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, original.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, reloaded.Status)
	s.Len(s.allEntries(), 1)
}

func (s *LedgerTestSuite) TestBalanceSheetBalanced() {
	s.income("250.00", "2026-02-14")
	s.expense("50.00", "2026-02-14")

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, s.orgID, date("2026-02-14"))
	s.Require().NoError(err)
	s.Equal("200.00", domain.FormatMoney(bs.TotalAssets))
	s.Equal("200.00", domain.FormatMoney(bs.NetIncomeYTD))
	s.Equal("200.00", domain.FormatMoney(bs.TotalLiabilitiesAndEquity))
	s.True(bs.IsBalanced)
	s.Require().Len(bs.Assets, 1)
	s.Equal("Operating Bank", bs.Assets[0].Name)
}

func (s *LedgerTestSuite) TestVoid() {
	entry := s.draft("2026-02-14", debit(s.id("1020"), "10.00"), credit(s.id("4100"), "10.00"))

	voided, err := s.svc.Journal.VoidEntry(s.ctx, s.orgID, entry.EntryID, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.Voided, voided.Status)

	_, err = s.svc.Journal.PostEntry(s.ctx, s.orgID, entry.EntryID, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)

	posted := s.income("10.00", "2026-02-14")
	_, err = s.svc.Journal.VoidEntry(s.ctx, s.orgID, posted.EntryID, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)
}

func (s *LedgerTestSuite) TestPostedEntriesAreImmutable() {
	posted := s.income("10.00", "2026-02-14")

	_, err := s.svc.Journal.UpdateDraft(s.ctx, s.orgID, posted.EntryID, dto.UpdateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Lines:     []dto.JournalLineRequest{debit(s.id("1010"), "10.00"), credit(s.id("4100"), "10.00")},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)

	err = s.svc.Journal.DeleteDraft(s.ctx, s.orgID, posted.EntryID, s.userID)
	s.ErrorIs(err, apperrors.ErrWrongStatus)

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, posted.EntryID)
	s.Require().NoError(err)
	s.Equal(posted.Lines, reloaded.Lines)
}

func (s *LedgerTestSuite) TestUpdateAndDeleteDraft() {
	entry := s.draft("2026-02-14", debit(s.id("1020"), "10.00"), credit(s.id("4100"), "10.00"))

	updated, err := s.svc.Journal.UpdateDraft(s.ctx, s.orgID, entry.EntryID, dto.UpdateJournalEntryRequest{
		EntryDate: "2026-02-15",
		Memo:      "corrected",
		Lines: []dto.JournalLineRequest{
			debit(s.id("1010"), "12.50"),
			credit(s.id("4100"), "10.00"),
			credit(s.id("4200"), "2.50"),
		},
	}, s.userID)
	s.Require().NoError(err)
	s.Equal("corrected", updated.Memo)
	s.Len(updated.Lines, 3)

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, entry.EntryID)
	s.Require().NoError(err)
	s.Equal(date("2026-02-15"), reloaded.EntryDate)
	s.Len(reloaded.Lines, 3)

	s.Require().NoError(s.svc.Journal.DeleteDraft(s.ctx, s.orgID, entry.EntryID, s.userID))
	_, err = s.svc.Journal.GetEntryByID(s.ctx, s.orgID, entry.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestLineShapeValidation() {
	cases := []struct {
		name string
		line dto.JournalLineRequest
	}{
		{"both sides zero", debit(s.id("1020"), "0.00")},
		{"both sides positive", dto.JournalLineRequest{AccountID: s.id("1020"), DebitAmount: money("1.00"), CreditAmount: money("1.00")}},
		{"negative amount", debit(s.id("1020"), "-5.00")},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
				EntryDate: "2026-02-14",
				Lines:     []dto.JournalLineRequest{tc.line, credit(s.id("4100"), "5.00")},
			}, s.userID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.Empty(s.allEntries())
}

func (s *LedgerTestSuite) TestHeaderAccountRejected() {
	header, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{
		Name:        "Current Assets",
		AccountCode: "1000",
		AccountType: domain.Asset,
		IsHeader:    true,
	}, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Status:    "POSTED",
		Lines:     []dto.JournalLineRequest{debit(header.AccountID, "5.00"), credit(s.id("4100"), "5.00")},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (s *LedgerTestSuite) TestInactiveAccountRejected() {
	inactive := false
	_, err := s.svc.Chart.UpdateAccount(s.ctx, s.orgID, s.id("4200"), dto.UpdateAccountRequest{IsActive: &inactive}, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Lines:     []dto.JournalLineRequest{debit(s.id("1020"), "5.00"), credit(s.id("4200"), "5.00")},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (s *LedgerTestSuite) TestCrossOrganization() {
	otherOrg := uuid.NewString()
	otherChart, err := s.svc.Chart.SeedChart(s.ctx, otherOrg, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Lines:     []dto.JournalLineRequest{debit(otherChart[0].AccountID, "5.00"), credit(s.id("4100"), "5.00")},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrCrossOrganization)

	entry := s.income("5.00", "2026-02-14")
	_, err = s.svc.Journal.GetEntryByID(s.ctx, otherOrg, entry.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.svc.Journal.ReverseEntry(s.ctx, otherOrg, entry.EntryID, nil, s.userID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, otherOrg, date("2026-12-31"))
	s.Require().NoError(err)
	s.Empty(tb.Rows)
}

func (s *LedgerTestSuite) TestCreatePosted_WithMultipleLines() {
	entry, err := s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Status:    "posted",
		Lines: []dto.JournalLineRequest{
			debit(s.id("1020"), "100.005"),
			credit(s.id("4100"), "80.00"),
			credit(s.id("4200"), "20.005"),
		},
	}, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, entry.Status)
	s.Equal("100.01", domain.FormatMoney(entry.Lines[0].DebitAmount))
	s.Equal("20.01", domain.FormatMoney(entry.Lines[2].CreditAmount))
	s.assertLedgerInvariants(date("2026-02-14"))
}

func (s *LedgerTestSuite) TestTransfer() {
	entry, err := s.svc.QuickEntry.RecordTransfer(s.ctx, s.orgID, dto.RecordTransferRequest{
		Amount:        money("40.00"),
		FromAccountID: s.id("1020"),
		ToAccountID:   s.id("1010"),
		Date:          "2026-02-14",
	}, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.SourceTransfer, entry.SourceType)
	s.Equal(s.id("1010"), entry.Lines[0].AccountID)
	s.Equal("40.00", domain.FormatMoney(entry.Lines[0].DebitAmount))
	s.Equal(s.id("1020"), entry.Lines[1].AccountID)

	_, err = s.svc.QuickEntry.RecordTransfer(s.ctx, s.orgID, dto.RecordTransferRequest{
		Amount:        money("40.00"),
		FromAccountID: s.id("1020"),
		ToAccountID:   s.id("2100"),
		Date:          "2026-02-14",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (s *LedgerTestSuite) TestQuickEntryValidation() {
	_, err := s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("0"),
		RevenueAccountID: s.id("4100"),
		Date:             "2026-02-14",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("10"),
		RevenueAccountID: s.id("5100"),
		Date:             "2026-02-14",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)

	_, err = s.svc.QuickEntry.RecordExpense(s.ctx, s.orgID, dto.RecordExpenseRequest{
		Amount:           money("10"),
		ExpenseAccountID: s.id("5100"),
		Date:             "14/02/2026",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("10000000000000"),
		RevenueAccountID: s.id("4100"),
		Date:             "2026-02-14",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: "2026-02-14",
		Lines:     []dto.JournalLineRequest{debit(s.id("1020"), "999999999999.995"), credit(s.id("4100"), "999999999999.995")},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.allEntries())

	_, err = s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("999999999999.99"),
		RevenueAccountID: s.id("4100"),
		Date:             "2026-02-14",
	}, s.userID)
	s.NoError(err)
}

func (s *LedgerTestSuite) TestRecordIncome_DefaultDepositAccount() {
	entry, err := s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("15.00"),
		RevenueAccountID: s.id("4200"),
		Date:             "2026-02-14",
	}, s.userID)
	s.Require().NoError(err)
	s.Equal(s.id("1020"), entry.Lines[0].AccountID)
	s.Equal("Income: Late Fees", entry.Memo)
}

func (s *LedgerTestSuite) TestRentPaymentHook_Idempotent() {
	event := dto.RentPaymentEvent{
		PaymentID:   "pay-1",
		Amount:      money("1200.00"),
		PaymentDate: "2026-02-01",
		TenantName:  "Jordan Lee",
	}

	first, created, err := s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(domain.Posted, first.Status)
	s.Equal(domain.SourceRentPayment, first.SourceType)
	s.Equal(s.id("1020"), first.Lines[0].AccountID)
	s.Equal(s.id("4100"), first.Lines[1].AccountID)
	s.Equal("Rent payment from Jordan Lee", first.Memo)

	second, created, err := s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.EntryID, second.EntryID)
	s.Len(s.allEntries(), 1)
}

func (s *LedgerTestSuite) TestRentPaymentHook_ConcurrentCallsCreateOneEntry() {
	event := dto.RentPaymentEvent{PaymentID: "pay-concurrent", Amount: money("800.00"), PaymentDate: "2026-02-01"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, event, s.userID)
			s.NoError(err)
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, createdCount)
	s.Len(s.allEntries(), 1)
}

func (s *LedgerTestSuite) TestRentPaymentHook_CreatesRentalIncomeWhenMissing() {
	org := uuid.NewString()
	bank, err := s.svc.Chart.CreateAccount(s.ctx, org, dto.CreateAccountRequest{Name: "Checking", AccountType: domain.Asset}, s.userID)
	s.Require().NoError(err)

	entry, created, err := s.svc.Hooks.RecordRentPayment(s.ctx, org, dto.RentPaymentEvent{
		PaymentID:        "pay-2",
		Amount:           money("500.00"),
		PaymentDate:      "2026-02-01",
		DepositAccountID: &bank.AccountID,
	}, s.userID)
	s.Require().NoError(err)
	s.True(created)

	income, err := s.store.Accounts().FindAccountByName(s.ctx, org, domain.AccountNameRentalIncome)
	s.Require().NoError(err)
	s.Equal(domain.Revenue, income.AccountType)
	s.False(income.IsSystem)
	s.Equal(income.AccountID, entry.Lines[1].AccountID)
}

func (s *LedgerTestSuite) TestRentPaymentHook_InCallerTransaction() {
	hookErr := errors.New("payment handler failed")
	err := s.store.WithTx(s.ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		_, created, err := s.svc.Hooks.RecordRentPaymentInTx(ctx, tx, s.orgID, dto.RentPaymentEvent{
			PaymentID:   "pay-rollback",
			Amount:      money("100.00"),
			PaymentDate: "2026-02-01",
		}, s.userID)
		s.Require().NoError(err)
		s.True(created)
		return hookErr
	})
	s.ErrorIs(err, hookErr)
	s.Empty(s.allEntries())
}

func (s *LedgerTestSuite) TestRentPaymentHook_MetricsCountCommittedOutcomes() {
	created := metrics.HookCounter("rent_payment", metrics.OutcomeCreated)
	duplicate := metrics.HookCounter("rent_payment", metrics.OutcomeDuplicate)
	posted := metrics.TransitionCounter(metrics.TransitionPost)
	createdBefore := testutil.ToFloat64(created)
	postedBefore := testutil.ToFloat64(posted)

	err := s.store.WithTx(s.ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		_, _, err := s.svc.Hooks.RecordRentPaymentInTx(ctx, tx, s.orgID, dto.RentPaymentEvent{
			PaymentID:   "pay-uncommitted",
			Amount:      money("80.00"),
			PaymentDate: "2026-02-01",
		}, s.userID)
		s.Require().NoError(err)
		return errors.New("payment handler failed")
	})
	s.Require().Error(err)
	s.Empty(s.allEntries())
	s.Equal(createdBefore, testutil.ToFloat64(created))
	s.Equal(postedBefore, testutil.ToFloat64(posted))

	event := dto.RentPaymentEvent{PaymentID: "pay-committed", Amount: money("80.00"), PaymentDate: "2026-02-01"}
	_, _, err = s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.Equal(createdBefore+1, testutil.ToFloat64(created))
	s.Equal(postedBefore+1, testutil.ToFloat64(posted))

	duplicateBefore := testutil.ToFloat64(duplicate)
	_, _, err = s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.Equal(duplicateBefore+1, testutil.ToFloat64(duplicate))
}

func (s *LedgerTestSuite) TestBillPaymentHook() {
	event := dto.BillPaymentEvent{
		BillPaymentID: "bill-1",
		Amount:        money("64.20"),
		PaymentDate:   "2026-02-03",
		VendorName:    "City Water",
	}

	entry, created, err := s.svc.Hooks.RecordBillPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(s.id("5900"), entry.Lines[0].AccountID)
	s.Equal(s.id("1020"), entry.Lines[1].AccountID)
	s.Equal("Bill payment to City Water", entry.Memo)

	again, created, err := s.svc.Hooks.RecordBillPayment(s.ctx, s.orgID, event, s.userID)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(entry.EntryID, again.EntryID)

	event.BillPaymentID = "bill-2"
	event.ExpenseAccountID = s.ptr(s.id("4100"))
	_, _, err = s.svc.Hooks.RecordBillPayment(s.ctx, s.orgID, event, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (s *LedgerTestSuite) TestImportedBatch() {
	req := dto.ImportBatchRequest{
		BankAccountID: s.id("1020"),
		Rows: []dto.ImportedRow{
			{RowID: "row-1", Date: "2026-02-02", Amount: money("35.00"), CategoryAccountID: s.id("4200"), Description: "Late fee"},
			{RowID: "row-2", Date: "2026-02-03", Amount: money("-120.00"), CategoryAccountID: s.id("5200"), Description: "Electric"},
		},
	}

	resp, err := s.svc.Hooks.RecordImportedBatch(s.ctx, s.orgID, req, s.userID)
	s.Require().NoError(err)
	s.Equal(2, resp.Created)
	s.Equal(0, resp.Duplicates)

	in, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, resp.Results[0].EntryID)
	s.Require().NoError(err)
	s.Equal(s.id("1020"), in.Lines[0].AccountID)
	s.Equal("35.00", domain.FormatMoney(in.Lines[0].DebitAmount))

	out, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, resp.Results[1].EntryID)
	s.Require().NoError(err)
	s.Equal(s.id("5200"), out.Lines[0].AccountID)
	s.Equal("120.00", domain.FormatMoney(out.Lines[0].DebitAmount))
	s.Equal(s.id("1020"), out.Lines[1].AccountID)

	again, err := s.svc.Hooks.RecordImportedBatch(s.ctx, s.orgID, req, s.userID)
	s.Require().NoError(err)
	s.Equal(0, again.Created)
	s.Equal(2, again.Duplicates)
	s.Len(s.allEntries(), 2)
}

func (s *LedgerTestSuite) TestImportedBatch_FailingRowRollsBackBatch() {
	_, err := s.svc.Hooks.RecordImportedBatch(s.ctx, s.orgID, dto.ImportBatchRequest{
		BankAccountID: s.id("1020"),
		Rows: []dto.ImportedRow{
			{RowID: "row-1", Date: "2026-02-02", Amount: money("35.00"), CategoryAccountID: s.id("4200")},
			{RowID: "row-2", Date: "2026-02-03", Amount: money("-10.00"), CategoryAccountID: s.id("2100")},
		},
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)
	s.Empty(s.allEntries())
}

func (s *LedgerTestSuite) TestLedgerInvariantsAcrossMixedOperations() {
	s.income("250.00", "2026-01-05")
	s.expense("40.00", "2026-01-09")
	reversed := s.income("19.99", "2026-01-10")
	_, err := s.svc.Journal.ReverseEntry(s.ctx, s.orgID, reversed.EntryID, nil, s.userID)
	s.Require().NoError(err)
	_, _, err = s.svc.Hooks.RecordRentPayment(s.ctx, s.orgID, dto.RentPaymentEvent{PaymentID: "p", Amount: money("900.00"), PaymentDate: "2026-01-31"}, s.userID)
	s.Require().NoError(err)
	s.draft("2026-01-20", debit(s.id("1020"), "1.00"), credit(s.id("4100"), "3.00"))

	for _, asOf := range []string{"2026-01-01", "2026-01-09", "2026-01-31", "2026-03-01"} {
		s.assertLedgerInvariants(date(asOf))
	}
}

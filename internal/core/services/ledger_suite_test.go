package services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/onyxpm/onyx_backend/internal/adapters/database/memory"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/core/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// LedgerTestSuite runs the services against the in-memory store, which
// keeps full transactional semantics.
type LedgerTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	orgID    string
	userID   string
	accounts map[string]domain.Account
	now      time.Time
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = services.NewServiceContainer(nil, s.store, services.WithClock(func() time.Time { return s.now }))
	s.orgID = uuid.NewString()
	s.userID = uuid.NewString()

	chart, err := s.svc.Chart.SeedChart(s.ctx, s.orgID, s.userID)
	s.Require().NoError(err)
	s.accounts = make(map[string]domain.Account, len(chart))
	for _, acc := range chart {
		s.accounts[acc.AccountCode] = acc
	}
}

// id returns the id of the seeded account with the given code.
func (s *LedgerTestSuite) id(code string) string {
	acc, ok := s.accounts[code]
	s.Require().True(ok, "no seeded account %s", code)
	return acc.AccountID
}

func (s *LedgerTestSuite) ptr(v string) *string { return &v }

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func date(v string) time.Time {
	d, err := domain.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return d
}

func debit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, DebitAmount: money(amount), CreditAmount: decimal.Zero}
}

func credit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: money(amount)}
}

func (s *LedgerTestSuite) draft(entryDate string, lines ...dto.JournalLineRequest) *domain.JournalEntry {
	entry, err := s.svc.Journal.CreateEntry(s.ctx, s.orgID, dto.CreateJournalEntryRequest{
		EntryDate: entryDate,
		Memo:      "test entry",
		Lines:     lines,
	}, s.userID)
	s.Require().NoError(err)
	s.Require().Equal(domain.Draft, entry.Status)
	return entry
}

func (s *LedgerTestSuite) income(amount, on string) *domain.JournalEntry {
	entry, err := s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:             money(amount),
		RevenueAccountID:   s.id("4100"),
		DepositToAccountID: s.ptr(s.id("1020")),
		Date:               on,
	}, s.userID)
	s.Require().NoError(err)
	return entry
}

func (s *LedgerTestSuite) expense(amount, on string) *domain.JournalEntry {
	entry, err := s.svc.QuickEntry.RecordExpense(s.ctx, s.orgID, dto.RecordExpenseRequest{
		Amount:            money(amount),
		ExpenseAccountID:  s.id("5100"),
		PaidFromAccountID: s.ptr(s.id("1020")),
		Date:              on,
	}, s.userID)
	s.Require().NoError(err)
	return entry
}

// allEntries lists every entry of the organization.
func (s *LedgerTestSuite) allEntries() []domain.JournalEntry {
	entries, _, err := s.store.Journals().ListEntries(s.ctx, domain.JournalFilter{OrganizationID: s.orgID}, 0, nil)
	s.Require().NoError(err)
	return entries
}

// assertLedgerInvariants checks balanced posting and the report equations.
func (s *LedgerTestSuite) assertLedgerInvariants(asOf time.Time) {
	for _, e := range s.allEntries() {
		if e.Status != domain.Posted {
			continue
		}
		debits, credits := e.Totals()
		s.True(debits.Equal(credits), "posted entry %s is unbalanced", e.EntryID)
	}

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.orgID, asOf)
	s.Require().NoError(err)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit), "trial balance %s != %s", tb.TotalDebit, tb.TotalCredit)
	s.True(tb.IsBalanced)

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, s.orgID, asOf)
	s.Require().NoError(err)
	s.True(bs.TotalAssets.Equal(bs.TotalLiabilitiesAndEquity))
	s.True(bs.IsBalanced)
}

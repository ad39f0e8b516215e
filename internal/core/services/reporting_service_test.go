package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	"github.com/onyxpm/onyx_backend/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountTotals(ctx context.Context, organizationID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotals), args.Error(1)
}

func (m *MockReportingRepository) GetAccountLedgerLines(ctx context.Context, organizationID, accountID string, filter domain.LineFilter) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, organizationID, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func totals(id, code, name string, t domain.AccountType, debit, credit string) domain.AccountTotals {
	return domain.AccountTotals{
		AccountID:   id,
		AccountCode: code,
		AccountName: name,
		AccountType: t,
		DebitTotal:  decimal.RequireFromString(debit),
		CreditTotal: decimal.RequireFromString(credit),
	}
}

func TestTrialBalance_OmitsZeroRows(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)
	asOf := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	repo.On("GetAccountTotals", ctx, "org", domain.LineFilter{DateTo: &asOf}).Return([]domain.AccountTotals{
		totals("a", "1020", "Operating Bank", domain.Asset, "200.00", "0"),
		totals("b", "1100", "Accounts Receivable", domain.Asset, "0", "0"),
		totals("c", "4100", "Rental Income", domain.Revenue, "0", "200.00"),
	}, nil).Once()

	report, err := svc.TrialBalance(ctx, "org", asOf)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 2)
	assert.Equal(t, "200.00", domain.FormatMoney(report.TotalDebit))
	assert.True(t, report.IsBalanced)
	repo.AssertExpectations(t)
}

func TestTrialBalance_FlagsCorruption(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	repo.On("GetAccountTotals", ctx, "org", mock.Anything).Return([]domain.AccountTotals{
		totals("a", "1020", "Operating Bank", domain.Asset, "200.00", "0"),
		totals("c", "4100", "Rental Income", domain.Revenue, "0", "199.99"),
	}, nil).Once()

	report, err := svc.TrialBalance(ctx, "org", time.Now())
	require.NoError(t, err)
	assert.False(t, report.IsBalanced)
}

func TestProfitAndLoss_GroupsByName(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	repo.On("GetAccountTotals", ctx, "org", domain.LineFilter{
		DateFrom:     &from,
		DateTo:       &to,
		AccountTypes: []domain.AccountType{domain.Revenue, domain.Expense},
	}).Return([]domain.AccountTotals{
		totals("r1", "4100", "Rental Income", domain.Revenue, "10.00", "510.00"),
		totals("r2", "", "rental income", domain.Revenue, "0", "100.00"),
		totals("e1", "5100", "Repairs & Maintenance", domain.Expense, "75.00", "0"),
		totals("e2", "5200", "Utilities", domain.Expense, "20.00", "20.00"),
	}, nil).Once()

	report, err := svc.ProfitAndLoss(ctx, "org", from, to)
	require.NoError(t, err)
	require.Len(t, report.Income, 1)
	assert.Equal(t, "Rental Income", report.Income[0].Name)
	assert.Equal(t, "600.00", domain.FormatMoney(report.Income[0].Amount))
	require.Len(t, report.Expenses, 1)
	assert.Equal(t, "75.00", domain.FormatMoney(report.TotalExpenses))
	assert.Equal(t, "525.00", domain.FormatMoney(report.NetIncome))
	repo.AssertExpectations(t)
}

func TestProfitAndLoss_RejectsInvertedRange(t *testing.T) {
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	_, err := svc.ProfitAndLoss(context.Background(), "org", time.Now(), time.Now().AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "GetAccountTotals", mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceSheet_Partitions(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)

	repo.On("GetAccountTotals", ctx, "org", mock.Anything).Return([]domain.AccountTotals{
		totals("a", "1020", "Operating Bank", domain.Asset, "1300.00", "100.00"),
		totals("l", "2100", "Security Deposits Held", domain.Liability, "0", "500.00"),
		totals("q", "3000", "Owner's Equity", domain.Equity, "0", "400.00"),
		totals("r", "4100", "Rental Income", domain.Revenue, "0", "400.00"),
		totals("x", "5100", "Repairs & Maintenance", domain.Expense, "100.00", "0"),
	}, nil).Once()

	report, err := svc.BalanceSheet(ctx, "org", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "1200.00", domain.FormatMoney(report.TotalAssets))
	assert.Equal(t, "500.00", domain.FormatMoney(report.TotalLiabilities))
	assert.Equal(t, "400.00", domain.FormatMoney(report.TotalEquity))
	assert.Equal(t, "300.00", domain.FormatMoney(report.NetIncomeYTD))
	assert.Equal(t, "1200.00", domain.FormatMoney(report.TotalLiabilitiesAndEquity))
	assert.True(t, report.IsBalanced)
	assert.Len(t, report.Assets, 1)
	assert.Len(t, report.Liabilities, 1)
	assert.Len(t, report.Equity, 1)
}

func TestBalanceSheet_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	svc := services.NewReportingService(repo)
	dbErr := errors.New("connection reset")

	repo.On("GetAccountTotals", ctx, "org", mock.Anything).Return(nil, dbErr).Once()

	_, err := svc.BalanceSheet(ctx, "org", time.Now())
	assert.ErrorIs(t, err, dbErr)
}

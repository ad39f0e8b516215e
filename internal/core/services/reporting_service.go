package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
)

// reportingService implements the ReportingService interface. Reports are
// recomputed from Posted lines on every call.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository, opts ...ServiceOption) portssvc.ReportingService {
	o := applyOptions(opts)
	return &reportingService{
		BaseService:   BaseService{Clock: o.clock},
		reportingRepo: repo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, organizationID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, organizationID, domain.LineFilter{DateTo: &asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data",
			slog.String("organization_id", organizationID),
			slog.Time("as_of", asOf))
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range totals {
		if t.DebitTotal.IsZero() && t.CreditTotal.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			AccountCode: t.AccountCode,
			AccountName: t.AccountName,
			AccountType: t.AccountType,
			DebitTotal:  t.DebitTotal,
			CreditTotal: t.CreditTotal,
		})
		report.TotalDebit = report.TotalDebit.Add(t.DebitTotal)
		report.TotalCredit = report.TotalCredit.Add(t.CreditTotal)
	}
	report.IsBalanced = domain.RoundMoney(report.TotalDebit).Equal(domain.RoundMoney(report.TotalCredit))
	if !report.IsBalanced {
		s.LogError(ctx, apperrors.ErrUnbalancedEntry, "Trial balance does not balance",
			slog.String("organization_id", organizationID),
			slog.String("total_debit", domain.FormatMoney(report.TotalDebit)),
			slog.String("total_credit", domain.FormatMoney(report.TotalCredit)))
	}
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, organizationID string, from, to time.Time) (*domain.ProfitAndLossReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: date_from must not be after date_to", apperrors.ErrValidation)
	}

	totals, err := s.reportingRepo.GetAccountTotals(ctx, organizationID, domain.LineFilter{
		DateFrom:     &from,
		DateTo:       &to,
		AccountTypes: []domain.AccountType{domain.Revenue, domain.Expense},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to get profit and loss data",
			slog.String("organization_id", organizationID),
			slog.Time("from", from),
			slog.Time("to", to))
		return nil, err
	}

	report := &domain.ProfitAndLossReport{
		DateFrom: from,
		DateTo:   to,
		Income:   groupByName(totals, domain.Revenue),
		Expenses: groupByName(totals, domain.Expense),
	}
	report.TotalIncome = sumLines(report.Income)
	report.TotalExpenses = sumLines(report.Expenses)
	report.NetIncome = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date.
// Revenue and expense balances enter the report only through net income,
// accumulated from the first posting since there are no closing entries.
func (s *reportingService) BalanceSheet(ctx context.Context, organizationID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, organizationID, domain.LineFilter{DateTo: &asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to get balance sheet data",
			slog.String("organization_id", organizationID),
			slog.Time("as_of", asOf))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      accountLines(totals, domain.Asset),
		Liabilities: accountLines(totals, domain.Liability),
		Equity:      accountLines(totals, domain.Equity),
	}
	report.TotalAssets = sumLines(report.Assets)
	report.TotalLiabilities = sumLines(report.Liabilities)
	report.TotalEquity = sumLines(report.Equity)
	report.NetIncomeYTD = sumLines(accountLines(totals, domain.Revenue)).Sub(sumLines(accountLines(totals, domain.Expense)))
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity).Add(report.NetIncomeYTD)
	report.IsBalanced = domain.RoundMoney(report.TotalAssets).Equal(domain.RoundMoney(report.TotalLiabilitiesAndEquity))

	if !report.IsBalanced {
		s.LogError(ctx, apperrors.ErrUnbalancedEntry, "Balance sheet does not balance",
			slog.String("organization_id", organizationID),
			slog.String("total_assets", domain.FormatMoney(report.TotalAssets)),
			slog.String("total_liabilities_and_equity", domain.FormatMoney(report.TotalLiabilitiesAndEquity)))
	}
	return report, nil
}

// accountLines returns one line per account of the given type with a
// non-zero natural balance, keeping the totals' order.
func accountLines(totals []domain.AccountTotals, accountType domain.AccountType) []domain.ReportLine {
	lines := make([]domain.ReportLine, 0)
	for _, t := range totals {
		if t.AccountType != accountType {
			continue
		}
		balance := t.NaturalBalance()
		if balance.IsZero() {
			continue
		}
		lines = append(lines, domain.ReportLine{
			AccountID:   t.AccountID,
			AccountCode: t.AccountCode,
			Name:        t.AccountName,
			Amount:      balance,
		})
	}
	return lines
}

// groupByName merges accounts of one type sharing a name. The first account
// in totals order names the group. Groups netting to zero are omitted.
func groupByName(totals []domain.AccountTotals, accountType domain.AccountType) []domain.ReportLine {
	index := make(map[string]int)
	grouped := make([]domain.ReportLine, 0)
	for _, t := range totals {
		if t.AccountType != accountType {
			continue
		}
		key := domain.NormalizeAccountName(t.AccountName)
		i, ok := index[key]
		if !ok {
			index[key] = len(grouped)
			grouped = append(grouped, domain.ReportLine{
				AccountID:   t.AccountID,
				AccountCode: t.AccountCode,
				Name:        t.AccountName,
				Amount:      t.NaturalBalance(),
			})
			continue
		}
		grouped[i].Amount = grouped[i].Amount.Add(t.NaturalBalance())
	}

	result := grouped[:0]
	for _, l := range grouped {
		if !l.Amount.IsZero() {
			result = append(result, l)
		}
	}
	return result
}

func sumLines(lines []domain.ReportLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

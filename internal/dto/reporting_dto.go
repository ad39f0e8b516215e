package dto

import (
	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string `json:"account_id"`
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	DebitTotal  string `json:"debit_total"`
	CreditTotal string `json:"credit_total"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf        string                    `json:"as_of"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  string                    `json:"total_debit"`
	TotalCredit string                    `json:"total_credit"`
	IsBalanced  bool                      `json:"is_balanced"`
}

// BalanceSheetLineResponse represents an account with its natural balance.
type BalanceSheetLineResponse struct {
	AccountID   string `json:"account_id"`
	AccountCode string `json:"account_code"`
	Name        string `json:"name"`
	Balance     string `json:"balance"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf                      string                     `json:"as_of"`
	Assets                    []BalanceSheetLineResponse `json:"assets"`
	Liabilities               []BalanceSheetLineResponse `json:"liabilities"`
	Equity                    []BalanceSheetLineResponse `json:"equity"`
	TotalAssets               string                     `json:"total_assets"`
	TotalLiabilities          string                     `json:"total_liabilities"`
	TotalEquity               string                     `json:"total_equity"`
	NetIncomeYTD              string                     `json:"net_income_ytd"`
	TotalLiabilitiesAndEquity string                     `json:"total_liabilities_and_equity"`
	IsBalanced                bool                       `json:"is_balanced"`
}

// ProfitAndLossLineResponse is one income or expense category.
type ProfitAndLossLineResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	DateFrom      string                      `json:"date_from"`
	DateTo        string                      `json:"date_to"`
	Income        []ProfitAndLossLineResponse `json:"income"`
	Expenses      []ProfitAndLossLineResponse `json:"expenses"`
	TotalIncome   string                      `json:"total_income"`
	TotalExpenses string                      `json:"total_expenses"`
	NetIncome     string                      `json:"net_income"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:        r.AsOf.Format(domain.DateLayout),
		Rows:        make([]TrialBalanceRowResponse, len(r.Rows)),
		TotalDebit:  domain.FormatMoney(r.TotalDebit),
		TotalCredit: domain.FormatMoney(r.TotalCredit),
		IsBalanced:  r.IsBalanced,
	}
	for i, row := range r.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			DebitTotal:  domain.FormatMoney(row.DebitTotal),
			CreditTotal: domain.FormatMoney(row.CreditTotal),
		}
	}
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:                      r.AsOf.Format(domain.DateLayout),
		Assets:                    toBalanceSheetLines(r.Assets),
		Liabilities:               toBalanceSheetLines(r.Liabilities),
		Equity:                    toBalanceSheetLines(r.Equity),
		TotalAssets:               domain.FormatMoney(r.TotalAssets),
		TotalLiabilities:          domain.FormatMoney(r.TotalLiabilities),
		TotalEquity:               domain.FormatMoney(r.TotalEquity),
		NetIncomeYTD:              domain.FormatMoney(r.NetIncomeYTD),
		TotalLiabilitiesAndEquity: domain.FormatMoney(r.TotalLiabilitiesAndEquity),
		IsBalanced:                r.IsBalanced,
	}
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(r *domain.ProfitAndLossReport) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		DateFrom:      r.DateFrom.Format(domain.DateLayout),
		DateTo:        r.DateTo.Format(domain.DateLayout),
		Income:        toProfitAndLossLines(r.Income),
		Expenses:      toProfitAndLossLines(r.Expenses),
		TotalIncome:   domain.FormatMoney(r.TotalIncome),
		TotalExpenses: domain.FormatMoney(r.TotalExpenses),
		NetIncome:     domain.FormatMoney(r.NetIncome),
	}
}

func toBalanceSheetLines(lines []domain.ReportLine) []BalanceSheetLineResponse {
	res := make([]BalanceSheetLineResponse, len(lines))
	for i, l := range lines {
		res[i] = BalanceSheetLineResponse{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Name:        l.Name,
			Balance:     domain.FormatMoney(l.Amount),
		}
	}
	return res
}

func toProfitAndLossLines(lines []domain.ReportLine) []ProfitAndLossLineResponse {
	res := make([]ProfitAndLossLineResponse, len(lines))
	for i, l := range lines {
		res[i] = ProfitAndLossLineResponse{Category: l.Name, Total: domain.FormatMoney(l.Amount)}
	}
	return res
}

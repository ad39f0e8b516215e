package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineFilter selects the Posted lines that feed a report. Bounds are
// inclusive; nil means unbounded.
type LineFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	AccountTypes []AccountType
	AccountID    *string
}

// AccountTotals is the aggregation of Posted lines for one account.
type AccountTotals struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// NaturalBalance returns the balance in the account type's natural sign.
func (t AccountTotals) NaturalBalance() decimal.Decimal {
	return t.AccountType.NaturalBalance(t.DebitTotal, t.CreditTotal)
}

// TrialBalanceRow is one account line of the trial balance.
type TrialBalanceRow struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// TrialBalanceReport lists debit and credit totals per account as of a date.
type TrialBalanceReport struct {
	AsOf        time.Time
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	IsBalanced  bool
}

// ReportLine is an account (or group of accounts sharing a name) with its
// natural balance.
type ReportLine struct {
	AccountID   string
	AccountCode string
	Name        string
	Amount      decimal.Decimal
}

// BalanceSheetReport partitions natural balances as of a date.
type BalanceSheetReport struct {
	AsOf                      time.Time
	Assets                    []ReportLine
	Liabilities               []ReportLine
	Equity                    []ReportLine
	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquity               decimal.Decimal
	NetIncomeYTD              decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	IsBalanced                bool
}

// ProfitAndLossReport summarizes income and expenses over a date range.
type ProfitAndLossReport struct {
	DateFrom      time.Time
	DateTo        time.Time
	Income        []ReportLine
	Expenses      []ReportLine
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// LedgerLine is a Posted line on one account, joined with its entry header.
type LedgerLine struct {
	EntryID      string
	LineID       string
	EntryDate    time.Time
	Memo         string
	Description  string
	SourceType   string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	CreatedAt    time.Time
	Balance      decimal.Decimal
}

// AccountLedger is the running-balance statement of a single account.
type AccountLedger struct {
	Account        Account
	DateFrom       *time.Time
	DateTo         *time.Time
	OpeningBalance decimal.Decimal
	Lines          []LedgerLine
	ClosingBalance decimal.Decimal
}

package accounting

import (
	"fmt"
	"sort"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns a line's effect on the natural balance of an account.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	return accountType.NaturalBalance(debit, credit), nil
}

// ApplyRunningBalance sets Balance on each line, starting from opening, and
// returns the closing balance. Lines must already be in date order.
func ApplyRunningBalance(opening decimal.Decimal, lines []domain.LedgerLine, accountType domain.AccountType) (decimal.Decimal, error) {
	balance := opening
	for i := range lines {
		signed, err := CalculateSignedAmount(lines[i].DebitAmount, lines[i].CreditAmount, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
		lines[i].Balance = balance
	}
	return balance, nil
}

// SumByAccount aggregates debit and credit columns per account independently.
// The result is ordered by account code, then name, then id.
func SumByAccount(entries []domain.JournalEntry, accounts map[string]domain.Account) []domain.AccountTotals {
	totals := make(map[string]*domain.AccountTotals)
	for _, e := range entries {
		for _, l := range e.Lines {
			t, ok := totals[l.AccountID]
			if !ok {
				acc := accounts[l.AccountID]
				t = &domain.AccountTotals{
					AccountID:   l.AccountID,
					AccountCode: acc.AccountCode,
					AccountName: acc.Name,
					AccountType: acc.AccountType,
					DebitTotal:  decimal.Zero,
					CreditTotal: decimal.Zero,
				}
				totals[l.AccountID] = t
			}
			t.DebitTotal = t.DebitTotal.Add(l.DebitAmount)
			t.CreditTotal = t.CreditTotal.Add(l.CreditAmount)
		}
	}

	result := make([]domain.AccountTotals, 0, len(totals))
	for _, t := range totals {
		result = append(result, *t)
	}
	SortAccountTotals(result)
	return result
}

// SortAccountTotals orders totals by account code, then name, then id.
// Accounts without a code sort after coded ones.
func SortAccountTotals(totals []domain.AccountTotals) {
	sort.SliceStable(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if (a.AccountCode == "") != (b.AccountCode == "") {
			return a.AccountCode != ""
		}
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if a.AccountName != b.AccountName {
			return a.AccountName < b.AccountName
		}
		return a.AccountID < b.AccountID
	})
}

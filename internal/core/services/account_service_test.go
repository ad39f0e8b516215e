package services_test

import (
	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

func (s *LedgerTestSuite) TestSeedChart_Idempotent() {
	again, err := s.svc.Chart.SeedChart(s.ctx, s.orgID, s.userID)
	s.Require().NoError(err)
	s.Len(again, len(domain.DefaultChart()))
	for _, acc := range again {
		s.Equal(s.accounts[acc.AccountCode].AccountID, acc.AccountID)
		s.True(acc.IsSystem)
	}

	listed, err := s.svc.Chart.ListAccounts(s.ctx, s.orgID, dto.ListAccountsParams{})
	s.Require().NoError(err)
	s.Len(listed, len(domain.DefaultChart()))
}

func (s *LedgerTestSuite) TestSeedChart_KeepsExistingAccountByName() {
	org := "org-with-bank"
	existing, err := s.svc.Chart.CreateAccount(s.ctx, org, dto.CreateAccountRequest{Name: "Operating Bank", AccountType: domain.Asset}, s.userID)
	s.Require().NoError(err)

	chart, err := s.svc.Chart.SeedChart(s.ctx, org, s.userID)
	s.Require().NoError(err)

	var found bool
	for _, acc := range chart {
		if acc.AccountID == existing.AccountID {
			found = true
			s.False(acc.IsSystem)
		}
	}
	s.True(found)
	s.Len(chart, len(domain.DefaultChart()))
}

func (s *LedgerTestSuite) TestResolveAccount() {
	acc, err := s.svc.Chart.ResolveAccount(s.ctx, s.orgID, "  rental   INCOME ", domain.Revenue, s.userID)
	s.Require().NoError(err)
	s.Equal(s.id("4100"), acc.AccountID)

	_, err = s.svc.Chart.ResolveAccount(s.ctx, s.orgID, "Rental Income", domain.Expense, s.userID)
	s.ErrorIs(err, apperrors.ErrInvalidAccount)

	created, err := s.svc.Chart.ResolveAccount(s.ctx, s.orgID, "Pest Control", domain.Expense, s.userID)
	s.Require().NoError(err)
	s.False(created.IsSystem)
	s.True(created.IsActive)

	again, err := s.svc.Chart.ResolveAccount(s.ctx, s.orgID, "Pest Control", domain.Expense, s.userID)
	s.Require().NoError(err)
	s.Equal(created.AccountID, again.AccountID)
}

func (s *LedgerTestSuite) TestDeduplicateChart() {
	unused, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "utilities", AccountType: domain.Expense}, s.userID)
	s.Require().NoError(err)
	used, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "UTILITIES ", AccountType: domain.Expense}, s.userID)
	s.Require().NoError(err)
	s.draft("2026-02-14", debit(used.AccountID, "5.00"), credit(s.id("1020"), "5.00"))

	result, err := s.svc.Chart.DeduplicateChart(s.ctx, s.orgID, s.userID)
	s.Require().NoError(err)
	s.Equal(1, result.Removed)
	s.Equal(1, result.Deactivated)

	_, err = s.svc.Chart.GetAccountByID(s.ctx, s.orgID, unused.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	kept, err := s.svc.Chart.GetAccountByID(s.ctx, s.orgID, s.id("5200"))
	s.Require().NoError(err)
	s.True(kept.IsActive)

	deactivated, err := s.svc.Chart.GetAccountByID(s.ctx, s.orgID, used.AccountID)
	s.Require().NoError(err)
	s.False(deactivated.IsActive)

	again, err := s.svc.Chart.DeduplicateChart(s.ctx, s.orgID, s.userID)
	s.Require().NoError(err)
	s.Equal(domain.DedupeResult{}, *again)
}

func (s *LedgerTestSuite) TestCreateAccount_Duplicate() {
	_, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "Operating Bank", AccountType: domain.Asset}, s.userID)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "Savings", AccountCode: "1020", AccountType: domain.Asset}, s.userID)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *LedgerTestSuite) TestDeleteAccount() {
	err := s.svc.Chart.DeleteAccount(s.ctx, s.orgID, s.id("1020"))
	s.ErrorIs(err, apperrors.ErrValidation)

	spare, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "Petty Cash", AccountType: domain.Asset}, s.userID)
	s.Require().NoError(err)
	used, err := s.svc.Chart.CreateAccount(s.ctx, s.orgID, dto.CreateAccountRequest{Name: "Savings", AccountType: domain.Asset}, s.userID)
	s.Require().NoError(err)
	s.draft("2026-02-14", debit(used.AccountID, "5.00"), credit(s.id("1020"), "5.00"))

	s.Require().NoError(s.svc.Chart.DeleteAccount(s.ctx, s.orgID, spare.AccountID))
	s.ErrorIs(s.svc.Chart.DeleteAccount(s.ctx, s.orgID, used.AccountID), apperrors.ErrValidation)
	s.ErrorIs(s.svc.Chart.DeleteAccount(s.ctx, "other-org", used.AccountID), apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestListAccounts_HidesInactive() {
	inactive := false
	_, err := s.svc.Chart.UpdateAccount(s.ctx, s.orgID, s.id("5700"), dto.UpdateAccountRequest{IsActive: &inactive}, s.userID)
	s.Require().NoError(err)

	active, err := s.svc.Chart.ListAccounts(s.ctx, s.orgID, dto.ListAccountsParams{})
	s.Require().NoError(err)
	s.Len(active, len(domain.DefaultChart())-1)

	all, err := s.svc.Chart.ListAccounts(s.ctx, s.orgID, dto.ListAccountsParams{IncludeInactive: true})
	s.Require().NoError(err)
	s.Len(all, len(domain.DefaultChart()))
	s.Equal("1010", all[0].AccountCode)
}

func (s *LedgerTestSuite) TestAccountLedger() {
	s.income("200.00", "2026-02-14")
	s.expense("75.00", "2026-02-20")
	s.income("10.00", "2026-03-05")

	from, to := date("2026-02-15"), date("2026-02-28")
	ledger, err := s.svc.Chart.GetAccountLedger(s.ctx, s.orgID, s.id("1020"), &from, &to)
	s.Require().NoError(err)
	s.Equal("200.00", domain.FormatMoney(ledger.OpeningBalance))
	s.Require().Len(ledger.Lines, 1)
	s.Equal("75.00", domain.FormatMoney(ledger.Lines[0].CreditAmount))
	s.Equal("125.00", domain.FormatMoney(ledger.Lines[0].Balance))
	s.Equal("125.00", domain.FormatMoney(ledger.ClosingBalance))

	revenue, err := s.svc.Chart.GetAccountLedger(s.ctx, s.orgID, s.id("4100"), nil, nil)
	s.Require().NoError(err)
	s.Len(revenue.Lines, 2)
	s.Equal("210.00", domain.FormatMoney(revenue.ClosingBalance))

	_, err = s.svc.Chart.GetAccountLedger(s.ctx, s.orgID, s.id("4100"), &to, &from)
	s.ErrorIs(err, apperrors.ErrValidation)
}

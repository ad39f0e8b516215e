package services_test

import (
	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

func (s *LedgerTestSuite) TestCreatePeriod_Validation() {
	cases := []struct {
		name  string
		req   dto.CreatePeriodRequest
		isErr error
	}{
		{"start after end", dto.CreatePeriodRequest{PeriodStart: "2026-02-10", PeriodEnd: "2026-02-01"}, apperrors.ErrValidation},
		{"spans a year boundary", dto.CreatePeriodRequest{PeriodStart: "2025-12-01", PeriodEnd: "2026-01-31"}, apperrors.ErrValidation},
		{"bad date", dto.CreatePeriodRequest{PeriodStart: "2026-02-30", PeriodEnd: "2026-03-01"}, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, tc.req, s.userID)
			s.ErrorIs(err, tc.isErr)
		})
	}
}

func (s *LedgerTestSuite) TestCreatePeriod_Overlap() {
	_, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28"}, s.userID)
	s.Require().NoError(err)

	_, err = s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-02-28", PeriodEnd: "2026-03-31"}, s.userID)
	s.ErrorIs(err, apperrors.ErrPeriodOverlap)

	_, err = s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-03-01", PeriodEnd: "2026-03-31"}, s.userID)
	s.NoError(err)

	_, err = s.svc.Period.CreatePeriod(s.ctx, "another-org", dto.CreatePeriodRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28"}, s.userID)
	s.NoError(err)

	periods, err := s.svc.Period.ListPeriods(s.ctx, s.orgID)
	s.Require().NoError(err)
	s.Require().Len(periods, 2)
	s.Equal(date("2026-02-01"), periods[0].PeriodStart)
}

func (s *LedgerTestSuite) TestLockUnlock() {
	period, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28"}, s.userID)
	s.Require().NoError(err)
	s.False(period.IsLocked)

	locked, err := s.svc.Period.LockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)
	s.True(locked.IsLocked)
	s.Require().NotNil(locked.LockedBy)
	s.Equal(s.userID, *locked.LockedBy)
	s.Require().NotNil(locked.LockedAt)

	again, err := s.svc.Period.LockPeriod(s.ctx, s.orgID, period.PeriodID, "someone-else")
	s.Require().NoError(err)
	s.Equal(s.userID, *again.LockedBy)

	for _, d := range []string{"2026-02-01", "2026-02-28"} {
		isLocked, err := s.svc.Period.IsDateLocked(s.ctx, s.orgID, date(d))
		s.Require().NoError(err)
		s.True(isLocked, d)
	}
	isLocked, err := s.svc.Period.IsDateLocked(s.ctx, s.orgID, date("2026-03-01"))
	s.Require().NoError(err)
	s.False(isLocked)

	unlocked, err := s.svc.Period.UnlockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)
	s.False(unlocked.IsLocked)
	s.Nil(unlocked.LockedAt)
	s.Nil(unlocked.LockedBy)

	_, err = s.svc.Period.LockPeriod(s.ctx, "another-org", period.PeriodID, s.userID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestLockDoesNotTouchPostedEntries() {
	posted := s.income("30.00", "2026-02-14")
	period, err := s.svc.Period.CreatePeriod(s.ctx, s.orgID, dto.CreatePeriodRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28"}, s.userID)
	s.Require().NoError(err)
	_, err = s.svc.Period.LockPeriod(s.ctx, s.orgID, period.PeriodID, s.userID)
	s.Require().NoError(err)

	reloaded, err := s.svc.Journal.GetEntryByID(s.ctx, s.orgID, posted.EntryID)
	s.Require().NoError(err)
	s.Equal(posted.Status, reloaded.Status)

	_, err = s.svc.QuickEntry.RecordIncome(s.ctx, s.orgID, dto.RecordIncomeRequest{
		Amount:           money("5.00"),
		RevenueAccountID: s.id("4100"),
		Date:             "2026-02-28",
	}, s.userID)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)
}

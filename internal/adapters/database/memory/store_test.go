package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
)

func testAccount(id, org, name, code string, t domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:      id,
		OrganizationID: org,
		Name:           name,
		AccountCode:    code,
		AccountType:    t,
		IsActive:       true,
	}
}

func testEntry(id, org string, day int, status domain.JournalStatus, sourceID *string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:        id,
		OrganizationID: org,
		EntryDate:      time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC),
		Status:         status,
		SourceType:     domain.SourceRentPayment,
		SourceID:       sourceID,
		Lines: []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, LineNo: 1, AccountID: "cash", DebitAmount: decimal.NewFromInt(10), CreditAmount: decimal.Zero},
			{LineID: id + "-2", EntryID: id, LineNo: 2, AccountID: "rent", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(10)},
		},
	}
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Accounts().SaveAccount(ctx, testAccount("cash", "org", "Operating Bank", "1020", domain.Asset)))
	require.NoError(t, s.Accounts().SaveAccount(ctx, testAccount("rent", "org", "Rental Income", "4100", domain.Revenue)))
	return s
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		require.NoError(t, tx.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, nil)))
		_, err := tx.Journals().FindEntryByID(ctx, "e1")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Journals().FindEntryByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
			require.NoError(t, tx.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, nil)))
			panic("handler bug")
		})
	})

	_, err := s.Journals().FindEntryByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The store is still usable.
	assert.NoError(t, s.Journals().SaveEntry(ctx, testEntry("e2", "org", 1, domain.Posted, nil)))
}

func TestWithTx_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.WithTx(ctx, func(ctx context.Context, tx portsrepo.Repositories) error {
		require.NoError(t, tx.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, nil)))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Journals().FindEntryByID(context.Background(), "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveEntry_SourceIsUnique(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	src := "pay-1"

	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, &src)))
	err := s.Journals().SaveEntry(ctx, testEntry("e2", "org", 1, domain.Posted, &src))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := s.Journals().FindEntryBySource(ctx, "org", domain.SourceRentPayment, src)
	require.NoError(t, err)
	assert.Equal(t, "e1", found.EntryID)
}

func TestSaveEntry_UnknownAccount(t *testing.T) {
	s := seeded(t)
	e := testEntry("e1", "org", 1, domain.Draft, nil)
	e.Lines[0].AccountID = "missing"
	assert.ErrorIs(t, s.Journals().SaveEntry(context.Background(), e), apperrors.ErrValidation)
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, nil)))

	found, err := s.Journals().FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	found.Lines[0].DebitAmount = decimal.NewFromInt(999)

	again, err := s.Journals().FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, again.Lines[0].DebitAmount.Equal(decimal.NewFromInt(10)))
}

func TestUpdateEntryStatus_ExpectsFromStatus(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Posted, nil)))

	err := s.Journals().UpdateEntryStatus(ctx, domain.StatusChange{EntryID: "e1", From: domain.Draft, To: domain.Voided})
	assert.ErrorIs(t, err, apperrors.ErrWrongStatus)

	err = s.Journals().UpdateEntryStatus(ctx, domain.StatusChange{EntryID: "missing", From: domain.Draft, To: domain.Voided})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, s.Journals().DeleteDraftEntry(ctx, "e1"), apperrors.ErrWrongStatus)
	assert.ErrorIs(t, s.Journals().ReplaceDraft(ctx, testEntry("e1", "org", 2, domain.Draft, nil)), apperrors.ErrWrongStatus)
}

func TestListEntries_Paginates(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	for day, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Journals().SaveEntry(ctx, testEntry(id, "org", day+1, domain.Posted, nil)))
	}
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("other", "org2", 1, domain.Posted, nil)))

	filter := domain.JournalFilter{OrganizationID: "org"}
	var seen []string
	var token *string
	for {
		page, next, err := s.Journals().ListEntries(ctx, filter, 2, token)
		require.NoError(t, err)
		for _, e := range page {
			seen = append(seen, e.EntryID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, seen)

	bad := "!!"
	_, _, err := s.Journals().ListEntries(ctx, filter, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListEntries_Filters(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("draft", "org", 1, domain.Draft, nil)))
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("posted", "org", 10, domain.Posted, nil)))

	posted := domain.Posted
	from := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	cash := "cash"

	got, _, err := s.Journals().ListEntries(ctx, domain.JournalFilter{OrganizationID: "org", Status: &posted}, 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "posted", got[0].EntryID)

	got, _, err = s.Journals().ListEntries(ctx, domain.JournalFilter{OrganizationID: "org", DateFrom: &from, AccountID: &cash}, 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "posted", got[0].EntryID)
}

func TestReporting_IgnoresDraftsAndVoids(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("p", "org", 1, domain.Posted, nil)))
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("d", "org", 1, domain.Draft, nil)))
	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("v", "org", 1, domain.Voided, nil)))

	totals, err := s.Reporting().GetAccountTotals(ctx, "org", domain.LineFilter{})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "1020", totals[0].AccountCode)
	assert.True(t, totals[0].DebitTotal.Equal(decimal.NewFromInt(10)))

	revenueOnly, err := s.Reporting().GetAccountTotals(ctx, "org", domain.LineFilter{AccountTypes: []domain.AccountType{domain.Revenue}})
	require.NoError(t, err)
	require.Len(t, revenueOnly, 1)
	assert.Equal(t, "rent", revenueOnly[0].AccountID)

	lines, err := s.Reporting().GetAccountLedgerLines(ctx, "org", "cash", domain.LineFilter{})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAccounts_UniqueNameAndCode(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Accounts().SaveAccount(ctx, testAccount("x", "org", "Operating Bank", "", domain.Asset))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	err = s.Accounts().SaveAccount(ctx, testAccount("y", "org", "Savings", "1020", domain.Asset))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NoError(t, s.Accounts().SaveAccount(ctx, testAccount("z", "org2", "Operating Bank", "1020", domain.Asset)))

	found, err := s.Accounts().FindAccountByName(ctx, "org", "operating  bank")
	require.NoError(t, err)
	assert.Equal(t, "cash", found.AccountID)

	require.NoError(t, s.Journals().SaveEntry(ctx, testEntry("e1", "org", 1, domain.Draft, nil)))
	assert.ErrorIs(t, s.Accounts().DeleteAccounts(ctx, []string{"cash"}), apperrors.ErrValidation)
	require.NoError(t, s.Accounts().DeleteAccounts(ctx, []string{"z"}))
	_, err = s.Accounts().FindAccountByID(ctx, "z")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

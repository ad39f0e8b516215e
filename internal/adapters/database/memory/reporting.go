package memory

import (
	"context"
	"sort"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/utils/accounting"
)

func (v *view) GetAccountTotals(_ context.Context, organizationID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	st := v.read()
	entries := make([]domain.JournalEntry, 0)
	for _, e := range st.entries {
		if !postedInRange(e, organizationID, filter) {
			continue
		}
		kept := make([]domain.JournalLine, 0, len(e.Lines))
		for _, l := range e.Lines {
			if lineMatches(st, l, filter) {
				kept = append(kept, l)
			}
		}
		e.Lines = kept
		entries = append(entries, e)
	}
	return accounting.SumByAccount(entries, st.accounts), nil
}

func (v *view) GetAccountLedgerLines(_ context.Context, organizationID, accountID string, filter domain.LineFilter) ([]domain.LedgerLine, error) {
	type keyed struct {
		line   domain.LedgerLine
		lineNo int
	}
	var collected []keyed
	for _, e := range v.read().entries {
		if !postedInRange(e, organizationID, filter) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			collected = append(collected, keyed{
				lineNo: l.LineNo,
				line: domain.LedgerLine{
					EntryID:      e.EntryID,
					LineID:       l.LineID,
					EntryDate:    e.EntryDate,
					Memo:         e.Memo,
					Description:  l.Description,
					SourceType:   e.SourceType,
					DebitAmount:  l.DebitAmount,
					CreditAmount: l.CreditAmount,
					CreatedAt:    e.CreatedAt,
				},
			})
		}
	}
	sort.Slice(collected, func(i, j int) bool {
		a, b := collected[i], collected[j]
		if !a.line.EntryDate.Equal(b.line.EntryDate) {
			return a.line.EntryDate.Before(b.line.EntryDate)
		}
		if !a.line.CreatedAt.Equal(b.line.CreatedAt) {
			return a.line.CreatedAt.Before(b.line.CreatedAt)
		}
		if a.line.EntryID != b.line.EntryID {
			return a.line.EntryID < b.line.EntryID
		}
		return a.lineNo < b.lineNo
	})

	lines := make([]domain.LedgerLine, len(collected))
	for i, k := range collected {
		lines[i] = k.line
	}
	return lines, nil
}

func postedInRange(e domain.JournalEntry, organizationID string, filter domain.LineFilter) bool {
	if e.OrganizationID != organizationID || !e.Status.InLedger() {
		return false
	}
	if filter.DateFrom != nil && e.EntryDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && e.EntryDate.After(*filter.DateTo) {
		return false
	}
	return true
}

func lineMatches(st *state, l domain.JournalLine, filter domain.LineFilter) bool {
	if filter.AccountID != nil && l.AccountID != *filter.AccountID {
		return false
	}
	if len(filter.AccountTypes) == 0 {
		return true
	}
	acc := st.accounts[l.AccountID]
	for _, t := range filter.AccountTypes {
		if acc.AccountType == t {
			return true
		}
	}
	return false
}

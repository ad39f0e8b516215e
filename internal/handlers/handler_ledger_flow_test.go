package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/onyxpm/onyx_backend/internal/adapters/database/memory"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/core/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
	"github.com/onyxpm/onyx_backend/internal/handlers"
)

// LedgerFlowTestSuite drives the HTTP surface against real services backed
// by the in-memory store.
type LedgerFlowTestSuite struct {
	suite.Suite
	router   *gin.Engine
	token    string
	accounts map[string]string
}

func (s *LedgerFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	cfg := testConfig()
	svc := services.NewServiceContainer(cfg, memory.NewStore(), services.WithClock(func() time.Time { return now }))

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, svc)
	s.token = generateTestToken(s.T(), uuid.NewString(), uuid.NewString())

	w := s.do(http.MethodPost, "/accounting/accounts/seed/", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var chart dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &chart))
	s.accounts = make(map[string]string, len(chart.Accounts))
	for _, acc := range chart.Accounts {
		s.accounts[acc.AccountCode] = acc.AccountID
	}
}

func (s *LedgerFlowTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *LedgerFlowTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *LedgerFlowTestSuite) recordIncome(amount, on string) dto.JournalEntryResponse {
	body := `{"amount":"` + amount + `","revenue_account_id":"` + s.accounts["4100"] +
		`","deposit_to_account_id":"` + s.accounts["1020"] + `","date":"` + on + `"}`
	w := s.do(http.MethodPost, "/accounting/record-income/", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var env dto.JournalEntryEnvelope
	s.decode(w, &env)
	return env.JournalEntry
}

func (s *LedgerFlowTestSuite) TestRecordIncome_ShowsInTrialBalance() {
	entry := s.recordIncome("1500", "2026-03-01")
	s.Equal(domain.Posted, entry.Status)
	s.Equal("1500.00", entry.TotalDebit)
	s.Len(entry.Lines, 2)

	w := s.do(http.MethodGet, "/accounting/reports/trial-balance/?as_of=2026-03-31", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var tb dto.TrialBalanceResponse
	s.decode(w, &tb)
	s.True(tb.IsBalanced)
	s.Equal("1500.00", tb.TotalDebit)
	s.Equal("1500.00", tb.TotalCredit)
}

func (s *LedgerFlowTestSuite) TestCreateEntry_UnbalancedRejected() {
	body := `{"entry_date":"2026-03-02","status":"POSTED","lines":[` +
		`{"account_id":"` + s.accounts["5200"] + `","debit_amount":"100.00","credit_amount":"0"},` +
		`{"account_id":"` + s.accounts["1020"] + `","debit_amount":"0","credit_amount":"90.00"}]}`

	w := s.do(http.MethodPost, "/accounting/journal-entries/", body)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "unbalanced")
}

func (s *LedgerFlowTestSuite) TestDraftLifecycle() {
	body := `{"entry_date":"2026-03-03","memo":"water bill","lines":[` +
		`{"account_id":"` + s.accounts["5200"] + `","debit_amount":"80","credit_amount":"0"},` +
		`{"account_id":"` + s.accounts["1020"] + `","debit_amount":"0","credit_amount":"80"}]}`
	w := s.do(http.MethodPost, "/accounting/journal-entries/", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.JournalEntryEnvelope
	s.decode(w, &created)
	s.Equal(domain.Draft, created.JournalEntry.Status)
	entryID := created.JournalEntry.EntryID

	w = s.do(http.MethodPost, "/accounting/journal-entries/"+entryID+"/post/", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, "/accounting/journal-entries/"+entryID+"/", "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/accounting/journal-entries/?status=POSTED", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListJournalEntriesResponse
	s.decode(w, &list)
	s.Len(list.JournalEntries, 1)
	s.Nil(list.NextToken)
}

func (s *LedgerFlowTestSuite) TestLockedPeriodRejectsPosting() {
	w := s.do(http.MethodPost, "/accounting/periods/", `{"period_start":"2026-02-01","period_end":"2026-02-28"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var period dto.PeriodResponse
	s.decode(w, &period)

	w = s.do(http.MethodPost, "/accounting/periods/"+period.PeriodID+"/lock/", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/accounting/periods/locked?date=2026-02-14", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"date":"2026-02-14","is_locked":true}`, w.Body.String())

	body := `{"amount":"200","revenue_account_id":"` + s.accounts["4100"] + `","date":"2026-02-10"}`
	w = s.do(http.MethodPost, "/accounting/record-income/", body)
	s.Equal(http.StatusBadRequest, w.Code)
	var errBody map[string]string
	s.decode(w, &errBody)
	s.Equal("2026-02-01", errBody["period_start"])
	s.Equal("2026-02-28", errBody["period_end"])

	w = s.do(http.MethodPost, "/accounting/periods/", `{"period_start":"2026-02-15","period_end":"2026-03-15"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LedgerFlowTestSuite) TestRentHookIsIdempotent() {
	body := `{"payment_id":"pay-42","amount":"1200.00","payment_date":"2026-03-05","tenant_name":"A. Tenant"}`

	w := s.do(http.MethodPost, "/accounting/hooks/rent-payment/", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var first dto.HookResponse
	s.decode(w, &first)
	s.True(first.Created)

	w = s.do(http.MethodPost, "/accounting/hooks/rent-payment/", body)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.HookResponse
	s.decode(w, &second)
	s.False(second.Created)
	s.Equal(first.JournalEntry.EntryID, second.JournalEntry.EntryID)
}

func (s *LedgerFlowTestSuite) TestReverseEntry() {
	entry := s.recordIncome("300", "2026-03-01")

	w := s.do(http.MethodPost, "/accounting/journal-entries/"+entry.EntryID+"/reverse/", `{"reversal_date":"2026-03-10"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal dto.JournalEntryEnvelope
	s.decode(w, &reversal)
	s.Equal("reversal", reversal.JournalEntry.SourceType)
	s.Equal("2026-03-10", reversal.JournalEntry.EntryDate)

	w = s.do(http.MethodGet, "/accounting/journal-entries/"+entry.EntryID+"/", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var original dto.JournalEntryEnvelope
	s.decode(w, &original)
	s.Equal(domain.Reversed, original.JournalEntry.Status)
	s.Require().NotNil(original.JournalEntry.ReversedByEntryID)
	s.Equal(reversal.JournalEntry.EntryID, *original.JournalEntry.ReversedByEntryID)

	w = s.do(http.MethodPost, "/accounting/journal-entries/"+entry.EntryID+"/reverse/", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LedgerFlowTestSuite) TestProfitAndLoss() {
	s.recordIncome("1000", "2026-03-01")

	w := s.do(http.MethodGet, "/accounting/pnl/?date_from=2026-03-01", "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/accounting/pnl/?date_from=2026-03-01&date_to=2026-03-31", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var pnl dto.ProfitAndLossResponse
	s.decode(w, &pnl)
	s.Equal("1000.00", pnl.TotalIncome)
	s.Equal("1000.00", pnl.NetIncome)
}

func (s *LedgerFlowTestSuite) TestValidationErrors() {
	tests := []struct {
		name string
		url  string
		body string
	}{
		{"negative income", "/accounting/record-income/", `{"amount":"-5","revenue_account_id":"` + s.accounts["4100"] + `","date":"2026-03-01"}`},
		{"missing amount", "/accounting/record-expense/", `{"expense_account_id":"` + s.accounts["5200"] + `","date":"2026-03-01"}`},
		{"bad date", "/accounting/record-income/", `{"amount":"5","revenue_account_id":"` + s.accounts["4100"] + `","date":"03/01/2026"}`},
		{"same transfer accounts", "/accounting/record-transfer/", `{"amount":"5","from_account_id":"` + s.accounts["1020"] + `","to_account_id":"` + s.accounts["1020"] + `","date":"2026-03-01"}`},
		{"income too large to store", "/accounting/record-income/", `{"amount":"10000000000000","revenue_account_id":"` + s.accounts["4100"] + `","date":"2026-03-01"}`},
		{"line too large to store", "/accounting/journal-entries/", `{"entry_date":"2026-03-01","lines":[` +
			`{"account_id":"` + s.accounts["1020"] + `","debit_amount":"10000000000000","credit_amount":"0"},` +
			`{"account_id":"` + s.accounts["4100"] + `","debit_amount":"0","credit_amount":"10000000000000"}]}`},
		{"transfer to revenue", "/accounting/record-transfer/", `{"amount":"5","from_account_id":"` + s.accounts["1020"] + `","to_account_id":"` + s.accounts["4100"] + `","date":"2026-03-01"}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, tt.url, tt.body)
			s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestLedgerFlow(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}

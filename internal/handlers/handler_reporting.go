package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance/", h.getTrialBalance)
		reportingGroup.GET("/balance-sheet/", h.getBalanceSheet)
	}
	rg.GET("/pnl/", h.getProfitAndLoss)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Sums debits and credits per account over posted lines dated on or before as_of
// @Tags reports
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /accounting/reports/trial-balance/ [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	asOf, err := queryDate(c, "as_of")
	if err != nil {
		respondWithError(c, logger, err, "generate trial balance report")
		return
	}
	if asOf == nil {
		d := today()
		asOf = &d
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), orgID, *asOf)
	if err != nil {
		respondWithError(c, logger, err, "generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Partitions natural balances into assets, liabilities and equity as of a date
// @Tags reports
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /accounting/reports/balance-sheet/ [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	asOf, err := queryDate(c, "as_of")
	if err != nil {
		respondWithError(c, logger, err, "generate balance sheet report")
		return
	}
	if asOf == nil {
		d := today()
		asOf = &d
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), orgID, *asOf)
	if err != nil {
		respondWithError(c, logger, err, "generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Sums income and expenses by category over posted lines in [date_from, date_to]
// @Tags reports
// @Produce json
// @Param date_from query string true "Start date (YYYY-MM-DD)"
// @Param date_to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /accounting/pnl/ [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	from, err := queryDate(c, "date_from")
	if err != nil {
		respondWithError(c, logger, err, "generate profit and loss report")
		return
	}
	to, err := queryDate(c, "date_to")
	if err != nil {
		respondWithError(c, logger, err, "generate profit and loss report")
		return
	}
	if from == nil || to == nil {
		respondWithError(c, logger, fmt.Errorf("%w: date_from and date_to are required", apperrors.ErrValidation), "generate profit and loss report")
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), orgID, *from, *to)
	if err != nil {
		respondWithError(c, logger, err, "generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// quickEntryHandler handles the one-step income, expense and transfer routes.
type quickEntryHandler struct {
	quickEntryService portssvc.QuickEntrySvc
}

func newQuickEntryHandler(qs portssvc.QuickEntrySvc) *quickEntryHandler {
	return &quickEntryHandler{quickEntryService: qs}
}

func registerQuickEntryRoutes(rg *gin.RouterGroup, quickEntryService portssvc.QuickEntrySvc) {
	h := newQuickEntryHandler(quickEntryService)

	rg.POST("/record-income/", h.recordIncome)
	rg.POST("/record-expense/", h.recordExpense)
	rg.POST("/record-transfer/", h.recordTransfer)
}

// recordIncome godoc
// @Summary Record income
// @Description Posts an entry debiting the deposit account and crediting revenue
// @Tags quick-entries
// @Accept  json
// @Produce  json
// @Param   income body dto.RecordIncomeRequest true "Income details"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Invalid account or amount"
// @Failure 500 {object} map[string]string "Failed to record income"
// @Security BearerAuth
// @Router /accounting/record-income/ [post]
func (h *quickEntryHandler) recordIncome(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.RecordIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "record income")
		return
	}

	entry, err := h.quickEntryService.RecordIncome(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "record income")
		return
	}

	logger.Info("Income recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.NewJournalEntryEnvelope(entry))
}

// recordExpense godoc
// @Summary Record an expense
// @Description Posts an entry debiting the expense and crediting the paying account
// @Tags quick-entries
// @Accept  json
// @Produce  json
// @Param   expense body dto.RecordExpenseRequest true "Expense details"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Invalid account or amount"
// @Failure 500 {object} map[string]string "Failed to record expense"
// @Security BearerAuth
// @Router /accounting/record-expense/ [post]
func (h *quickEntryHandler) recordExpense(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "record expense")
		return
	}

	entry, err := h.quickEntryService.RecordExpense(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "record expense")
		return
	}

	logger.Info("Expense recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.NewJournalEntryEnvelope(entry))
}

// recordTransfer godoc
// @Summary Record a transfer
// @Description Posts an entry moving money between two asset accounts
// @Tags quick-entries
// @Accept  json
// @Produce  json
// @Param   transfer body dto.RecordTransferRequest true "Transfer details"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Invalid account or amount"
// @Failure 500 {object} map[string]string "Failed to record transfer"
// @Security BearerAuth
// @Router /accounting/record-transfer/ [post]
func (h *quickEntryHandler) recordTransfer(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.RecordTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "record transfer")
		return
	}

	entry, err := h.quickEntryService.RecordTransfer(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "record transfer")
		return
	}

	logger.Info("Transfer recorded", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.NewJournalEntryEnvelope(entry))
}

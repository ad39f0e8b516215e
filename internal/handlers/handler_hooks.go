package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// hookHandler exposes the ledger hooks to the payments, bills and import modules.
type hookHandler struct {
	hookService portssvc.HookSvc
}

func newHookHandler(hs portssvc.HookSvc) *hookHandler {
	return &hookHandler{hookService: hs}
}

func registerHookRoutes(rg *gin.RouterGroup, hookService portssvc.HookSvc) {
	h := newHookHandler(hookService)

	hooks := rg.Group("/hooks")
	{
		hooks.POST("/rent-payment/", h.rentPayment)
		hooks.POST("/bill-payment/", h.billPayment)
		hooks.POST("/import-batch/", h.importBatch)
	}
}

// hookStatus is 201 for a new entry and 200 when the source was already recorded.
func hookStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// rentPayment godoc
// @Summary Record a rent payment
// @Description Posts Dr cash / Cr Rental Income for a completed payment. Idempotent on payment_id.
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   event body dto.RentPaymentEvent true "Rent payment"
// @Success 201 {object} dto.HookResponse "Entry created"
// @Success 200 {object} dto.HookResponse "Payment already recorded"
// @Failure 400 {object} map[string]string "Invalid event or locked period"
// @Failure 500 {object} map[string]string "Failed to record rent payment"
// @Security BearerAuth
// @Router /accounting/hooks/rent-payment/ [post]
func (h *hookHandler) rentPayment(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var event dto.RentPaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respondBindError(c, logger, err, "record rent payment")
		return
	}

	entry, created, err := h.hookService.RecordRentPayment(c.Request.Context(), orgID, event, userID)
	if err != nil {
		respondWithError(c, logger, err, "record rent payment")
		return
	}

	logger.Info("Rent payment hook handled", slog.String("payment_id", event.PaymentID), slog.Bool("created", created))
	c.JSON(hookStatus(created), dto.HookResponse{JournalEntry: dto.ToJournalEntryResponse(entry), Created: created})
}

// billPayment godoc
// @Summary Record a bill payment
// @Description Posts Dr expense / Cr cash for a bill payment. Idempotent on bill_payment_id.
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   event body dto.BillPaymentEvent true "Bill payment"
// @Success 201 {object} dto.HookResponse "Entry created"
// @Success 200 {object} dto.HookResponse "Payment already recorded"
// @Failure 400 {object} map[string]string "Invalid event or locked period"
// @Failure 500 {object} map[string]string "Failed to record bill payment"
// @Security BearerAuth
// @Router /accounting/hooks/bill-payment/ [post]
func (h *hookHandler) billPayment(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var event dto.BillPaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respondBindError(c, logger, err, "record bill payment")
		return
	}

	entry, created, err := h.hookService.RecordBillPayment(c.Request.Context(), orgID, event, userID)
	if err != nil {
		respondWithError(c, logger, err, "record bill payment")
		return
	}

	logger.Info("Bill payment hook handled", slog.String("bill_payment_id", event.BillPaymentID), slog.Bool("created", created))
	c.JSON(hookStatus(created), dto.HookResponse{JournalEntry: dto.ToJournalEntryResponse(entry), Created: created})
}

// importBatch godoc
// @Summary Post an imported statement batch
// @Description Posts one entry per categorized row against the bank account, all or nothing. Rows already imported are skipped.
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   batch body dto.ImportBatchRequest true "Categorized rows"
// @Success 200 {object} dto.ImportBatchResponse
// @Failure 400 {object} map[string]string "Invalid row or account"
// @Failure 500 {object} map[string]string "Failed to import batch"
// @Security BearerAuth
// @Router /accounting/hooks/import-batch/ [post]
func (h *hookHandler) importBatch(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ImportBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "import batch")
		return
	}

	result, err := h.hookService.RecordImportedBatch(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "import batch")
		return
	}

	logger.Info("Import batch handled", slog.Int("created", result.Created), slog.Int("duplicates", result.Duplicates))
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// periodHandler handles HTTP requests for accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvc
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(ps portssvc.PeriodSvc) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to accounting periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvc) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("/", h.createPeriod)
		periods.GET("/", h.listPeriods)
		periods.GET("/locked", h.isDateLocked)
		periods.GET("/:id/", h.getPeriod)
		periods.POST("/:id/lock/", h.lockPeriod)
		periods.POST("/:id/unlock/", h.unlockPeriod)
	}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Creates an unlocked period; periods of an organization may not overlap
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Inclusive date range"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid range or overlap"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Security BearerAuth
// @Router /accounting/periods/ [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "create period")
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create period")
		return
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Success 200 {object} dto.ListPeriodsResponse
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /accounting/periods/ [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), orgID)
	if err != nil {
		respondWithError(c, logger, err, "list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// isDateLocked godoc
// @Summary Check a date against locked periods
// @Tags periods
// @Produce  json
// @Param   date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.DateLockedResponse
// @Failure 400 {object} map[string]string "Missing or invalid date"
// @Failure 500 {object} map[string]string "Failed to check date"
// @Security BearerAuth
// @Router /accounting/periods/locked [get]
func (h *periodHandler) isDateLocked(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	locked, err := h.periodService.IsDateLocked(c.Request.Context(), orgID, date)
	if err != nil {
		respondWithError(c, logger, err, "check date")
		return
	}
	c.JSON(http.StatusOK, dto.DateLockedResponse{Date: date.Format(domain.DateLayout), IsLocked: locked})
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve period"
// @Security BearerAuth
// @Router /accounting/periods/{id}/ [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// lockPeriod godoc
// @Summary Lock an accounting period
// @Description Blocks new postings dated inside the period. Locking a locked period is a no-op.
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to lock period"
// @Security BearerAuth
// @Router /accounting/periods/{id}/lock/ [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	period, err := h.periodService.LockPeriod(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "lock period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// unlockPeriod godoc
// @Summary Unlock an accounting period
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to unlock period"
// @Security BearerAuth
// @Router /accounting/periods/{id}/unlock/ [post]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	period, err := h.periodService.UnlockPeriod(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "unlock period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers journal entry routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("/", h.createEntry)
		entries.GET("/", h.listEntries)
		entries.GET("/:id/", h.getEntry)
		entries.PUT("/:id/", h.updateDraft)
		entries.DELETE("/:id/", h.deleteDraft)
		entries.POST("/:id/post/", h.postEntry)
		entries.POST("/:id/reverse/", h.reverseEntry)
		entries.POST("/:id/void/", h.voidEntry)
	}
}

// createEntry godoc
// @Summary Create a manual journal entry
// @Description Records a manual entry as a Draft, or directly as Posted when status is POSTED
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with its lines"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Invalid entry, unbalanced or locked period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/ [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "create journal entry")
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.NewJournalEntryEnvelope(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with optional filters and cursor pagination
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "DRAFT, POSTED, REVERSED or VOIDED"
// @Param   source_type query string false "Source type"
// @Param   source_id query string false "Source ID"
// @Param   account_id query string false "Entries touching this account"
// @Param   date_from query string false "Start date (YYYY-MM-DD)"
// @Param   date_to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /accounting/journal-entries/ [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "list journal entries")
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), orgID, params)
	if err != nil {
		respondWithError(c, logger, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryEnvelope
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/ [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.NewJournalEntryEnvelope(entry))
}

// updateDraft godoc
// @Summary Replace a draft
// @Description Replaces the date, memo and lines of a Draft entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "New content"
// @Success 200 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Invalid entry or not a draft"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/ [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "update journal entry")
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), orgID, c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.NewJournalEntryEnvelope(entry))
}

// deleteDraft godoc
// @Summary Delete a draft
// @Tags journal-entries
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Not a draft"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/ [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraft(c.Request.Context(), orgID, c.Param("id"), userID); err != nil {
		respondWithError(c, logger, err, "delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft
// @Description Moves a Draft to Posted after checking balance, accounts and period locks
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Unbalanced, invalid account, locked period or wrong status"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/post/ [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.NewJournalEntryEnvelope(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts a mirror entry (today unless reversal_date is given) and marks the original Reversed
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional reversal date"
// @Success 201 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Wrong status or locked period"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/reverse/ [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, logger, err, "reverse journal entry")
		return
	}

	var reversalDate *time.Time
	if req.ReversalDate != nil {
		d, err := domain.ParseDate(*req.ReversalDate)
		if err != nil {
			respondBindError(c, logger, err, "reverse journal entry")
			return
		}
		reversalDate = &d
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), orgID, c.Param("id"), reversalDate, userID)
	if err != nil {
		respondWithError(c, logger, err, "reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", c.Param("id")), slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.NewJournalEntryEnvelope(reversal))
}

// voidEntry godoc
// @Summary Void a draft
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryEnvelope
// @Failure 400 {object} map[string]string "Not a draft"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to void journal entry"
// @Security BearerAuth
// @Router /accounting/journal-entries/{id}/void/ [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	entry, err := h.journalService.VoidEntry(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "void journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.NewJournalEntryEnvelope(entry))
}

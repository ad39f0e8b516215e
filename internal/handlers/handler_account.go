package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(cs portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{
		chartService: cs,
	}
}

// registerAccountRoutes registers routes related to the chart of accounts.
func registerAccountRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newAccountHandler(chartService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/", h.listAccounts)
		accounts.POST("/", h.createAccount)
		accounts.POST("/seed/", h.seedChart)
		accounts.POST("/deduplicate/", h.deduplicateChart)
		accounts.GET("/:id/", h.getAccount)
		accounts.PATCH("/:id/", h.updateAccount)
		accounts.DELETE("/:id/", h.deleteAccount)
		accounts.GET("/:id/ledger/", h.getAccountLedger)
	}
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Lists the organization's accounts ordered by code, then name
// @Tags accounts
// @Produce  json
// @Param   include_inactive query bool false "Include inactive accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounting/accounts/ [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "list accounts")
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), orgID, params)
	if err != nil {
		respondWithError(c, logger, err, "list accounts")
		return
	}

	logger.Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// createAccount godoc
// @Summary Create an account
// @Description Creates a non-system account in the organization's chart
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Name or code already used"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounting/accounts/ [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "create account")
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name))
	account, err := h.chartService.CreateAccount(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// seedChart godoc
// @Summary Seed the default chart
// @Description Idempotently creates the system chart of accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to seed chart"
// @Security BearerAuth
// @Router /accounting/accounts/seed/ [post]
func (h *accountHandler) seedChart(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	accounts, err := h.chartService.SeedChart(c.Request.Context(), orgID, userID)
	if err != nil {
		respondWithError(c, logger, err, "seed chart")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// deduplicateChart godoc
// @Summary Deduplicate the chart
// @Description Keeps one account per normalized name; unused duplicates are deleted, used ones deactivated
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.DeduplicateChartResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to deduplicate chart"
// @Security BearerAuth
// @Router /accounting/accounts/deduplicate/ [post]
func (h *accountHandler) deduplicateChart(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	result, err := h.chartService.DeduplicateChart(c.Request.Context(), orgID, userID)
	if err != nil {
		respondWithError(c, logger, err, "deduplicate chart")
		return
	}
	c.JSON(http.StatusOK, dto.DeduplicateChartResponse{Removed: result.Removed, Deactivated: result.Deactivated})
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounting/accounts/{id}/ [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.chartService.GetAccountByID(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates the name, code or active flag of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Name or code already used"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounting/accounts/{id}/ [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	orgID, userID, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "update account")
		return
	}

	account, err := h.chartService.UpdateAccount(c.Request.Context(), orgID, c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes a non-system account that no journal line references
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "System or referenced account"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /accounting/accounts/{id}/ [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	accountID := c.Param("id")
	if err := h.chartService.DeleteAccount(c.Request.Context(), orgID, accountID); err != nil {
		respondWithError(c, logger, err, "delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountLedger godoc
// @Summary Account ledger
// @Description Lists posted lines on an account with a running balance in the account's natural sign
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   date_from query string false "Start date (YYYY-MM-DD)"
// @Param   date_to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build account ledger"
// @Security BearerAuth
// @Router /accounting/accounts/{id}/ledger/ [get]
func (h *accountHandler) getAccountLedger(c *gin.Context) {
	orgID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.AccountLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "build account ledger")
		return
	}
	from, err := queryDate(c, "date_from")
	if err != nil {
		respondWithError(c, logger, err, "build account ledger")
		return
	}
	to, err := queryDate(c, "date_to")
	if err != nil {
		respondWithError(c, logger, err, "build account ledger")
		return
	}

	ledger, err := h.chartService.GetAccountLedger(c.Request.Context(), orgID, c.Param("id"), from, to)
	if err != nil {
		respondWithError(c, logger, err, "build account ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountLedgerResponse(ledger))
}

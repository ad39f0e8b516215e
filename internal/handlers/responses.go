package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onyxpm/onyx_backend/internal/apperrors"
	"github.com/onyxpm/onyx_backend/internal/core/domain"
	"github.com/onyxpm/onyx_backend/internal/middleware"
)

// errorStatus maps application errors to HTTP status codes. The order
// matters: typed ledger errors are checked before the generic kinds.
var errorStatus = []struct {
	target error
	status int
}{
	{apperrors.ErrPeriodLocked, http.StatusBadRequest},
	{apperrors.ErrUnbalancedEntry, http.StatusBadRequest},
	{apperrors.ErrInvalidAccount, http.StatusBadRequest},
	{apperrors.ErrPeriodOverlap, http.StatusBadRequest},
	{apperrors.ErrWrongStatus, http.StatusBadRequest},
	{apperrors.ErrCrossOrganization, http.StatusBadRequest},
	{apperrors.ErrValidation, http.StatusBadRequest},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrDuplicate, http.StatusConflict},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
}

// respondWithError writes the JSON error body for err. Unknown errors are
// logged and hidden behind a generic message.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	for _, m := range errorStatus {
		if !errors.Is(err, m.target) {
			continue
		}
		logger.Warn("Request rejected", slog.String("action", action), slog.String("error", err.Error()))
		body := gin.H{"error": err.Error()}
		var locked *apperrors.PeriodLockedError
		if errors.As(err, &locked) {
			body["period_start"] = locked.Start.Format(domain.DateLayout)
			body["period_end"] = locked.End.Format(domain.DateLayout)
		}
		c.JSON(m.status, body)
		return
	}

	logger.Error("Request failed", slog.String("action", action), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// respondBindError rejects a request whose body or query failed binding.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, action string) {
	logger.Warn("Failed to bind request for "+action, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// requestScope returns the organization and acting user the token carries.
// It writes a 401 and returns ok=false when either is missing.
func requestScope(c *gin.Context) (organizationID, userID string, logger *slog.Logger, ok bool) {
	logger = middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, orgOK := middleware.GetOrganizationIDFromContext(c)
	userID, userOK := middleware.GetUserIDFromContext(c)
	if !orgOK || !userOK {
		logger.Error("Organization or user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", logger, false
	}
	return organizationID, userID, logger, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", apperrors.ErrValidation, name)
	}
	return &d, nil
}

func today() time.Time {
	return domain.DateOnly(time.Now().UTC())
}

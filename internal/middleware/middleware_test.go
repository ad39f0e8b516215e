package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxpm/onyx_backend/internal/middleware"
	"github.com/onyxpm/onyx_backend/internal/utils"
)

const (
	secret = "middleware-test-secret"
	issuer = "onyx-test"
)

func newRouter(t *testing.T, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(secret, issuer)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		orgID, _ := middleware.GetOrganizationIDFromContext(c)
		userID, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, orgID+"/"+userID)
	})
	r.GET("/scoped", handlers...)
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/scoped", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ScopesRequest(t *testing.T) {
	token, err := utils.GenerateAccessToken("user-1", "org-1", secret, issuer, time.Hour)
	require.NoError(t, err)

	w := get(newRouter(t), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-1/user-1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired, err := utils.GenerateAccessToken("user-1", "org-1", secret, issuer, -time.Minute)
	require.NoError(t, err)
	noOrg, err := utils.GenerateAccessToken("user-1", "", secret, issuer, time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateAccessToken("user-1", "org-1", secret, "elsewhere", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Authorization header required"},
		{"not bearer", "Basic abc", "Authorization header format must be Bearer {token}"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"no organization", "Bearer " + noOrg, "Invalid token claims"},
		{"wrong issuer", "Bearer " + foreign, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newRouter(t), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, w.Body.String())
		})
	}
}

func TestRateLimit_PerOrganization(t *testing.T) {
	limiter, err := middleware.NewRateLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(t, middleware.RateLimit(limiter))

	orgA, err := utils.GenerateAccessToken("user-1", "org-a", secret, issuer, time.Hour)
	require.NoError(t, err)
	orgB, err := utils.GenerateAccessToken("user-1", "org-b", secret, issuer, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+orgA).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+orgA).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "Bearer "+orgA).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+orgB).Code)
}

func TestNewRateLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewRateLimiter("lots")
	assert.Error(t, err)
}

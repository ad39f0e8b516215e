package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/onyxpm/onyx_backend/cmd/docs"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/middleware"
	"github.com/onyxpm/onyx_backend/internal/platform/config"
	"github.com/onyxpm/onyx_backend/internal/platform/metrics"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	setupAccountingRoutes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAccountingRoutes configures the authenticated /accounting group and
// delegates to the per-resource registrations.
func setupAccountingRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Auth runs first so the limiter can key on the organization.
	accounting := r.Group("/accounting", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if limiter, err := middleware.NewRateLimiter(cfg.RateLimit); err != nil {
		slog.Warn("Rate limiting disabled", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
	} else {
		accounting.Use(middleware.RateLimit(limiter))
	}

	registerAccountRoutes(accounting, services.Chart)
	registerJournalRoutes(accounting, services.Journal)
	registerQuickEntryRoutes(accounting, services.QuickEntry)
	registerPeriodRoutes(accounting, services.Period)
	registerReportingRoutes(accounting, services.Reporting)
	registerHookRoutes(accounting, services.Hooks)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

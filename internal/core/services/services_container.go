package services

import (
	portsrepo "github.com/onyxpm/onyx_backend/internal/core/ports/repositories"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, store portsrepo.Store, opts ...ServiceOption) *portssvc.ServiceContainer {
	if cfg != nil {
		opts = append([]ServiceOption{WithDefaultCashAccountCode(cfg.DefaultCashAccountCode)}, opts...)
	}

	return &portssvc.ServiceContainer{
		Chart:      NewChartService(store, opts...),
		Journal:    NewJournalService(store, opts...),
		QuickEntry: NewQuickEntryService(store, opts...),
		Hooks:      NewHookService(store, opts...),
		Period:     NewPeriodService(store, opts...),
		Reporting:  NewReportingService(store.Reporting(), opts...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartSvcFacade   = (*chartService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
)

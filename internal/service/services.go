package service

import (
	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/store"
	"github.com/MKhiriev/go-delta-sync/internal/tracing"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService
	HealthService  HealthService
}

// Dependencies are the collaborators shared by the services.
type Dependencies struct {
	Registry  *schema.Registry
	Clock     utils.Clock
	Tracer    *tracing.Tracer
	BuildInfo models.AppBuildInfo
}

// NewServices builds the services on top of storages. The sync service is
// decorated so that tracing sees every request and validation runs before
// the store is touched.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, deps Dependencies, logger *logger.Logger) (*Services, error) {
	if deps.Registry == nil {
		deps.Registry = schema.Default()
	}
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock{}
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.Noop()
	}

	appInfoService, err := NewAppInfoService(cfg.App, deps.BuildInfo, logger)
	if err != nil {
		return nil, err
	}

	syncService := NewSyncService(
		deps.Registry,
		NewChangeSetComputer(deps.Registry, storages.RecordRepository, cfg.Sync, logger),
		NewChangeApplier(deps.Registry, storages.RecordRepository, deps.Clock, logger),
		deps.Clock,
		logger,
	)
	syncService = NewSyncValidationService(deps.Registry).Wrap(syncService)
	syncService = NewSyncTracingService(deps.Tracer).Wrap(syncService)

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		SyncService:    syncService,
		AppInfoService: appInfoService,
		HealthService:  NewHealthService(storages.HealthChecker),
	}, nil
}

package grpc

import (
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/service"
)

// Handler is the root gRPC transport handler.
//
// It implements [SyncServer] on top of the service layer and provides the
// interceptor chain the gRPC server is built with. A handler instance is
// created once at startup and shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// requestTimeout bounds every unary call. Zero disables the limit.
	requestTimeout time.Duration

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

// ServerOptions returns the options a [grpc.Server] serving this handler
// must be created with.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			h.withLogging,
			h.withRecovery,
			h.withTimeout,
			h.auth,
		),
	}
}

// Register registers the sync service and the standard health service.
func (h *Handler) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(&SyncServiceDesc, h)
	healthpb.RegisterHealthServer(registrar, &healthServer{services: h.services})
}

package adapter

import (
	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
)

// New picks the transport from cfg: gRPC when GRPCAddress is set, HTTP
// otherwise.
func New(cfg config.ClientAdapter, logger *logger.Logger) (SyncAdapter, error) {
	if cfg.GRPCAddress != "" {
		return NewGRPCSyncAdapter(cfg, logger)
	}
	return NewHTTPSyncAdapter(cfg, logger)
}

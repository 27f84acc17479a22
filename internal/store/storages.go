package store

import (
	"context"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
)

// Storages aggregates the persistence components of the server.
type Storages struct {
	RecordRepository RecordRepository
	HealthChecker    HealthChecker

	db *DB
}

// NewStorages connects to the configured database, applies migrations and
// builds the repositories on top of the pool.
func NewStorages(ctx context.Context, cfg config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return NewStoragesFromDB(db, NewRetryPolicy(cfg.Sync), log), nil
}

// NewStoragesFromDB builds the repositories on an open, migrated pool.
func NewStoragesFromDB(db *DB, policy RetryPolicy, log *logger.Logger) *Storages {
	return &Storages{
		RecordRepository: NewRecordRepository(db, policy, log),
		HealthChecker:    db,
		db:               db,
	}
}

// Close releases the connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

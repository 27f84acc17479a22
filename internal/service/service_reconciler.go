package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

// syncService is the concrete implementation of [SyncService]. It keeps no
// state between requests: everything a request needs arrives with it.
type syncService struct {
	registry *schema.Registry
	computer ChangeSetComputer
	applier  ChangeApplier

	// clock stamps the pull timestamp that becomes the client's next
	// watermark.
	clock utils.Clock

	logger *logger.Logger
}

// NewSyncService constructs the reconciler from its collaborators.
func NewSyncService(registry *schema.Registry, computer ChangeSetComputer, applier ChangeApplier, clock utils.Clock, logger *logger.Logger) SyncService {
	return &syncService{
		registry: registry,
		computer: computer,
		applier:  applier,
		clock:    clock,
		logger:   logger,
	}
}

// Pull implements [SyncService].
//
// The timestamp is read after the change queries have returned. A write
// committed between the queries and that read is only delivered if it also
// satisfies a later watermark comparison.
func (s *syncService) Pull(ctx context.Context, request models.PullRequest) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	version, err := s.registry.ResolveVersion(request.SchemaVersion)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	changes, err := s.computer.ComputeChanges(ctx, request.OwnerID, request.LastPulledAt, version)
	if err != nil {
		return models.PullResponse{}, err
	}

	response := models.PullResponse{
		Changes:   changes,
		Timestamp: utils.NowMillis(s.clock).UnixMilli(),
	}

	log.Info().
		Str("func", "syncService.Pull").
		Str("owner_id", request.OwnerID).
		Int64("last_pulled_at", int64(request.LastPulledAt)).
		Int64("timestamp", response.Timestamp).
		Int("entries", changes.Len()).
		Msg("pull served")

	return response, nil
}

// Push implements [SyncService]. The watermark is only logged.
func (s *syncService) Push(ctx context.Context, request models.PushRequest) (models.PushResult, error) {
	log := logger.FromContext(ctx)

	version, err := s.registry.ResolveVersion(request.SchemaVersion)
	if err != nil {
		return models.PushResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	changes := request.Changes
	if changes == nil && len(request.Body) > 0 {
		changes, err = models.DecodeChanges(request.Body)
		if err != nil {
			return models.PushResult{}, fmt.Errorf("%w: %w", ErrMalformedPush, err)
		}
	}

	result, err := s.applier.ApplyChanges(ctx, request.OwnerID, changes, version)
	if err != nil {
		return result, err
	}

	log.Info().
		Str("func", "syncService.Push").
		Str("owner_id", request.OwnerID).
		Int64("last_pulled_at", int64(request.LastPulledAt)).
		Int("entries", changes.Len()).
		Msg("push applied")

	return result, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/store"
	"github.com/MKhiriev/go-delta-sync/models"
)

// changeSetComputer is the concrete implementation of [ChangeSetComputer].
// It issues one query per entity type and bucket, all of them in parallel.
type changeSetComputer struct {
	registry   *schema.Registry
	repository store.RecordRepository

	// concurrency bounds the number of bucket queries in flight for one pull.
	concurrency int

	logger *logger.Logger
}

// NewChangeSetComputer constructs a [ChangeSetComputer] over repository.
func NewChangeSetComputer(registry *schema.Registry, repository store.RecordRepository, cfg config.Sync, logger *logger.Logger) ChangeSetComputer {
	concurrency := cfg.QueryConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &changeSetComputer{
		registry:    registry,
		repository:  repository,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ComputeChanges implements [ChangeSetComputer].
//
// Every registered entity type is present in the result, with empty lists
// when nothing changed. If any query fails the whole change set is
// discarded.
func (c *changeSetComputer) ComputeChanges(ctx context.Context, ownerID string, watermark models.Watermark, version int) (models.Changes, error) {
	log := logger.FromContext(ctx)

	entities := c.registry.Entities()
	rows := make([][][]schema.Row, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, entity := range entities {
		rows[i] = make([][]schema.Row, len(models.Buckets))
		for j, bucket := range models.Buckets {
			g.Go(func() error {
				found, err := c.repository.FindMany(gctx, entity, store.Predicate{
					OwnerID: ownerID,
					Bucket:  bucket,
					Since:   watermark.Time(),
				})
				if err != nil {
					return fmt.Errorf("%s %s: %w", entity.Table, bucket, err)
				}
				rows[i][j] = found
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.Err(err).
			Str("func", "changeSetComputer.ComputeChanges").
			Str("owner_id", ownerID).
			Int64("last_pulled_at", int64(watermark)).
			Msg("change set query failed")
		return nil, fmt.Errorf("%w: %w", ErrComputingChanges, err)
	}

	changes := make(models.Changes, len(entities))
	for i, entity := range entities {
		tc := models.NewTableChanges()
		for j, bucket := range models.Buckets {
			for _, row := range rows[i][j] {
				switch bucket {
				case models.BucketCreated:
					tc.Created = append(tc.Created, entity.ToRecord(row, version))
				case models.BucketUpdated:
					tc.Updated = append(tc.Updated, entity.ToRecord(row, version))
				case models.BucketDeleted:
					tc.Deleted = append(tc.Deleted, row.ID())
				}
			}
		}
		changes[entity.Table] = tc
	}

	log.Debug().
		Str("func", "changeSetComputer.ComputeChanges").
		Str("owner_id", ownerID).
		Int64("last_pulled_at", int64(watermark)).
		Int("entries", changes.Len()).
		Msg("change set computed")

	return changes, nil
}

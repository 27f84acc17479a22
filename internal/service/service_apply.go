// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/store"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

// changeApplier is the concrete implementation of [ChangeApplier].
//
// Each entity type is applied in its own transaction, in registry order:
// creates, then updates, then deletes. A failure rolls back that entity
// type only; entity types applied before it stay committed.
type changeApplier struct {
	registry   *schema.Registry
	repository store.RecordRepository
	clock      utils.Clock

	logger *logger.Logger
}

// NewChangeApplier constructs a [ChangeApplier] over repository.
func NewChangeApplier(registry *schema.Registry, repository store.RecordRepository, clock utils.Clock, logger *logger.Logger) ChangeApplier {
	return &changeApplier{
		registry:   registry,
		repository: repository,
		clock:      clock,
		logger:     logger,
	}
}

// tablePlan is the server-side form of one entity type's pushed changes.
type tablePlan struct {
	created []schema.Row
	updated []schema.Row
	deleted []string
}

func (p tablePlan) isEmpty() bool {
	return len(p.created) == 0 && len(p.updated) == 0 && len(p.deleted) == 0
}

// ApplyChanges implements [ChangeApplier].
//
// Every record is converted before the first transaction starts, so a
// malformed record rejects the push without touching the store.
func (a *changeApplier) ApplyChanges(ctx context.Context, ownerID string, changes models.Changes, version int) (models.PushResult, error) {
	log := logger.FromContext(ctx)

	for table := range changes {
		if _, ok := a.registry.Entity(table); !ok {
			return models.PushResult{}, fmt.Errorf("%w: %w: %q", ErrValidation, schema.ErrUnknownEntity, table)
		}
	}

	now := utils.NowMillis(a.clock)
	plans := make([]tablePlan, len(a.registry.Entities()))
	for i, entity := range a.registry.Entities() {
		plan, err := buildPlan(entity, changes[entity.Table], version, ownerID, now)
		if err != nil {
			log.Err(err).
				Str("func", "changeApplier.ApplyChanges").
				Str("table", entity.Table).
				Msg("pushed record cannot be converted")
			return models.PushResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		plans[i] = plan
	}

	result := models.PushResult{Tables: make(map[string]models.TableResult)}
	for i, entity := range a.registry.Entities() {
		plan := plans[i]
		if plan.isEmpty() {
			continue
		}

		var tableResult models.TableResult
		err := a.repository.InTx(ctx, func(ctx context.Context, w store.RecordWriter) error {
			var err error
			tableResult, err = applyPlan(ctx, w, entity, ownerID, plan, now)
			return err
		})
		if err != nil {
			log.Err(err).
				Str("func", "changeApplier.ApplyChanges").
				Str("owner_id", ownerID).
				Str("table", entity.Table).
				Msg("push transaction rolled back")
			if errors.Is(err, ErrForeignRecord) {
				return result, err
			}
			return result, fmt.Errorf("%w: %s: %w", ErrApplyingChanges, entity.Table, err)
		}

		result.Tables[entity.Table] = tableResult
		log.Debug().
			Str("func", "changeApplier.ApplyChanges").
			Str("owner_id", ownerID).
			Str("table", entity.Table).
			Int("created", tableResult.Created).
			Int("updated", tableResult.Updated).
			Int("deleted", tableResult.Deleted).
			Msg("changes applied")
	}

	return result, nil
}

// applyPlan runs inside the entity type's transaction.
func applyPlan(ctx context.Context, w store.RecordWriter, entity schema.Entity, ownerID string, plan tablePlan, now time.Time) (models.TableResult, error) {
	var result models.TableResult

	if len(plan.created) > 0 {
		n, err := w.Upsert(ctx, entity, ownerID, plan.created)
		if err != nil {
			return result, err
		}
		if n < int64(len(plan.created)) {
			return result, fmt.Errorf("%w: %s: %d of %d created records belong to another owner",
				ErrForeignRecord, entity.Table, int64(len(plan.created))-n, len(plan.created))
		}
		result.Created = len(plan.created)
	}

	for _, row := range plan.updated {
		n, err := w.Update(ctx, entity, ownerID, row)
		if err != nil {
			return result, err
		}
		if n == 0 {
			// unknown id: the update becomes a create
			n, err = w.Upsert(ctx, entity, ownerID, []schema.Row{withCreatedAt(row)})
			if err != nil {
				return result, err
			}
			if n == 0 {
				return result, fmt.Errorf("%w: %s %q belongs to another owner", ErrForeignRecord, entity.Table, row.ID())
			}
		}
		result.Updated++
	}

	if len(plan.deleted) > 0 {
		n, err := w.SoftDelete(ctx, entity, ownerID, plan.deleted, now)
		if err != nil {
			return result, err
		}
		result.Deleted = int(n)
	}

	return result, nil
}

// buildPlan converts and deduplicates one entity type's pushed changes.
func buildPlan(entity schema.Entity, tc models.TableChanges, version int, ownerID string, now time.Time) (tablePlan, error) {
	var (
		plan tablePlan
		err  error
	)

	plan.created, err = convertRecords(entity, tc.Created, version, ownerID)
	if err != nil {
		return tablePlan{}, err
	}
	for _, row := range plan.created {
		stampCreated(row, now)
	}

	plan.updated, err = convertRecords(entity, tc.Updated, version, ownerID)
	if err != nil {
		return tablePlan{}, err
	}
	for _, row := range plan.updated {
		stampUpdated(row, now)
	}

	seen := make(map[string]struct{}, len(tc.Deleted))
	for _, id := range tc.Deleted {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		plan.deleted = append(plan.deleted, id)
	}

	return plan, nil
}

// convertRecords maps records to rows. A repeated id keeps its first
// position but takes the fields of its last occurrence.
func convertRecords(entity schema.Entity, records []models.Record, version int, ownerID string) ([]schema.Row, error) {
	rows := make([]schema.Row, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		row, err := entity.ToRow(rec, version, ownerID)
		if err != nil {
			return nil, err
		}
		dropNullTimestamps(row)

		if i, dup := index[row.ID()]; dup {
			rows[i] = row
			continue
		}
		index[row.ID()] = len(rows)
		rows = append(rows, row)
	}

	return rows, nil
}

// dropNullTimestamps removes null protocol timestamps so that they are
// filled rather than written as NULL.
func dropNullTimestamps(row schema.Row) {
	for _, c := range []string{schema.ColumnCreatedAt, schema.ColumnUpdatedAt} {
		if v, ok := row[c]; ok && v == nil {
			delete(row, c)
		}
	}
}

// stampCreated fills the timestamps a create must carry and keeps
// updated_at >= created_at.
func stampCreated(row schema.Row, now time.Time) {
	created, ok := row[schema.ColumnCreatedAt].(time.Time)
	if !ok {
		created = now
		row[schema.ColumnCreatedAt] = created
	}

	updated, ok := row[schema.ColumnUpdatedAt].(time.Time)
	switch {
	case !ok:
		row[schema.ColumnUpdatedAt] = maxTime(created, now)
	case updated.Before(created):
		row[schema.ColumnUpdatedAt] = created
	}
}

// stampUpdated fills updated_at, and keeps it from going below a pushed
// created_at.
func stampUpdated(row schema.Row, now time.Time) {
	updated, ok := row[schema.ColumnUpdatedAt].(time.Time)
	if !ok {
		updated = now
		row[schema.ColumnUpdatedAt] = updated
	}

	if created, ok := row[schema.ColumnCreatedAt].(time.Time); ok && updated.Before(created) {
		row[schema.ColumnUpdatedAt] = created
	}
}

// withCreatedAt returns a copy of an update row that can be inserted.
func withCreatedAt(row schema.Row) schema.Row {
	out := make(schema.Row, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	if _, ok := out[schema.ColumnCreatedAt]; !ok {
		out[schema.ColumnCreatedAt] = row[schema.ColumnUpdatedAt]
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

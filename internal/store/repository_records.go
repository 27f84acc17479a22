package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/models"
)

// RetryPolicy bounds the reruns of a push transaction after retryable
// store errors.
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// NewRetryPolicy reads the policy from the sync configuration.
func NewRetryPolicy(cfg config.Sync) RetryPolicy {
	return RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = 10 * time.Millisecond
	}
	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithCappedDuration(2*time.Second, b)
	return retry.WithMaxRetries(p.MaxRetries, b)
}

// recordRepository is the SQL implementation of [RecordRepository] for both
// dialects. Every public method obtains a context-scoped logger via
// [logger.FromContext] so database interactions carry the request's
// trace id.
type recordRepository struct {
	*DB
	retry  RetryPolicy
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] on db.
func NewRecordRepository(db *DB, policy RetryPolicy, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		retry:  policy,
		logger: logger,
	}
}

// FindMany implements [RecordRepository].
func (r *recordRepository) FindMany(ctx context.Context, entity schema.Entity, predicate Predicate) ([]schema.Row, error) {
	log := logger.FromContext(ctx)

	predicate.Since = predicate.Since.UTC()
	query, args, err := buildFindQuery(r.builder(), entity, predicate)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindMany").
			Str("table", entity.Table).
			Str("bucket", predicate.Bucket.String()).
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindMany").
			Str("table", entity.Table).
			Str("bucket", predicate.Bucket.String()).
			Msg("failed to execute query for change bucket")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var results []schema.Row
	if predicate.Bucket == models.BucketDeleted {
		results, err = scanIDs(rows)
	} else {
		results, err = scanRows(rows, entity)
	}
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindMany").
			Str("table", entity.Table).
			Str("bucket", predicate.Bucket.String()).
			Msg("failed to read change bucket")
		return nil, err
	}

	log.Debug().
		Str("func", "recordRepository.FindMany").
		Str("table", entity.Table).
		Str("bucket", predicate.Bucket.String()).
		Int("rows", len(results)).
		Msg("change bucket read")

	return results, nil
}

// InTx implements [RecordRepository].
func (r *recordRepository) InTx(ctx context.Context, fn TxFunc) error {
	log := logger.FromContext(ctx)

	attempt := 0
	return retry.Do(ctx, r.retry.backoff(), func(ctx context.Context) error {
		attempt++
		err := r.runTx(ctx, fn)
		if err != nil && r.isRetryable(err) {
			log.Warn().
				Err(err).
				Str("func", "recordRepository.InTx").
				Int("attempt", attempt).
				Msg("retryable store error, rerunning transaction")
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *recordRepository) runTx(ctx context.Context, fn TxFunc) error {
	log := logger.FromContext(ctx)

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.InTx").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(ctx, &txWriter{tx: tx, db: r.DB}); err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "recordRepository.InTx").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// txWriter is the [RecordWriter] handed to a [TxFunc].
type txWriter struct {
	tx *sql.Tx
	db *DB
}

// Upsert implements [RecordWriter]. Large batches are split so that each
// statement stays within bind-variable limits.
func (w *txWriter) Upsert(ctx context.Context, entity schema.Entity, ownerID string, rows []schema.Row) (int64, error) {
	log := logger.FromContext(ctx)

	var total int64
	for start := 0; start < len(rows); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(rows))

		batch := make([]schema.Row, 0, end-start)
		for _, row := range rows[start:end] {
			bound := bindRow(row)
			bound[schema.ColumnOwner] = ownerID
			batch = append(batch, bound)
		}

		query, args, err := buildUpsertQuery(w.db.builder(), entity, batch)
		if err != nil {
			log.Err(err).Str("func", "txWriter.Upsert").Str("table", entity.Table).Msg("failed to create query")
			return total, err
		}

		n, err := w.exec(ctx, query, args)
		if err != nil {
			log.Err(err).
				Str("func", "txWriter.Upsert").
				Str("table", entity.Table).
				Int("batch_size", len(batch)).
				Msg("failed to upsert records")
			return total, err
		}
		total += n
	}

	return total, nil
}

// Update implements [RecordWriter].
func (w *txWriter) Update(ctx context.Context, entity schema.Entity, ownerID string, row schema.Row) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateQuery(w.db.builder(), entity, ownerID, bindRow(row))
	if err != nil {
		log.Err(err).Str("func", "txWriter.Update").Str("table", entity.Table).Msg("failed to create query")
		return 0, err
	}

	n, err := w.exec(ctx, query, args)
	if err != nil {
		log.Err(err).
			Str("func", "txWriter.Update").
			Str("table", entity.Table).
			Str("id", row.ID()).
			Msg("failed to update record")
		return 0, err
	}
	return n, nil
}

// SoftDelete implements [RecordWriter].
func (w *txWriter) SoftDelete(ctx context.Context, entity schema.Entity, ownerID string, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildSoftDeleteQuery(w.db.builder(), entity, ownerID, ids, at.UTC().Truncate(time.Millisecond))
	if err != nil {
		log.Err(err).Str("func", "txWriter.SoftDelete").Str("table", entity.Table).Msg("failed to create query")
		return 0, err
	}

	n, err := w.exec(ctx, query, args)
	if err != nil {
		log.Err(err).
			Str("func", "txWriter.SoftDelete").
			Str("table", entity.Table).
			Int("ids", len(ids)).
			Msg("failed to soft-delete records")
		return 0, err
	}
	return n, nil
}

func (w *txWriter) exec(ctx context.Context, query string, args []any) (int64, error) {
	result, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return n, nil
}

// bindRow copies row, normalising timestamps to UTC. SQLite compares
// timestamps as text, which only orders correctly in a single zone.
func bindRow(row schema.Row) schema.Row {
	bound := make(schema.Row, len(row))
	for k, v := range row {
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		bound[k] = v
	}
	return bound
}

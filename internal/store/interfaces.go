package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Predicate selects the rows of one change bucket for one owner.
type Predicate struct {
	OwnerID string
	Bucket  models.Bucket
	// Since is the resolved watermark. Every bucket compares strictly
	// greater than it.
	Since time.Time
}

// RecordRepository reads change buckets and runs push transactions.
type RecordRepository interface {
	// FindMany returns the rows matching predicate. For the deleted bucket
	// only the id column is populated.
	FindMany(ctx context.Context, entity schema.Entity, predicate Predicate) ([]schema.Row, error)
	// InTx runs fn inside one transaction, committing when fn returns nil
	// and rolling back otherwise. Retryable store errors rerun fn in a new
	// transaction.
	InTx(ctx context.Context, fn TxFunc) error
}

// TxFunc is the unit of work run by [RecordRepository.InTx].
type TxFunc func(ctx context.Context, w RecordWriter) error

// RecordWriter mutates records inside a transaction. Every method is scoped
// to ownerID and returns the number of rows it changed.
type RecordWriter interface {
	// Upsert inserts rows, or merges them into existing rows with the same
	// id owned by ownerID. Rows owned by someone else are left untouched
	// and are not counted.
	Upsert(ctx context.Context, entity schema.Entity, ownerID string, rows []schema.Row) (int64, error)
	// Update writes the fields present in row to the record with the same id.
	Update(ctx context.Context, entity schema.Entity, ownerID string, row schema.Row) (int64, error)
	// SoftDelete stamps deleted_at and updated_at on live records.
	SoftDelete(ctx context.Context, entity schema.Entity, ownerID string, ids []string, at time.Time) (int64, error)
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ErrorClassificator decides whether a failed operation may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

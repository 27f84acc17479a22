package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

// stubComputer is a plain ChangeSetComputer; the generated mocks live in a
// package that imports this one.
type stubComputer struct {
	computeFn func(ctx context.Context, ownerID string, w models.Watermark, version int) (models.Changes, error)
}

func (s *stubComputer) ComputeChanges(ctx context.Context, ownerID string, w models.Watermark, version int) (models.Changes, error) {
	if s.computeFn != nil {
		return s.computeFn(ctx, ownerID, w, version)
	}
	return models.Changes{}, nil
}

type stubApplier struct {
	applyFn func(ctx context.Context, ownerID string, changes models.Changes, version int) (models.PushResult, error)
}

func (s *stubApplier) ApplyChanges(ctx context.Context, ownerID string, changes models.Changes, version int) (models.PushResult, error) {
	if s.applyFn != nil {
		return s.applyFn(ctx, ownerID, changes, version)
	}
	return models.PushResult{}, nil
}

func TestSyncService_PullTimestampDropsSubMillisecond(t *testing.T) {
	clock := utils.NewFixedClock(time.UnixMilli(10_000).Add(700 * time.Microsecond))
	svc := NewSyncService(schema.Default(), &stubComputer{}, &stubApplier{}, clock, logger.Nop())

	resp, err := svc.Pull(context.Background(), models.PullRequest{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), resp.Timestamp)
}

func TestSyncService_PullStampsTimestampAfterQueries(t *testing.T) {
	clock := utils.NewFixedClock(time.UnixMilli(10_000))

	computer := &stubComputer{
		computeFn: func(_ context.Context, ownerID string, w models.Watermark, version int) (models.Changes, error) {
			assert.Equal(t, "u1", ownerID)
			assert.Equal(t, models.Watermark(500), w)
			assert.Equal(t, schema.CurrentVersion, version)
			clock.Advance(250 * time.Millisecond)
			return models.Changes{"profiles": models.NewTableChanges()}, nil
		},
	}

	svc := NewSyncService(schema.Default(), computer, &stubApplier{}, clock, logger.Nop())

	resp, err := svc.Pull(context.Background(), models.PullRequest{OwnerID: "u1", LastPulledAt: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(10_250), resp.Timestamp)
	assert.Contains(t, resp.Changes, "profiles")
}

func TestSyncService_PullPropagatesStoreFailure(t *testing.T) {
	dbErr := errors.New("boom")
	computer := &stubComputer{
		computeFn: func(context.Context, string, models.Watermark, int) (models.Changes, error) {
			return nil, dbErr
		},
	}

	svc := NewSyncService(schema.Default(), computer, &stubApplier{}, utils.SystemClock{}, logger.Nop())

	resp, err := svc.Pull(context.Background(), models.PullRequest{OwnerID: "u1"})
	require.ErrorIs(t, err, dbErr)
	assert.Nil(t, resp.Changes)
}

func TestSyncService_PullRejectsUnsupportedVersion(t *testing.T) {
	svc := NewSyncService(schema.Default(), &stubComputer{}, &stubApplier{}, utils.SystemClock{}, logger.Nop())

	_, err := svc.Pull(context.Background(), models.PullRequest{OwnerID: "u1", SchemaVersion: 7})
	require.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, schema.ErrUnsupportedSchemaVersion)
}

func TestSyncService_PushDecodesBody(t *testing.T) {
	var applied models.Changes
	applier := &stubApplier{
		applyFn: func(_ context.Context, ownerID string, changes models.Changes, version int) (models.PushResult, error) {
			applied = changes
			assert.Equal(t, 2, version)
			return models.PushResult{Tables: map[string]models.TableResult{"weights": {Created: 1}}}, nil
		},
	}

	svc := NewSyncService(schema.Default(), &stubComputer{}, applier, utils.SystemClock{}, logger.Nop())

	result, err := svc.Push(context.Background(), models.PushRequest{
		OwnerID:       "u1",
		SchemaVersion: 2,
		Body:          []byte(`{"weights":{"created":[{"id":"w1","created_at":1700000000123}],"updated":[]}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Tables["weights"].Created)

	require.Len(t, applied["weights"].Created, 1)
	assert.Equal(t, json.Number("1700000000123"), applied["weights"].Created[0]["created_at"])
}

func TestSyncService_PushMalformedBody(t *testing.T) {
	svc := NewSyncService(schema.Default(), &stubComputer{}, &stubApplier{
		applyFn: func(context.Context, string, models.Changes, int) (models.PushResult, error) {
			t.Fatal("applier must not run")
			return models.PushResult{}, nil
		},
	}, utils.SystemClock{}, logger.Nop())

	_, err := svc.Push(context.Background(), models.PushRequest{OwnerID: "u1", Body: []byte(`{"weights":`)})
	require.ErrorIs(t, err, ErrMalformedPush)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/config"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/store"
	"github.com/MKhiriev/go-delta-sync/internal/validators"
	"github.com/MKhiriev/go-delta-sync/models"
)

func statusBody(message string) string {
	return fmt.Sprintf(`{"status":%q}`, message)
}

// ─────────────────────────────────────────────
// GET /api/sync/pull
// ─────────────────────────────────────────────

func TestPull_Success(t *testing.T) {
	router, mocks := newTestRouter(t, config.Server{})
	mocks.expectOwner("u1")

	changes := models.Changes{
		"profiles": {
			Created: []models.Record{{"id": "p1", "name": "Ann"}},
			Updated: []models.Record{},
			Deleted: []string{"p9"},
		},
	}
	mocks.sync.EXPECT().
		Pull(gomock.Any(), models.PullRequest{OwnerID: "u1", LastPulledAt: 1700, SchemaVersion: 2}).
		Return(models.PullResponse{Changes: changes, Timestamp: 1800}, nil)

	rr := serve(router, http.MethodGet, "/api/sync/pull?last_pulled_at=1700&schema_version=2", "", bearer())

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"changes": {"profiles": {"created": [{"id": "p1", "name": "Ann"}], "updated": [], "deleted": ["p9"]}},
		"timestamp": 1800
	}`, rr.Body.String())
}

func TestPull_AbsentWatermark(t *testing.T) {
	for _, target := range []string{
		"/api/sync/pull",
		"/api/sync/pull?last_pulled_at=",
		"/api/sync/pull?last_pulled_at=null",
	} {
		t.Run(target, func(t *testing.T) {
			router, mocks := newTestRouter(t, config.Server{})
			mocks.expectOwner("u1")
			mocks.sync.EXPECT().
				Pull(gomock.Any(), models.PullRequest{OwnerID: "u1"}).
				Return(models.PullResponse{Changes: models.Changes{}, Timestamp: 5}, nil)

			rr := serve(router, http.MethodGet, target, "", bearer())

			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestPull_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"non-numeric watermark", "/api/sync/pull?last_pulled_at=yesterday", app.MsgInvalidWatermark},
		{"negative watermark", "/api/sync/pull?last_pulled_at=-5", app.MsgInvalidWatermark},
		{"non-numeric schema version", "/api/sync/pull?schema_version=v2", app.MsgUnsupportedSchemaVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := newTestRouter(t, config.Server{})
			mocks.expectOwner("u1")

			rr := serve(router, http.MethodGet, tt.target, "", bearer())

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, statusBody(tt.message), rr.Body.String())
		})
	}
}

func TestPull_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unsupported schema version",
			err:        fmt.Errorf("%w: %w", service.ErrValidation, schema.ErrUnsupportedSchemaVersion),
			wantStatus: http.StatusBadRequest,
			wantBody:   statusBody(app.MsgUnsupportedSchemaVersion),
		},
		{
			name:       "store failure hides details",
			err:        fmt.Errorf("%w: %w", service.ErrComputingChanges, fmt.Errorf("%w: relation profiles does not exist", store.ErrExecutingQuery)),
			wantStatus: http.StatusInternalServerError,
			wantBody:   statusBody(app.MsgInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := newTestRouter(t, config.Server{})
			mocks.expectOwner("u1")
			mocks.sync.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(models.PullResponse{}, tt.err)

			rr := serve(router, http.MethodGet, "/api/sync/pull", "", bearer())

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestPull_RequestTimeout(t *testing.T) {
	router, mocks := newTestRouter(t, config.Server{RequestTimeout: 20 * time.Millisecond})
	mocks.expectOwner("u1")
	mocks.sync.EXPECT().Pull(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.PullRequest) (models.PullResponse, error) {
			<-ctx.Done()
			return models.PullResponse{}, fmt.Errorf("%w: %w", service.ErrComputingChanges, ctx.Err())
		})

	rr := serve(router, http.MethodGet, "/api/sync/pull", "", bearer())

	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.JSONEq(t, statusBody(app.MsgRequestTimeout), rr.Body.String())
}

// ─────────────────────────────────────────────
// POST /api/sync/push
// ─────────────────────────────────────────────

const pushBody = `{"weights": {"created": [{"id": "w1", "weight": 70}], "updated": [], "deleted": []}}`

func TestPush_Success(t *testing.T) {
	router, mocks := newTestRouter(t, config.Server{})
	mocks.expectOwner("u1")
	mocks.sync.EXPECT().
		Push(gomock.Any(), models.PushRequest{OwnerID: "u1", LastPulledAt: 1700, Body: []byte(pushBody)}).
		Return(models.PushResult{}, nil)

	rr := serve(router, http.MethodPost, "/api/sync/push?last_pulled_at=1700", pushBody, bearer())

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestPush_GzipBody(t *testing.T) {
	router, mocks := newTestRouter(t, config.Server{})
	mocks.expectOwner("u1")
	mocks.sync.EXPECT().
		Push(gomock.Any(), models.PushRequest{OwnerID: "u1", Body: []byte(pushBody)}).
		Return(models.PushResult{}, nil)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(pushBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	headers := bearer()
	headers["Content-Encoding"] = "gzip"
	rr := serve(router, http.MethodPost, "/api/sync/push", compressed.String(), headers)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPush_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "foreign record",
			err:        fmt.Errorf("%w: profiles: 1 of 1 created records belong to another owner", service.ErrForeignRecord),
			wantStatus: http.StatusForbidden,
			wantBody:   statusBody(app.MsgAccessDenied),
		},
		{
			name:       "owner field names someone else",
			err:        fmt.Errorf("%w: %w", service.ErrValidation, validators.ErrOwnerMismatch),
			wantStatus: http.StatusForbidden,
			wantBody:   statusBody(app.MsgAccessDenied),
		},
		{
			name:       "malformed body",
			err:        fmt.Errorf("%w: %w", service.ErrMalformedPush, validators.ErrEmptyBody),
			wantStatus: http.StatusBadRequest,
			wantBody:   statusBody(app.MsgMalformedPushBody),
		},
		{
			name:       "invalid record returns its reason",
			err:        fmt.Errorf("%w: %w", service.ErrValidation, errors.New("weights.weight: expected number")),
			wantStatus: http.StatusBadRequest,
			wantBody:   statusBody("validation failed: weights.weight: expected number"),
		},
		{
			name:       "store failure hides details",
			err:        fmt.Errorf("%w: weights: %w", service.ErrApplyingChanges, store.ErrExecutingStatement),
			wantStatus: http.StatusInternalServerError,
			wantBody:   statusBody(app.MsgInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := newTestRouter(t, config.Server{})
			mocks.expectOwner("u1")
			mocks.sync.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResult{}, tt.err)

			rr := serve(router, http.MethodPost, "/api/sync/push", pushBody, bearer())

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

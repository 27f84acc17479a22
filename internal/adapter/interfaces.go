// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the delta-sync protocol.
//
// [SyncAdapter] hides the transport: [NewHTTPSyncAdapter] talks to the REST
// endpoints with resty, [NewGRPCSyncAdapter] talks to the JSON-codec gRPC
// service. Server rejections are mapped to the sentinel errors in errors.go
// so callers can use [errors.Is] regardless of the transport.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-delta-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SyncAdapter is a sync server as seen by a client.
type SyncAdapter interface {
	// SetToken stores the bearer token attached to every sync request.
	SetToken(token string)

	// Token returns the stored bearer token, or "" if none is set.
	Token() string

	// Pull asks for every change after lastPulledAt. A zero watermark asks
	// for everything. The returned Timestamp is the next watermark.
	Pull(ctx context.Context, lastPulledAt models.Watermark) (models.PullResponse, error)

	// Push sends local changes accumulated since lastPulledAt.
	Push(ctx context.Context, lastPulledAt models.Watermark, changes models.Changes) error

	// Health reports whether the server can serve sync requests.
	Health(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"encoding/json"

	"github.com/MKhiriev/go-delta-sync/models"
)

// PullRequest is the request message of SyncService.Pull. A null or absent
// last_pulled_at asks for everything.
type PullRequest struct {
	LastPulledAt  *int64 `json:"last_pulled_at"`
	SchemaVersion int    `json:"schema_version,omitempty"`
}

// PushRequest is the request message of SyncService.Push. Changes has the
// same shape as the HTTP push body and is validated by the service.
type PushRequest struct {
	LastPulledAt  *int64          `json:"last_pulled_at"`
	SchemaVersion int             `json:"schema_version,omitempty"`
	Changes       json.RawMessage `json:"changes"`
}

// PullResponse is the response message of SyncService.Pull.
type PullResponse = models.PullResponse

// PushResponse is the response message of SyncService.Push.
type PushResponse = models.StatusResponse

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PullRequest carries everything the server needs to compute a change set
// for one principal. It is built by the transport layer from the query
// string and the authentication context.
type PullRequest struct {
	// OwnerID is the authenticated principal; every query is scoped to it.
	OwnerID string

	// LastPulledAt is the resolved watermark of the client's previous pull.
	LastPulledAt Watermark

	// SchemaVersion is the client's entity schema version. Columns
	// introduced after this version are not emitted.
	SchemaVersion int
}

// PullResponse is returned to the client after a successful pull.
type PullResponse struct {
	// Changes holds one change set per synchronized entity type.
	Changes Changes `json:"changes"`

	// Timestamp is the server time captured after the change queries ran,
	// in epoch milliseconds. It becomes the client's next watermark.
	Timestamp int64 `json:"timestamp"`
}

// PushRequest carries the client's accumulated local changes.
type PushRequest struct {
	// OwnerID is the authenticated principal that all changes are applied for.
	OwnerID string

	// LastPulledAt is the client's watermark. It is used for diagnostics only.
	LastPulledAt Watermark

	// SchemaVersion is the client's entity schema version. Fields introduced
	// after this version are ignored.
	SchemaVersion int

	// Body is the push body as received. Transports fill it; the body is
	// shape-checked and decoded into Changes before anything is applied.
	Body []byte

	// Changes is the decoded push body.
	Changes Changes
}

// TableResult reports how many entries of one entity type a push touched.
type TableResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// PushResult summarizes an applied push per entity type.
type PushResult struct {
	Tables map[string]TableResult `json:"tables"`
}

// StatusResponse is the body returned by push and by every client or
// server error of the sync endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusOK is the acknowledgement status of a successful push.
const StatusOK = "ok"

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks sync requests before they reach the reconciler.
//
// A push body is inspected twice: first as raw JSON, so a body of the wrong
// shape is rejected without decoding it or touching the store, then as
// decoded changes, where every record must carry an id and may not name
// another owner.
package validators

import "context"

// Validator validates a request value. The accepted values are
// [models.PullRequest], [models.PushRequest] and a raw push body ([]byte).
// Field names optionally restrict which checks run.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}

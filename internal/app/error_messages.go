// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// delta-sync transports.
//
// All Msg* constants are human-readable message strings that are written into
// the {"status": ...} body of error responses. Keeping them in one place keeps
// the wording identical between the HTTP and gRPC transports.
package app

const (
	// MsgInvalidDataProvided is returned when a request fails validation in
	// a way no more specific message describes.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned for every store or unexpected
	// failure. Internal error text is never sent to the client.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is expired
	// or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgMissingAuthorization is returned when a sync request carries no
	// usable Authorization header.
	MsgMissingAuthorization = "missing or malformed authorization header"

	// MsgNoOwnerIDProvided is returned when no principal could be resolved
	// for the request.
	MsgNoOwnerIDProvided = "no owner ID provided"

	// MsgAccessDenied is returned when a push touches records of another
	// owner.
	MsgAccessDenied = "access denied"

	// MsgInvalidWatermark is returned when last_pulled_at is not an
	// integer number of milliseconds.
	MsgInvalidWatermark = "last_pulled_at must be epoch milliseconds or null"

	// MsgUnsupportedSchemaVersion is returned when schema_version is not a
	// version this server knows.
	MsgUnsupportedSchemaVersion = "unsupported schema version"

	// MsgMalformedPushBody is returned when a push body is empty or is not
	// a map of table change sets.
	MsgMalformedPushBody = "No changes included in body, or it is the wrong shape in the body"

	// MsgRequestTimeout is returned when a request runs past the server's
	// request timeout.
	MsgRequestTimeout = "request timed out"

	// MsgStoreUnavailable is returned by the health check when the database
	// does not answer.
	MsgStoreUnavailable = "store unavailable"
)

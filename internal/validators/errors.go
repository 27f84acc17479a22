package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyBody         = errors.New("push body is empty")
	ErrMalformedBody     = errors.New("push body is not a JSON object")
	ErrUnknownTable      = errors.New("unknown table in push body")
	ErrInvalidTableShape = errors.New("table changes must be an object of created, updated and deleted lists")
	ErrInvalidBucket     = errors.New("invalid change bucket")
	ErrInvalidRecordID   = errors.New("record id must be a non-empty string")
	ErrInvalidDeletedID  = errors.New("deleted ids must be non-empty strings")
	ErrEmptyOwnerID      = errors.New("owner id is required")
	ErrOwnerMismatch     = errors.New("record owner does not match the authenticated user")
	ErrInvalidWatermark  = errors.New("invalid last_pulled_at")
	ErrInvalidVersion    = errors.New("invalid schema version")
)

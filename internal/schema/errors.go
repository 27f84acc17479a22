package schema

import "errors"

var (
	// ErrUnknownEntity is returned when a push names an entity type that is
	// not part of the registry.
	ErrUnknownEntity = errors.New("unknown entity type")

	// ErrUnsupportedSchemaVersion is returned when the client schema version
	// is not a positive integer or is newer than the server's.
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")

	// ErrInvalidFieldValue is returned when a record field cannot be
	// converted to its column kind.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrMissingID is returned when a record has no string id.
	ErrMissingID = errors.New("record id is missing")
)

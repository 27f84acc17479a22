package service

import "errors"

var (
	ErrInvalidWatermark = errors.New("invalid last_pulled_at")
	ErrMalformedPush    = errors.New("no changes included in body, or it is the wrong shape in the body")
	ErrValidation       = errors.New("validation failed")

	// ErrForeignRecord is returned when a pushed id belongs to another
	// principal. The push is rolled back for the whole entity type.
	ErrForeignRecord = errors.New("access denied")

	ErrComputingChanges = errors.New("error computing change set")
	ErrApplyingChanges  = errors.New("error applying changes")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrEmptyOwnerID            = errors.New("owner id is empty")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrStoreUnavailable      = errors.New("store is unavailable")
)

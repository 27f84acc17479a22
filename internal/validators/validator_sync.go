// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/models"
)

// SyncValidator implements [Validator] for the sync protocol: the raw push
// body, [models.PushRequest] and [models.PullRequest].
type SyncValidator struct {
	registry *schema.Registry
}

// NewSyncValidator constructs a SyncValidator for the entity types of
// registry.
func NewSyncValidator(registry *schema.Registry) Validator {
	return &SyncValidator{registry: registry}
}

// Validate dispatches on the dynamic type of obj.
//
// Supported types:
//   - []byte: the raw push body, checked for shape only
//   - models.PushRequest / *models.PushRequest
//   - models.PullRequest / *models.PullRequest
//
// Returns ErrUnsupportedType for anything else.
func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case []byte:
		return v.validatePushBody(value)
	case models.PushRequest:
		return v.validatePushRequest(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value, fields...)
	case models.PullRequest:
		return v.validatePullRequest(ctx, value, fields...)
	case *models.PullRequest:
		return v.validatePullRequest(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

// validatePushBody checks the body is an object mapping known tables to
// {created: [object], updated: [object], deleted: [string]}. Missing or null
// buckets count as empty.
func (v *SyncValidator) validatePushBody(raw []byte) error {
	if len(raw) == 0 {
		return ErrEmptyBody
	}
	if !gjson.ValidBytes(raw) {
		return ErrMalformedBody
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return ErrMalformedBody
	}

	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		table := key.String()
		if _, ok := v.registry.Entity(table); !ok {
			err = fmt.Errorf("%w: %q", ErrUnknownTable, table)
			return false
		}
		err = validateTableShape(table, value)
		return err == nil
	})

	return err
}

func validateTableShape(table string, value gjson.Result) error {
	if !value.IsObject() {
		return fmt.Errorf("%w: %s", ErrInvalidTableShape, table)
	}

	for _, bucket := range models.Buckets {
		list := value.Get(bucket.String())
		if !list.Exists() || list.Type == gjson.Null {
			continue
		}
		if !list.IsArray() {
			return fmt.Errorf("%w: %s.%s is not a list", ErrInvalidBucket, table, bucket)
		}

		for i, item := range list.Array() {
			switch bucket {
			case models.BucketDeleted:
				if item.Type != gjson.String {
					return fmt.Errorf("%w: %s.%s[%d]", ErrInvalidDeletedID, table, bucket, i)
				}
			default:
				if !item.IsObject() {
					return fmt.Errorf("%w: %s.%s[%d] is not an object", ErrInvalidBucket, table, bucket, i)
				}
			}
		}
	}

	return nil
}

func (v *SyncValidator) validatePushRequest(ctx context.Context, request models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldLastPulledAt, FieldSchemaVersion, FieldChanges}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if request.OwnerID == "" {
				return ErrEmptyOwnerID
			}
		case FieldLastPulledAt:
			if request.LastPulledAt < 0 {
				return ErrInvalidWatermark
			}
		case FieldSchemaVersion:
			if _, err := v.registry.ResolveVersion(request.SchemaVersion); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidVersion, err)
			}
		case FieldChanges:
			if err := v.validateChanges(request.OwnerID, request.Changes); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateChanges(ownerID string, changes models.Changes) error {
	for table, tc := range changes {
		entity, ok := v.registry.Entity(table)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTable, table)
		}
		ownerField := entity.OwnerField()

		for _, bucket := range [][]models.Record{tc.Created, tc.Updated} {
			for i, rec := range bucket {
				if rec.ID() == "" {
					return fmt.Errorf("%w: %s[%d]", ErrInvalidRecordID, table, i)
				}
				if err := checkOwner(rec, ownerField, ownerID); err != nil {
					return fmt.Errorf("%w: %s %q", err, table, rec.ID())
				}
			}
		}

		for i, id := range tc.Deleted {
			if id == "" {
				return fmt.Errorf("%w: %s.deleted[%d]", ErrInvalidDeletedID, table, i)
			}
		}
	}

	return nil
}

// checkOwner accepts a record whose owner field is absent, null, empty or
// equal to the principal.
func checkOwner(rec models.Record, ownerField, ownerID string) error {
	raw, ok := rec[ownerField]
	if !ok || raw == nil {
		return nil
	}

	owner, isString := raw.(string)
	if !isString {
		return ErrOwnerMismatch
	}
	if owner != "" && owner != ownerID {
		return ErrOwnerMismatch
	}
	return nil
}

func (v *SyncValidator) validatePullRequest(ctx context.Context, request models.PullRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldLastPulledAt, FieldSchemaVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if request.OwnerID == "" {
				return ErrEmptyOwnerID
			}
		case FieldLastPulledAt:
			if request.LastPulledAt < 0 {
				return ErrInvalidWatermark
			}
		case FieldSchemaVersion:
			if _, err := v.registry.ResolveVersion(request.SchemaVersion); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidVersion, err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/validators"
	"github.com/MKhiriev/go-delta-sync/models"
)

// SyncValidationService rejects malformed pull and push requests before the
// wrapped service, and therefore the store, sees them.
type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService(registry *schema.Registry) SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewSyncValidator(registry),
	}
}

func (v *SyncValidationService) Pull(ctx context.Context, request models.PullRequest) (models.PullResponse, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.PullResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.Pull(ctx, request)
}

// Push checks the raw body shape, decodes it and then checks the decoded
// records. The inner service receives the decoded changes.
func (v *SyncValidationService) Push(ctx context.Context, request models.PushRequest) (models.PushResult, error) {
	if request.Changes == nil {
		if err := v.validator.Validate(ctx, request.Body); err != nil {
			return models.PushResult{}, fmt.Errorf("%w: %w", ErrMalformedPush, err)
		}

		changes, err := models.DecodeChanges(request.Body)
		if err != nil {
			return models.PushResult{}, fmt.Errorf("%w: %w", ErrMalformedPush, err)
		}
		request.Changes = changes
	}

	if err := v.validator.Validate(ctx, request); err != nil {
		return models.PushResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.Push(ctx, request)
}

func (v *SyncValidationService) Wrap(wrapped SyncService) SyncService {
	v.inner = wrapped
	return v
}

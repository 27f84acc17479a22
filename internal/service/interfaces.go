package service

import (
	"context"

	"github.com/MKhiriev/go-delta-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=SyncServiceWrapper

// SyncService is the reconciler: it serves pull and push requests of the
// delta-sync protocol.
type SyncService interface {
	// Pull computes the changes the client has not seen since its
	// watermark and stamps the next watermark.
	Pull(ctx context.Context, request models.PullRequest) (models.PullResponse, error)
	// Push applies the client's accumulated changes.
	Push(ctx context.Context, request models.PushRequest) (models.PushResult, error)
}

// ChangeSetComputer builds the change set of every entity type for one
// owner. It never writes.
type ChangeSetComputer interface {
	ComputeChanges(ctx context.Context, ownerID string, watermark models.Watermark, version int) (models.Changes, error)
}

// ChangeApplier applies pushed changes to the store.
type ChangeApplier interface {
	ApplyChanges(ctx context.Context, ownerID string, changes models.Changes, version int) (models.PushResult, error)
}

type AuthService interface {
	CreateToken(ctx context.Context, ownerID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

type HealthService interface {
	Check(ctx context.Context) error
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// validating or tracing.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService // returns a decorated SyncService applying additional behavior
}

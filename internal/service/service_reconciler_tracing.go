package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MKhiriev/go-delta-sync/internal/tracing"
	"github.com/MKhiriev/go-delta-sync/models"
)

// SyncTracingService opens a span around every pull and push.
type SyncTracingService struct {
	inner  SyncService
	tracer *tracing.Tracer
}

func NewSyncTracingService(tracer *tracing.Tracer) SyncServiceWrapper {
	return &SyncTracingService{tracer: tracer}
}

func (t *SyncTracingService) Pull(ctx context.Context, request models.PullRequest) (models.PullResponse, error) {
	ctx, span := t.tracer.Start(ctx, "sync.Pull",
		attribute.String(tracing.AttrOwnerID, request.OwnerID),
		attribute.Int64(tracing.AttrWatermark, int64(request.LastPulledAt)),
		attribute.Int(tracing.AttrSchemaVersion, request.SchemaVersion),
	)

	response, err := t.inner.Pull(ctx, request)
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrRecords, response.Changes.Len()))
	}
	tracing.End(span, err)

	return response, err
}

func (t *SyncTracingService) Push(ctx context.Context, request models.PushRequest) (models.PushResult, error) {
	ctx, span := t.tracer.Start(ctx, "sync.Push",
		attribute.String(tracing.AttrOwnerID, request.OwnerID),
		attribute.Int64(tracing.AttrWatermark, int64(request.LastPulledAt)),
		attribute.Int(tracing.AttrSchemaVersion, request.SchemaVersion),
	)

	result, err := t.inner.Push(ctx, request)
	if err == nil {
		applied := 0
		for table, tr := range result.Tables {
			applied += tr.Created + tr.Updated + tr.Deleted
			tracing.AddEvent(ctx, "sync.table_applied",
				attribute.String(tracing.AttrTable, table),
				attribute.Int("sync.created", tr.Created),
				attribute.Int("sync.updated", tr.Updated),
				attribute.Int("sync.deleted", tr.Deleted),
			)
		}
		span.SetAttributes(attribute.Int(tracing.AttrRecords, applied))
	}
	tracing.End(span, err)

	return result, err
}

func (t *SyncTracingService) Wrap(wrapped SyncService) SyncService {
	t.inner = wrapped
	return t
}

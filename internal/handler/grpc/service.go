package grpc

import (
	"context"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/utils"
	"github.com/MKhiriev/go-delta-sync/models"
)

const (
	// ServiceName is the fully qualified name of the sync service.
	ServiceName = "deltasync.v1.SyncService"

	PullMethod = "/" + ServiceName + "/Pull"
	PushMethod = "/" + ServiceName + "/Push"
)

// SyncServer is the server API of the sync service.
type SyncServer interface {
	Pull(ctx context.Context, in *PullRequest) (*PullResponse, error)
	Push(ctx context.Context, in *PushRequest) (*PushResponse, error)
}

// SyncServiceDesc describes the sync service for [grpc.ServiceRegistrar].
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Pull", Handler: pullHandler},
		{MethodName: "Push", Handler: pushHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func pullHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PullRequest)
	if err := dec(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, app.MsgInvalidDataProvided)
	}
	if interceptor == nil {
		return srv.(SyncServer).Pull(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Pull(ctx, req.(*PullRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pushHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PushRequest)
	if err := dec(in); err != nil {
		return nil, status.Error(codes.InvalidArgument, app.MsgMalformedPushBody)
	}
	if interceptor == nil {
		return srv.(SyncServer).Push(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PushMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Push(ctx, req.(*PushRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Pull implements [SyncServer].
func (h *Handler) Pull(ctx context.Context, in *PullRequest) (*PullResponse, error) {
	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		return nil, status.Error(codes.Unauthenticated, app.MsgNoOwnerIDProvided)
	}

	watermark, err := parseWatermark(in.LastPulledAt)
	if err != nil {
		return nil, statusFromError(ctx, "Handler.Pull", err)
	}

	response, err := h.services.SyncService.Pull(ctx, models.PullRequest{
		OwnerID:       ownerID,
		LastPulledAt:  watermark,
		SchemaVersion: in.SchemaVersion,
	})
	if err != nil {
		return nil, statusFromError(ctx, "Handler.Pull", err)
	}

	return &response, nil
}

// Push implements [SyncServer].
func (h *Handler) Push(ctx context.Context, in *PushRequest) (*PushResponse, error) {
	ownerID, found := utils.GetOwnerIDFromContext(ctx)
	if !found {
		return nil, status.Error(codes.Unauthenticated, app.MsgNoOwnerIDProvided)
	}

	watermark, err := parseWatermark(in.LastPulledAt)
	if err != nil {
		return nil, statusFromError(ctx, "Handler.Push", err)
	}

	result, err := h.services.SyncService.Push(ctx, models.PushRequest{
		OwnerID:       ownerID,
		LastPulledAt:  watermark,
		SchemaVersion: in.SchemaVersion,
		Body:          in.Changes,
	})
	if err != nil {
		return nil, statusFromError(ctx, "Handler.Push", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "Handler.Push").
		Int("tables", len(result.Tables)).
		Msg("push acknowledged")

	return &PushResponse{Status: models.StatusOK}, nil
}

func parseWatermark(ms *int64) (models.Watermark, error) {
	if ms == nil {
		return 0, nil
	}
	return service.ParseWatermark(strconv.FormatInt(*ms, 10))
}

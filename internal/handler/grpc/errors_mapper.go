package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/logger"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/validators"
)

type errorCode struct {
	target  error
	code    codes.Code
	message string
}

// errorCodes is checked in order and the first match wins. An empty message
// means the error text itself is safe to return.
var errorCodes = []errorCode{
	{service.ErrForeignRecord, codes.PermissionDenied, app.MsgAccessDenied},
	{validators.ErrOwnerMismatch, codes.PermissionDenied, app.MsgAccessDenied},

	{service.ErrInvalidWatermark, codes.InvalidArgument, app.MsgInvalidWatermark},
	{validators.ErrInvalidWatermark, codes.InvalidArgument, app.MsgInvalidWatermark},
	{schema.ErrUnsupportedSchemaVersion, codes.InvalidArgument, app.MsgUnsupportedSchemaVersion},
	{service.ErrMalformedPush, codes.InvalidArgument, app.MsgMalformedPushBody},
	{validators.ErrEmptyOwnerID, codes.InvalidArgument, app.MsgNoOwnerIDProvided},
	{service.ErrValidation, codes.InvalidArgument, ""},

	{service.ErrTokenIsExpiredOrInvalid, codes.Unauthenticated, app.MsgTokenIsExpiredOrInvalid},
	{service.ErrStoreUnavailable, codes.Unavailable, app.MsgStoreUnavailable},
	{context.DeadlineExceeded, codes.DeadlineExceeded, app.MsgRequestTimeout},
	{context.Canceled, codes.Canceled, app.MsgRequestTimeout},
}

// codeFromError returns the gRPC code and message for err. Anything unknown
// is Internal and its text is not exposed.
func codeFromError(err error) (codes.Code, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.target) {
			if e.message == "" {
				return e.code, err.Error()
			}
			return e.code, e.message
		}
	}
	return codes.Internal, app.MsgInternalServerError
}

// statusFromError logs err and converts it to a gRPC status error.
func statusFromError(ctx context.Context, fn string, err error) error {
	code, message := codeFromError(err)

	log := logger.FromContext(ctx)
	event := log.Warn()
	if code == codes.Internal {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Str("code", code.String()).Msg("sync call failed")

	return status.Error(code, message)
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-delta-sync/internal/app"
	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/internal/service"
	"github.com/MKhiriev/go-delta-sync/internal/validators"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is checked in order and the first match wins. An empty
// message means the error text itself is safe to return.
var errorResponses = []errorResponse{
	{service.ErrForeignRecord, http.StatusForbidden, app.MsgAccessDenied},
	{validators.ErrOwnerMismatch, http.StatusForbidden, app.MsgAccessDenied},

	{service.ErrInvalidWatermark, http.StatusBadRequest, app.MsgInvalidWatermark},
	{validators.ErrInvalidWatermark, http.StatusBadRequest, app.MsgInvalidWatermark},
	{ErrInvalidSchemaVersion, http.StatusBadRequest, app.MsgUnsupportedSchemaVersion},
	{schema.ErrUnsupportedSchemaVersion, http.StatusBadRequest, app.MsgUnsupportedSchemaVersion},
	{service.ErrMalformedPush, http.StatusBadRequest, app.MsgMalformedPushBody},
	{validators.ErrEmptyOwnerID, http.StatusBadRequest, app.MsgNoOwnerIDProvided},
	{service.ErrValidation, http.StatusBadRequest, ""},

	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable, app.MsgStoreUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, app.MsgRequestTimeout},
}

// responseFromError returns the status code and {"status"} message for err.
// Anything unknown is an internal error and its text is not exposed.
func responseFromError(err error) (int, string) {
	for _, r := range errorResponses {
		if errors.Is(err, r.target) {
			if r.message == "" {
				return r.status, err.Error()
			}
			return r.status, r.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

func statusFromError(err error) int {
	status, _ := responseFromError(err)
	return status
}

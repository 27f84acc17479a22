package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapHTTPError turns a non-2xx response into a sentinel error carrying the
// server's {"status": ...} message.
func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	message := statusMessage(resp.Body())
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, message)
	case code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrServerUnavailable, message)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, message)
	default:
		return fmt.Errorf("http %d: %s", code, message)
	}
}

func statusMessage(body []byte) string {
	if result := gjson.GetBytes(body, "status"); result.Type == gjson.String {
		return result.String()
	}
	return strings.TrimSpace(string(body))
}

// mapGRPCError does for gRPC status codes what mapHTTPError does for HTTP.
func mapGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var target error
	switch st.Code() {
	case codes.InvalidArgument:
		target = ErrBadRequest
	case codes.Unauthenticated:
		target = ErrUnauthorized
	case codes.PermissionDenied:
		target = ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		target = ErrServerUnavailable
	case codes.Internal, codes.Unknown:
		target = ErrInternalServerError
	default:
		return fmt.Errorf("grpc %s: %s", st.Code(), st.Message())
	}
	return fmt.Errorf("%w: %s", target, st.Message())
}

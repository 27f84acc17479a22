package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-delta-sync/models"
)

// isAbsentWatermark reports whether raw is one of the spellings of "never
// pulled": missing, empty or the literal null.
func isAbsentWatermark(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == "null"
}

// ResolveWatermark turns the client's last_pulled_at into a lower bound for
// change queries. It never fails: absent and malformed values resolve to the
// epoch start.
func ResolveWatermark(raw string) models.Watermark {
	w, err := ParseWatermark(raw)
	if err != nil {
		return 0
	}
	return w
}

// ParseWatermark is the strict form of [ResolveWatermark]. Transports call it
// first so that malformed input becomes a client error instead of a full
// resync.
func ParseWatermark(raw string) (models.Watermark, error) {
	if isAbsentWatermark(raw) {
		return 0, nil
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWatermark, raw)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%w: %d is before the epoch", ErrInvalidWatermark, ms)
	}

	return models.Watermark(ms), nil
}

package models

import "time"

// Watermark is the "client has seen everything up to here" boundary,
// expressed in milliseconds since the Unix epoch.
//
// The server never stores watermarks: each pull response's Timestamp becomes
// the client's next watermark.
type Watermark int64

// NewWatermark converts t to a Watermark with millisecond precision.
func NewWatermark(t time.Time) Watermark {
	return Watermark(t.UnixMilli())
}

// Time returns the watermark as a UTC time.
func (w Watermark) Time() time.Time {
	return time.UnixMilli(int64(w)).UTC()
}

// IsZero reports whether the watermark is the epoch start, i.e. the client
// has never pulled before.
func (w Watermark) IsZero() bool {
	return w == 0
}

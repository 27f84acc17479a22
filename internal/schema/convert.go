package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MKhiriev/go-delta-sync/models"
)

// ToRow converts a client record to the server representation. Only columns
// known at the given schema version are read; other fields are ignored. The
// owner column is always set to ownerID, whatever the client sent.
func (e Entity) ToRow(rec models.Record, version int, ownerID string) (Row, error) {
	id, ok := rec[models.RecordIDField].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingID, e.Table)
	}

	row := make(Row, len(e.columns))
	for _, c := range e.Columns(version) {
		switch c.Role {
		case RoleID:
			row[c.Server] = id
			continue
		case RoleOwner:
			row[c.Server] = ownerID
			continue
		}

		raw, present := rec[c.Client]
		if !present {
			continue
		}

		v, err := toServerValue(c.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidFieldValue, e.Table, c.Client, err)
		}
		row[c.Server] = v
	}

	return row, nil
}

// ToRecord converts a server row to the client representation at the given
// schema version. Columns introduced after that version are omitted, and so
// is the deletion marker.
func (e Entity) ToRecord(row Row, version int) models.Record {
	rec := make(models.Record, len(e.columns))
	for _, c := range e.Columns(version) {
		v, ok := row[c.Server]
		if !ok {
			continue
		}
		rec[c.Client] = toClientValue(v)
	}
	return rec
}

func toServerValue(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch kind {
	case KindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case KindNumber:
		return toFloat(v)
	case KindTimestamp:
		ms, err := toMillis(v)
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	return nil, fmt.Errorf("unknown column kind %d", kind)
}

func toClientValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UnixMilli()
	case []byte:
		return string(t)
	}
	return v
}

func toFloat(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %v is not finite", f)
	}
	return f, nil
}

// toMillis accepts epoch milliseconds as a number or numeric string, and
// RFC 3339 strings.
func toMillis(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return ms, nil
		}
		f, err := toFloat(t)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return ms, nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return 0, fmt.Errorf("expected epoch milliseconds or RFC 3339 time, got %q", t)
		}
		return parsed.UnixMilli(), nil
	case time.Time:
		return t.UnixMilli(), nil
	}

	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

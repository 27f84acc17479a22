package store

import (
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
)

// newHolder returns a scan destination matching the column kind.
func newHolder(kind schema.Kind) any {
	switch kind {
	case schema.KindNumber:
		return new(sql.NullFloat64)
	case schema.KindTimestamp:
		return new(sql.NullTime)
	default:
		return new(sql.NullString)
	}
}

// holderValue unwraps a scanned holder; SQL NULL becomes nil.
func holderValue(holder any) any {
	switch h := holder.(type) {
	case *sql.NullFloat64:
		if h.Valid {
			return h.Float64
		}
	case *sql.NullTime:
		if h.Valid {
			return h.Time.UTC()
		}
	case *sql.NullString:
		if h.Valid {
			return h.String
		}
	}
	return nil
}

// scanRows reads full rows selected with [selectColumns].
func scanRows(rows *sql.Rows, entity schema.Entity) ([]schema.Row, error) {
	columns := entity.AllColumns()
	names := selectColumns(entity)

	results := make([]schema.Row, 0, 16)
	for rows.Next() {
		holders := make([]any, 0, len(names))
		for _, c := range columns {
			holders = append(holders, newHolder(c.Kind))
		}
		holders = append(holders, newHolder(schema.KindTimestamp))

		if err := rows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		row := make(schema.Row, len(names))
		for i, name := range names {
			row[name] = holderValue(holders[i])
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return results, nil
}

// scanIDs reads id-only rows of the deleted bucket.
func scanIDs(rows *sql.Rows) ([]schema.Row, error) {
	results := make([]schema.Row, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		results = append(results, schema.Row{schema.ColumnID: id})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return results, nil
}

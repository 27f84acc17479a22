package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/models"
)

// upsertBatchSize bounds the rows of one INSERT so that the statement stays
// below the bind-variable limits of both dialects.
const upsertBatchSize = 500

// selectColumns lists every server column of entity followed by the
// deletion marker. Scanning relies on this order.
func selectColumns(entity schema.Entity) []string {
	columns := entity.AllColumns()
	names := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		names = append(names, c.Server)
	}
	return append(names, schema.ColumnDeletedAt)
}

// buildFindQuery builds the SELECT of one change bucket. Comparisons against
// the watermark are strict on every bucket.
func buildFindQuery(b sq.StatementBuilderType, entity schema.Entity, p Predicate) (string, []any, error) {
	owner := sq.Eq{schema.ColumnOwner: p.OwnerID}

	var query sq.SelectBuilder
	switch p.Bucket {
	case models.BucketCreated:
		query = b.Select(selectColumns(entity)...).
			From(entity.Table).
			Where(owner).
			Where(sq.Gt{schema.ColumnCreatedAt: p.Since}).
			Where(sq.Eq{schema.ColumnDeletedAt: nil}).
			OrderBy(schema.ColumnUpdatedAt, schema.ColumnID)
	case models.BucketUpdated:
		query = b.Select(selectColumns(entity)...).
			From(entity.Table).
			Where(owner).
			Where(sq.LtOrEq{schema.ColumnCreatedAt: p.Since}).
			Where(sq.Gt{schema.ColumnUpdatedAt: p.Since}).
			Where(sq.Eq{schema.ColumnDeletedAt: nil}).
			OrderBy(schema.ColumnUpdatedAt, schema.ColumnID)
	case models.BucketDeleted:
		query = b.Select(schema.ColumnID).
			From(entity.Table).
			Where(owner).
			Where(sq.NotEq{schema.ColumnDeletedAt: nil}).
			Where(sq.Gt{schema.ColumnDeletedAt: p.Since}).
			OrderBy(schema.ColumnID)
	default:
		return "", nil, fmt.Errorf("%w: unknown bucket %d", ErrBuildingSQLQuery, p.Bucket)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}

// upsertColumns returns, in entity order, every column set by at least one
// row. The protocol columns are always included so that the conflict clause
// has something to merge.
func upsertColumns(entity schema.Entity, rows []schema.Row) []string {
	columns := make([]string, 0, len(entity.AllColumns()))
	for _, c := range entity.AllColumns() {
		include := c.Role != schema.RoleData
		for _, row := range rows {
			if include {
				break
			}
			_, include = row[c.Server]
		}
		if include {
			columns = append(columns, c.Server)
		}
	}
	return columns
}

// buildUpsertQuery builds a multi-row insert that merges into existing rows
// of the same owner: pushed non-null values win, nulls keep the stored value.
// Rows owned by someone else fail the conflict WHERE and are skipped, so the
// affected-row count reveals them.
func buildUpsertQuery(b sq.StatementBuilderType, entity schema.Entity, rows []schema.Row) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("%w: no rows to upsert", ErrBuildingSQLQuery)
	}

	columns := upsertColumns(entity, rows)
	insert := b.Insert(entity.Table).Columns(columns...)
	for _, row := range rows {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = row[c]
		}
		insert = insert.Values(values...)
	}

	set := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == schema.ColumnID || c == schema.ColumnOwner {
			continue
		}
		set = append(set, fmt.Sprintf("%[1]s = COALESCE(excluded.%[1]s, %[2]s.%[1]s)", c, entity.Table))
	}

	insert = insert.Suffix(fmt.Sprintf(
		"ON CONFLICT (%s) DO UPDATE SET %s WHERE %s.%s = excluded.%s",
		schema.ColumnID,
		strings.Join(set, ", "),
		entity.Table, schema.ColumnOwner, schema.ColumnOwner,
	))

	sqlStr, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}

// buildUpdateQuery builds a point update of the fields present in row. The
// id and owner are filters, never targets.
func buildUpdateQuery(b sq.StatementBuilderType, entity schema.Entity, ownerID string, row schema.Row) (string, []any, error) {
	fields := make(map[string]any, len(row))
	for k, v := range row {
		if k == schema.ColumnID || k == schema.ColumnOwner || k == schema.ColumnDeletedAt {
			continue
		}
		fields[k] = v
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: nothing to update for %s %q", ErrBuildingSQLQuery, entity.Table, row.ID())
	}

	sqlStr, args, err := b.Update(entity.Table).
		SetMap(fields).
		Where(sq.Eq{schema.ColumnID: row.ID(), schema.ColumnOwner: ownerID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}

// buildSoftDeleteQuery tombstones live records of ownerID. Already deleted
// records are not touched, so repeated deletes keep the first timestamp.
func buildSoftDeleteQuery(b sq.StatementBuilderType, entity schema.Entity, ownerID string, ids []string, at any) (string, []any, error) {
	sqlStr, args, err := b.Update(entity.Table).
		Set(schema.ColumnDeletedAt, at).
		Set(schema.ColumnUpdatedAt, at).
		Where(sq.Eq{schema.ColumnOwner: ownerID, schema.ColumnID: ids}).
		Where(sq.Eq{schema.ColumnDeletedAt: nil}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlStr, args, nil
}

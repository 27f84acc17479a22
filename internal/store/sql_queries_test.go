package store

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-delta-sync/internal/schema"
	"github.com/MKhiriev/go-delta-sync/models"
)

var notes = schema.NewEntity("notes", "author_id",
	schema.Column{Client: "title", Server: "title", Kind: schema.KindText},
	schema.Column{Client: "score", Server: "score", Kind: schema.KindNumber},
)

var (
	pgBuilder     = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
)

func TestSelectColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "owner_id", "created_at", "updated_at", "title", "score", "deleted_at"},
		selectColumns(notes))
}

func TestBuildFindQuery(t *testing.T) {
	since := time.UnixMilli(1_700_000_000_000).UTC()
	const columns = "SELECT id, owner_id, created_at, updated_at, title, score, deleted_at FROM notes "

	tests := []struct {
		name    string
		bucket  models.Bucket
		want    string
		wantErr bool
	}{
		{
			name:   "created",
			bucket: models.BucketCreated,
			want: columns +
				"WHERE owner_id = $1 AND created_at > $2 AND deleted_at IS NULL ORDER BY updated_at, id",
		},
		{
			name:   "updated",
			bucket: models.BucketUpdated,
			want: columns +
				"WHERE owner_id = $1 AND created_at <= $2 AND updated_at > $3 AND deleted_at IS NULL ORDER BY updated_at, id",
		},
		{
			name:   "deleted",
			bucket: models.BucketDeleted,
			want:   "SELECT id FROM notes WHERE owner_id = $1 AND deleted_at IS NOT NULL AND deleted_at > $2 ORDER BY id",
		},
		{
			name:    "unknown bucket",
			bucket:  models.Bucket(42),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildFindQuery(pgBuilder, notes, Predicate{OwnerID: "u1", Bucket: tt.bucket, Since: since})
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBuildingSQLQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, "u1", args[0])
			for _, arg := range args[1:] {
				assert.Equal(t, since, arg)
			}
		})
	}
}

func TestBuildFindQuery_SQLitePlaceholders(t *testing.T) {
	query, _, err := buildFindQuery(sqliteBuilder, notes, Predicate{OwnerID: "u1", Bucket: models.BucketUpdated})
	require.NoError(t, err)
	assert.Contains(t, query, "owner_id = ? AND created_at <= ? AND updated_at > ?")
	assert.NotContains(t, query, "$")
}

func TestUpsertColumns(t *testing.T) {
	rows := []schema.Row{
		{"id": "a", "owner_id": "u1"},
		{"id": "b", "owner_id": "u1", "score": 3.5},
	}

	assert.Equal(t,
		[]string{"id", "owner_id", "created_at", "updated_at", "score"},
		upsertColumns(notes, rows))
}

func TestBuildUpsertQuery(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000).UTC()
	rows := []schema.Row{
		{"id": "a", "owner_id": "u1", "created_at": now, "updated_at": now, "title": "first"},
		{"id": "b", "owner_id": "u1", "created_at": now, "updated_at": now},
	}

	query, args, err := buildUpsertQuery(pgBuilder, notes, rows)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO notes (id,owner_id,created_at,updated_at,title) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)")
	assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE SET "+
		"created_at = COALESCE(excluded.created_at, notes.created_at), "+
		"updated_at = COALESCE(excluded.updated_at, notes.updated_at), "+
		"title = COALESCE(excluded.title, notes.title) "+
		"WHERE notes.owner_id = excluded.owner_id")
	assert.NotContains(t, query, "owner_id = COALESCE")

	assert.Equal(t, []any{"a", "u1", now, now, "first", "b", "u1", now, now, nil}, args)
}

func TestBuildUpsertQuery_NoRows(t *testing.T) {
	_, _, err := buildUpsertQuery(pgBuilder, notes, nil)
	require.ErrorIs(t, err, ErrBuildingSQLQuery)
}

func TestBuildUpdateQuery(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000).UTC()
	row := schema.Row{"id": "a", "owner_id": "intruder", "title": "renamed", "updated_at": now, "deleted_at": now}

	query, args, err := buildUpdateQuery(pgBuilder, notes, "u1", row)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE notes SET title = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4", query)
	assert.Equal(t, []any{"renamed", now, "a", "u1"}, args)
}

func TestBuildUpdateQuery_NothingToUpdate(t *testing.T) {
	_, _, err := buildUpdateQuery(pgBuilder, notes, "u1", schema.Row{"id": "a", "owner_id": "u1"})
	require.ErrorIs(t, err, ErrBuildingSQLQuery)
}

func TestBuildSoftDeleteQuery(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000).UTC()

	query, args, err := buildSoftDeleteQuery(pgBuilder, notes, "u1", []string{"a", "b"}, now)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE notes SET deleted_at = $1, updated_at = $2 WHERE id IN ($3,$4) AND owner_id = $5 AND deleted_at IS NULL",
		query)
	assert.Equal(t, []any{now, now, "a", "b", "u1"}, args)
}

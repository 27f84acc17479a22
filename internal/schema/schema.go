// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import "fmt"

// Kind is the value kind of a column. It decides how a value is converted
// between the client and server representations.
type Kind int

const (
	// KindText is a string on both sides.
	KindText Kind = iota
	// KindNumber is a JSON number on the client and a double on the server.
	KindNumber
	// KindTimestamp is epoch milliseconds on the client and a native
	// timestamp on the server.
	KindTimestamp
)

// Role marks the columns the sync protocol itself depends on.
type Role int

const (
	RoleData Role = iota
	RoleID
	RoleOwner
	RoleCreatedAt
	RoleUpdatedAt
)

// Server-side names of the protocol columns shared by every entity table.
const (
	ColumnID        = "id"
	ColumnOwner     = "owner_id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnDeletedAt = "deleted_at"
)

// Column maps one client field to one server column.
type Column struct {
	// Client is the field name in the client record.
	Client string
	// Server is the column name in the store.
	Server string
	// Kind drives value conversion.
	Kind Kind
	// Since is the first schema version carrying this column.
	Since int
	// Role is RoleData for ordinary columns.
	Role Role
}

// Row is a record in the server representation, keyed by server column name.
// Values are string, float64, time.Time or nil.
type Row map[string]any

// ID returns the row identifier.
func (r Row) ID() string {
	id, _ := r[ColumnID].(string)
	return id
}

// Entity describes one synchronized entity type.
type Entity struct {
	// Table is both the wire name of the entity type and the store table.
	Table   string
	columns []Column
}

// NewEntity builds an entity from the protocol columns common to every
// table plus the given data columns. ownerField is the client name of the
// owner field.
func NewEntity(table, ownerField string, data ...Column) Entity {
	columns := []Column{
		{Client: "id", Server: ColumnID, Kind: KindText, Since: 1, Role: RoleID},
		{Client: ownerField, Server: ColumnOwner, Kind: KindText, Since: 1, Role: RoleOwner},
		{Client: "created_at", Server: ColumnCreatedAt, Kind: KindTimestamp, Since: 1, Role: RoleCreatedAt},
		{Client: "updated_at", Server: ColumnUpdatedAt, Kind: KindTimestamp, Since: 1, Role: RoleUpdatedAt},
	}
	for _, c := range data {
		if c.Since == 0 {
			c.Since = 1
		}
		c.Role = RoleData
		columns = append(columns, c)
	}

	return Entity{Table: table, columns: columns}
}

// Columns returns the columns visible to a client at the given schema version.
func (e Entity) Columns(version int) []Column {
	out := make([]Column, 0, len(e.columns))
	for _, c := range e.columns {
		if c.Since <= version {
			out = append(out, c)
		}
	}
	return out
}

// AllColumns returns every column of the entity regardless of version.
func (e Entity) AllColumns() []Column {
	out := make([]Column, len(e.columns))
	copy(out, e.columns)
	return out
}

// ColumnByRole returns the protocol column with the given role.
func (e Entity) ColumnByRole(role Role) Column {
	for _, c := range e.columns {
		if c.Role == role {
			return c
		}
	}
	return Column{}
}

// OwnerField returns the client name of the owner field.
func (e Entity) OwnerField() string {
	return e.ColumnByRole(RoleOwner).Client
}

// Registry is the fixed, versioned table of entity mappings the core
// consults. It is safe for concurrent use because it is never mutated after
// construction.
type Registry struct {
	version  int
	entities []Entity
	byTable  map[string]Entity
}

// NewRegistry builds a registry at the given current schema version.
// Entities are kept in the order given; pushes are applied in that order.
func NewRegistry(version int, entities ...Entity) *Registry {
	r := &Registry{
		version:  version,
		entities: entities,
		byTable:  make(map[string]Entity, len(entities)),
	}
	for _, e := range entities {
		r.byTable[e.Table] = e
	}
	return r
}

// CurrentVersion returns the newest schema version the server understands.
func (r *Registry) CurrentVersion() int {
	return r.version
}

// Entities returns all entity types in application order.
func (r *Registry) Entities() []Entity {
	return r.entities
}

// Entity looks up an entity type by table name.
func (r *Registry) Entity(table string) (Entity, bool) {
	e, ok := r.byTable[table]
	return e, ok
}

// Tables returns the table names in application order.
func (r *Registry) Tables() []string {
	tables := make([]string, 0, len(r.entities))
	for _, e := range r.entities {
		tables = append(tables, e.Table)
	}
	return tables
}

// ResolveVersion normalizes a client schema version: zero means "current",
// anything outside 1..CurrentVersion is rejected.
func (r *Registry) ResolveVersion(version int) (int, error) {
	if version == 0 {
		return r.version, nil
	}
	if version < 1 || version > r.version {
		return 0, fmt.Errorf("%w: %d (server supports 1..%d)", ErrUnsupportedSchemaVersion, version, r.version)
	}
	return version, nil
}

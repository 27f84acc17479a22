package models

// Record is a single synchronized entity in the client representation:
// snake-case field names and epoch-millisecond timestamps, exactly as the
// offline client stores and transmits it.
//
// Records are kept as a generic map because the set of fields is defined by
// the versioned entity schema rather than by Go types. Translation to the
// server representation happens in the schema package.
type Record map[string]any

// RecordIDField is the client field holding the record's natural key.
const RecordIDField = "id"

// ID returns the record identifier, or an empty string if the field is
// missing or is not a string.
func (r Record) ID() string {
	id, _ := r[RecordIDField].(string)
	return id
}

// Has reports whether the record carries the given field, even if its value is null.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

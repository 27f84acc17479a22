// Package schema holds the versioned mapping between the client-side shape
// of synchronized records and their server-side representation.
//
// Every entity type is described once, as a table of columns. Each column
// names the client field, the server column, the value kind and the schema
// version that introduced it. All field renaming and type translation
// (epoch milliseconds to native timestamps, owner field to owner column)
// goes through [Entity.ToRow] and [Entity.ToRecord]; nothing else in the
// repository translates field names.
package schema

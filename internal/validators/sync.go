package validators

// Field name constants used to scope validation of sync requests.
const (
	// FieldOwnerID targets the authenticated principal of a request.
	FieldOwnerID = "owner_id"

	// FieldLastPulledAt targets the resolved watermark.
	FieldLastPulledAt = "last_pulled_at"

	// FieldSchemaVersion targets the client schema version.
	FieldSchemaVersion = "schema_version"

	// FieldChanges targets the decoded per-table change sets of a push.
	FieldChanges = "changes"
)

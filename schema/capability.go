package schema

// SchemaCapability records which optional columns the probed database schema
// actually carries. It is produced once per ingestion run and passed to the
// upsert coordinator so insert statements can be shaped to the live schema.
// It is never cached across runs.
type SchemaCapability struct {
	// HasIsIndoor reports whether workouts.is_indoor exists. Older
	// deployments predate the migration which introduces the column.
	HasIsIndoor bool
}

package workoutstore

import (
	"context"
	"fmt"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

// ProbeCapability inspects the live schema for the optional columns this
// version knows how to use. Probing happens once per ingestion run and the
// result is threaded through as a value; it is never cached across runs, so
// out-of-band migrations are honored on the next run.
func (ws *WorkoutStoreImpl) ProbeCapability(ctx context.Context) schema.SchemaCapability {
	return schema.SchemaCapability{
		HasIsIndoor: ws.HasColumn(ctx, workoutsTable, "is_indoor"),
	}
}

// HasColumn reports whether a column exists on a table. Any probe failure
// logs a warning and degrades to false so inserts simply omit the column;
// a probe must never abort an ingestion run.
func (ws *WorkoutStoreImpl) HasColumn(ctx context.Context, table, column string) bool {
	if ws.db == nil {
		return false
	}
	if err := validateTableName(table); err != nil {
		contract.LogWarn("Schema probe rejected table name", err)
		return false
	}
	if err := validateTableName(column); err != nil {
		contract.LogWarn("Schema probe rejected column name", err)
		return false
	}

	found, err := ws.columnExists(ctx, table, column)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Schema probe failed for %s.%s", table, column), err)
		return false
	}
	return found
}

// columnExists runs the backend-specific metadata query.
func (ws *WorkoutStoreImpl) columnExists(ctx context.Context, table, column string) (bool, error) {
	switch ws.backend {
	case schema.MySQLBackend:
		query := `
			SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
		var count int64
		if err := ws.db.QueryRowContext(ctx, query, table, column).Scan(&count); err != nil {
			return false, err
		}
		return count > 0, nil

	case schema.PostgreSQLBackend:
		query := `
			SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
		var count int64
		if err := ws.db.QueryRowContext(ctx, query, table, column).Scan(&count); err != nil {
			return false, err
		}
		return count > 0, nil

	default: // SQLite
		// Table name is validated above; PRAGMA cannot take bind parameters.
		query := fmt.Sprintf("SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = ?", table)
		var count int64
		if err := ws.db.QueryRowContext(ctx, query, column).Scan(&count); err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

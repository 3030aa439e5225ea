package workoutstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

// workoutColumn declares one column of a workout insert. Columns with an
// include predicate participate only when the probed capability allows it,
// which is how inserts stay valid against schemas that predate optional
// columns.
type workoutColumn struct {
	name    string
	include func(capability schema.SchemaCapability) bool
	value   func(w *schema.Workout, backend schema.DatabaseBackend) any
}

// workoutColumns is the declarative insert shape for the workouts table.
var workoutColumns = []workoutColumn{
	{name: "user_id", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return w.UserID }},
	{name: "sport", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return w.Sport }},
	{name: "start_time", value: func(w *schema.Workout, b schema.DatabaseBackend) any { return formatTime(w.StartTime, b) }},
	{name: "end_time", value: func(w *schema.Workout, b schema.DatabaseBackend) any { return formatNullableTime(w.EndTime, b) }},
	{name: "workout_type", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return w.WorkoutType }},
	{name: "calories_burned", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.CaloriesBurned) }},
	{name: "avg_heart_rate", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgHeartRate) }},
	{name: "max_heart_rate", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.MaxHeartRate) }},
	{name: "vo2max_estimate", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.VO2MaxEstimate) }},
	{name: "lactate_threshold_bpm", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.LactateThresholdBpm) }},
	{name: "time_in_hr_zone_1", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TimeInHRZone1) }},
	{name: "time_in_hr_zone_2", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TimeInHRZone2) }},
	{name: "time_in_hr_zone_3", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TimeInHRZone3) }},
	{name: "time_in_hr_zone_4", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TimeInHRZone4) }},
	{name: "time_in_hr_zone_5", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TimeInHRZone5) }},
	{name: "training_volume", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.TrainingVolume) }},
	{name: "avg_vertical_oscillation", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgVerticalOscillation) }},
	{name: "avg_ground_contact_time", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgGroundContactTime) }},
	{name: "avg_stride_length", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgStrideLength) }},
	{name: "avg_vertical_ratio", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgVerticalRatio) }},
	{name: "avg_running_cadence", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.AvgRunningCadence) }},
	{name: "max_running_cadence", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return nullableFloat(w.MaxRunningCadence) }},
	{name: "location", value: func(w *schema.Workout, _ schema.DatabaseBackend) any { return w.Location }},
	{name: "workout_date", value: func(w *schema.Workout, b schema.DatabaseBackend) any { return formatNullableTime(w.WorkoutDate, b) }},
	{
		name:    "is_indoor",
		include: func(capability schema.SchemaCapability) bool { return capability.HasIsIndoor },
		value:   func(w *schema.Workout, _ schema.DatabaseBackend) any { return w.IsIndoor },
	},
}

// metricPointColumns is the insert shape for workout_metric_points: the two
// key columns followed by every metric field in declared order.
var metricPointColumns = buildMetricPointColumns()

func buildMetricPointColumns() []string {
	columns := []string{"workout_id", "ts"}
	for _, field := range schema.MetricFields {
		columns = append(columns, string(field))
	}
	return columns
}

var routePointColumns = []string{
	"workout_id", "ts", "synthesized", "latitude", "longitude",
	"altitude", "speed", "cumulative_ascent", "cumulative_descent", "distance_from_start",
}

var hrZoneColumns = []string{
	"workout_id", "zone_number", "seconds_in_zone", "zone_low_boundary",
}

// UpsertActivity persists one activity bundle as a single transactional unit.
//
// Protocol: find the workout by (user_id, start_time) and reuse its identity,
// else insert one shaped by the probed capability; delete all existing child
// records; insert the new children in batches, isolating bad rows by per-row
// retry when a batch fails; then commit. Any fatal error rolls back the whole
// unit so re-running the same activity can never half-apply.
func (ws *WorkoutStoreImpl) UpsertActivity(ctx context.Context, bundle *schema.ActivityBundle, capability schema.SchemaCapability, batchSize int) (schema.ActivityOutcome, error) {
	outcome := schema.ActivityOutcome{
		Name:           bundle.Workout.WorkoutType,
		Sport:          bundle.Workout.Sport,
		StartTime:      bundle.Workout.StartTime,
		SkippedSamples: bundle.SkippedSamples,
	}

	if batchSize <= 0 {
		batchSize = contract.DefaultBatchSize
	}

	// No-op store: report the bundle as if inserted without persistence.
	if ws.db == nil {
		outcome.MetricPoints = len(bundle.MetricPoints)
		outcome.RoutePoints = len(bundle.RoutePoints)
		outcome.HeartRateZones = len(bundle.HeartRateZones)
		return outcome, nil
	}

	tx, err := ws.db.BeginTx(ctx, nil)
	if err != nil {
		return outcome, fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	workoutID, matched, err := ws.findWorkout(ctx, tx, &bundle.Workout)
	if err != nil {
		return outcome, err
	}
	if !matched {
		workoutID, err = ws.insertWorkout(ctx, tx, &bundle.Workout, capability)
		if err != nil {
			return outcome, err
		}
	}
	outcome.WorkoutID = workoutID
	outcome.Matched = matched

	// Replace-on-conflict: children are always rebuilt from this run.
	for _, table := range []string{metricPointsTable, routePointsTable, hrZonesTable} {
		if err := ws.deleteChildren(ctx, tx, table, workoutID); err != nil {
			return outcome, err
		}
	}

	metricFailures, err := ws.insertChildRows(ctx, tx, metricPointsTable, metricPointColumns, ws.metricPointRows(workoutID, bundle.MetricPoints), batchSize)
	if err != nil {
		return outcome, err
	}
	routeFailures, err := ws.insertChildRows(ctx, tx, routePointsTable, routePointColumns, ws.routePointRows(workoutID, bundle.RoutePoints), batchSize)
	if err != nil {
		return outcome, err
	}
	zoneFailures, err := ws.insertChildRows(ctx, tx, hrZonesTable, hrZoneColumns, ws.hrZoneRows(workoutID, bundle.HeartRateZones), batchSize)
	if err != nil {
		return outcome, err
	}

	if err := tx.Commit(); err != nil {
		return outcome, fmt.Errorf("failed to commit upsert for workout %d: %w", workoutID, err)
	}
	committed = true

	outcome.FailedRows = append(append(metricFailures, routeFailures...), zoneFailures...)
	outcome.MetricPoints = len(bundle.MetricPoints) - len(metricFailures)
	outcome.RoutePoints = len(bundle.RoutePoints) - len(routeFailures)
	outcome.HeartRateZones = len(bundle.HeartRateZones) - len(zoneFailures)
	return outcome, nil
}

// findWorkout looks up the workout identity for (user_id, start_time).
func (ws *WorkoutStoreImpl) findWorkout(ctx context.Context, tx *sql.Tx, w *schema.Workout) (int64, bool, error) {
	query := fmt.Sprintf(
		"SELECT workout_id FROM %s WHERE user_id = %s AND start_time = %s",
		quoteTableName(workoutsTable, ws.backend),
		getPlaceholder(ws.backend, 1),
		getPlaceholder(ws.backend, 2),
	)

	var workoutID int64
	err := tx.QueryRowContext(ctx, query, w.UserID, formatTime(w.StartTime, ws.backend)).Scan(&workoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up workout identity: %w", err)
	}
	return workoutID, true, nil
}

// insertWorkout inserts the summary row and returns the generated identity.
func (ws *WorkoutStoreImpl) insertWorkout(ctx context.Context, tx *sql.Tx, w *schema.Workout, capability schema.SchemaCapability) (int64, error) {
	var columns []string
	var placeholders []string
	var args []any

	for _, col := range workoutColumns {
		if col.include != nil && !col.include(capability) {
			continue
		}
		columns = append(columns, col.name)
		placeholders = append(placeholders, getPlaceholder(ws.backend, len(args)+1))
		args = append(args, col.value(w, ws.backend))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(workoutsTable, ws.backend),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var workoutID int64
	switch ws.backend {
	case schema.PostgreSQLBackend:
		query += " RETURNING workout_id"
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&workoutID); err != nil {
			return 0, fmt.Errorf("failed to insert workout: %w", err)
		}
	default: // SQLite and MySQL
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert workout: %w", err)
		}
		workoutID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to retrieve workout identity: %w", err)
		}
	}

	return workoutID, nil
}

// deleteChildren removes all child records of a workout from one table.
func (ws *WorkoutStoreImpl) deleteChildren(ctx context.Context, tx *sql.Tx, table string, workoutID int64) error {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE workout_id = %s",
		quoteTableName(table, ws.backend),
		getPlaceholder(ws.backend, 1),
	)
	if _, err := tx.ExecContext(ctx, query, workoutID); err != nil {
		return fmt.Errorf("failed to delete children from %s: %w", table, err)
	}
	return nil
}

// insertChildRows inserts rows in fixed-size batches. A failed batch rolls
// back to its savepoint and is retried row by row, each row under its own
// savepoint, so one malformed record rejects only itself. Savepoint syntax
// is shared across all three backends.
func (ws *WorkoutStoreImpl) insertChildRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any, batchSize int) ([]schema.RowFailure, error) {
	var failures []schema.RowFailure

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batch := rows[start:end]

		if _, err := tx.ExecContext(ctx, "SAVEPOINT sp_batch"); err != nil {
			return failures, fmt.Errorf("failed to create batch savepoint: %w", err)
		}

		query, args := ws.buildBatchInsert(table, columns, batch)
		if _, err := tx.ExecContext(ctx, query, args...); err == nil {
			continue
		}

		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT sp_batch"); err != nil {
			return failures, fmt.Errorf("failed to roll back batch savepoint: %w", err)
		}

		// Per-row retry isolates the offending records.
		singleQuery, _ := ws.buildBatchInsert(table, columns, batch[:1])
		for i, row := range batch {
			if _, err := tx.ExecContext(ctx, "SAVEPOINT sp_row"); err != nil {
				return failures, fmt.Errorf("failed to create row savepoint: %w", err)
			}
			if _, err := tx.ExecContext(ctx, singleQuery, row...); err != nil {
				if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT sp_row"); rbErr != nil {
					return failures, fmt.Errorf("failed to roll back row savepoint: %w", rbErr)
				}
				failures = append(failures, schema.RowFailure{
					Table: table,
					Index: start + i,
					Error: err.Error(),
				})
			}
		}
	}

	return failures, nil
}

// buildBatchInsert renders a multi-row insert statement and its flattened
// argument list.
func (ws *WorkoutStoreImpl) buildBatchInsert(table string, columns []string, rows [][]any) (string, []any) {
	valueGroups := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(columns))

	for _, row := range rows {
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = getPlaceholder(ws.backend, len(args)+i+1)
		}
		valueGroups = append(valueGroups, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, row...)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		quoteTableName(table, ws.backend),
		strings.Join(columns, ", "),
		strings.Join(valueGroups, ", "),
	)
	return query, args
}

// metricPointRows flattens metric points into insert rows.
func (ws *WorkoutStoreImpl) metricPointRows(workoutID int64, points []schema.MetricPoint) [][]any {
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		row := make([]any, 0, len(metricPointColumns))
		row = append(row, workoutID, formatTime(p.Timestamp, ws.backend))
		for _, field := range schema.MetricFields {
			if v, ok := p.Values[field]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// routePointRows flattens route points into insert rows.
func (ws *WorkoutStoreImpl) routePointRows(workoutID int64, points []schema.RoutePoint) [][]any {
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		rows = append(rows, []any{
			workoutID,
			formatTime(p.Timestamp, ws.backend),
			p.Synthesized,
			p.Latitude,
			p.Longitude,
			nullableFloat(p.Altitude),
			nullableFloat(p.Speed),
			nullableFloat(p.CumulativeAscent),
			nullableFloat(p.CumulativeDescent),
			nullableFloat(p.DistanceFromStart),
		})
	}
	return rows
}

// hrZoneRows flattens zone records into insert rows.
func (ws *WorkoutStoreImpl) hrZoneRows(workoutID int64, zones []schema.HeartRateZone) [][]any {
	rows := make([][]any, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []any{
			workoutID,
			z.ZoneNumber,
			z.SecondsInZone,
			nullableFloat(z.ZoneLowBoundary),
		})
	}
	return rows
}

// nullableFloat maps an optional float to its SQL argument.
func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

package workoutstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

// GetStatus gathers store health for the status command: row counts per
// table, the workout time range, and the probed schema capability.
func (ws *WorkoutStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ws.backend),
		TableSizes: make(map[string]int64),
	}

	if ws.db == nil {
		return status, nil
	}
	if err := ws.db.PingContext(ctx); err != nil {
		return status, fmt.Errorf("failed to reach %s database: %w", ws.backend, err)
	}
	status.Connected = true

	for _, table := range []string{workoutsTable, metricPointsTable, routePointsTable, hrZonesTable} {
		count, err := ws.countRows(ctx, table)
		if err != nil {
			return status, err
		}
		status.TableSizes[table] = count
	}
	status.TotalWorkouts = status.TableSizes[workoutsTable]

	if status.TotalWorkouts > 0 {
		query := fmt.Sprintf(
			"SELECT MIN(start_time), MAX(start_time) FROM %s",
			quoteTableName(workoutsTable, ws.backend),
		)
		var oldest, newest any
		if err := ws.db.QueryRowContext(ctx, query).Scan(&oldest, &newest); err != nil {
			return status, fmt.Errorf("failed to read workout time range: %w", err)
		}
		var err error
		if status.OldestWorkout, err = scanTime(oldest, ws.backend); err != nil {
			return status, err
		}
		if status.NewestWorkout, err = scanTime(newest, ws.backend); err != nil {
			return status, err
		}
	}

	status.HasIsIndoor = ws.HasColumn(ctx, workoutsTable, "is_indoor")
	return status, nil
}

// countRows counts the rows in one table.
func (ws *WorkoutStoreImpl) countRows(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ws.backend))
	var count int64
	if err := ws.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// workoutSelectColumns is the read order for workout rows; it must stay in
// step with scanWorkout.
var workoutSelectColumns = []string{
	"workout_id", "user_id", "sport", "start_time", "end_time", "workout_type",
	"calories_burned", "avg_heart_rate", "max_heart_rate", "vo2max_estimate", "lactate_threshold_bpm",
	"time_in_hr_zone_1", "time_in_hr_zone_2", "time_in_hr_zone_3", "time_in_hr_zone_4", "time_in_hr_zone_5",
	"training_volume", "avg_vertical_oscillation", "avg_ground_contact_time",
	"avg_stride_length", "avg_vertical_ratio", "avg_running_cadence", "max_running_cadence",
	"location", "workout_date",
}

// RecentWorkouts returns the most recent workouts by start time.
func (ws *WorkoutStoreImpl) RecentWorkouts(ctx context.Context, limit int) ([]schema.Workout, error) {
	if ws.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = contract.DefaultActivityLimit
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY start_time DESC LIMIT %s",
		strings.Join(workoutSelectColumns, ", "),
		quoteTableName(workoutsTable, ws.backend),
		getPlaceholder(ws.backend, 1),
	)

	rows, err := ws.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent workouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var workouts []schema.Workout
	for rows.Next() {
		w, err := ws.scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent workouts: %w", err)
	}
	return workouts, nil
}

// scanWorkout reads one row in workoutSelectColumns order.
func (ws *WorkoutStoreImpl) scanWorkout(rows *sql.Rows) (schema.Workout, error) {
	var w schema.Workout
	var startTime, endTime, workoutDate any
	var workoutType, location sql.NullString
	optionals := []*sql.NullFloat64{
		{}, {}, {}, {}, {}, // calories through lactate threshold
		{}, {}, {}, {}, {}, // five zone durations
		{}, {}, {}, {}, {}, {}, {}, // volume and running dynamics
	}

	dest := []any{&w.WorkoutID, &w.UserID, &w.Sport, &startTime, &endTime, &workoutType}
	for _, opt := range optionals {
		dest = append(dest, opt)
	}
	dest = append(dest, &location, &workoutDate)

	if err := rows.Scan(dest...); err != nil {
		return w, fmt.Errorf("failed to scan workout row: %w", err)
	}

	var err error
	if w.StartTime, err = scanTime(startTime, ws.backend); err != nil {
		return w, err
	}
	if w.EndTime, err = scanTime(endTime, ws.backend); err != nil {
		return w, err
	}
	if w.WorkoutDate, err = scanTime(workoutDate, ws.backend); err != nil {
		return w, err
	}
	w.WorkoutType = workoutType.String
	w.Location = location.String

	targets := []**float64{
		&w.CaloriesBurned, &w.AvgHeartRate, &w.MaxHeartRate, &w.VO2MaxEstimate, &w.LactateThresholdBpm,
		&w.TimeInHRZone1, &w.TimeInHRZone2, &w.TimeInHRZone3, &w.TimeInHRZone4, &w.TimeInHRZone5,
		&w.TrainingVolume, &w.AvgVerticalOscillation, &w.AvgGroundContactTime,
		&w.AvgStrideLength, &w.AvgVerticalRatio, &w.AvgRunningCadence, &w.MaxRunningCadence,
	}
	for i, opt := range optionals {
		if opt.Valid {
			v := opt.Float64
			*targets[i] = &v
		}
	}
	return w, nil
}

// AllMetricRows streams every stored metric point, ordered by workout and
// timestamp, for exports.
func (ws *WorkoutStoreImpl) AllMetricRows(ctx context.Context) ([]schema.WorkoutMetricRow, error) {
	if ws.db == nil {
		return nil, nil
	}

	columns := []string{"workout_id", "ts"}
	for _, field := range schema.MetricFields {
		columns = append(columns, string(field))
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY workout_id, ts",
		strings.Join(columns, ", "),
		quoteTableName(metricPointsTable, ws.backend),
	)

	rows, err := ws.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.WorkoutMetricRow
	for rows.Next() {
		var row schema.WorkoutMetricRow
		var ts any
		values := make([]sql.NullFloat64, len(schema.MetricFields))

		dest := []any{&row.WorkoutID, &ts}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		if row.Point.Timestamp, err = scanTime(ts, ws.backend); err != nil {
			return nil, err
		}

		row.Point.Values = make(map[schema.MetricField]float64)
		for i, field := range schema.MetricFields {
			if values[i].Valid {
				row.Point.Values[field] = values[i].Float64
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metric rows: %w", err)
	}
	return out, nil
}

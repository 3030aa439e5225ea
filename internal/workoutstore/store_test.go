package workoutstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvasiu/strides/schema"
)

func floatPtr(v float64) *float64 { return &v }

func sampleBundle(userID int64, start time.Time) *schema.ActivityBundle {
	bundle := &schema.ActivityBundle{
		Workout: schema.Workout{
			UserID:         userID,
			Sport:          "running",
			StartTime:      start,
			EndTime:        start.Add(30 * time.Minute),
			WorkoutType:    "Morning Run",
			CaloriesBurned: floatPtr(420),
			AvgHeartRate:   floatPtr(150),
			TrainingVolume: floatPtr(5000),
			Location:       "Cluj-Napoca",
			WorkoutDate:    start.Truncate(24 * time.Hour),
			IsIndoor:       false,
		},
		HeartRateZones: []schema.HeartRateZone{
			{ZoneNumber: 1, SecondsInZone: 600, ZoneLowBoundary: floatPtr(100)},
			{ZoneNumber: 2, SecondsInZone: 900, ZoneLowBoundary: floatPtr(120)},
		},
	}
	for i := range 10 {
		bundle.MetricPoints = append(bundle.MetricPoints, schema.MetricPoint{
			Timestamp: start.Add(time.Duration(i) * time.Second),
			Values: map[schema.MetricField]float64{
				schema.FieldHeartRate: 140 + float64(i),
				schema.FieldCadence:   172,
			},
		})
		bundle.RoutePoints = append(bundle.RoutePoints, schema.RoutePoint{
			Timestamp:   start.Add(time.Duration(i) * time.Second),
			Synthesized: true,
			Latitude:    46.77 + float64(i)*0.0001,
			Longitude:   23.59,
			Altitude:    floatPtr(350 + float64(i)),
		})
	}
	return bundle
}

func TestWorkoutStore_NoneBackend(t *testing.T) {
	store, err := NewWorkoutStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	capability := store.ProbeCapability(context.Background())
	assert.False(t, capability.HasIsIndoor)

	outcome, err := store.UpsertActivity(context.Background(), sampleBundle(1, time.Now()), capability, 100)
	assert.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.Equal(t, 10, outcome.MetricPoints)
	assert.Equal(t, 10, outcome.RoutePoints)
	assert.Equal(t, 2, outcome.HeartRateZones)

	status, err := store.GetStatus(context.Background())
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestWorkoutStore_UpsertAndReadBack(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	capability := store.ProbeCapability(ctx)

	outcome, err := store.UpsertActivity(ctx, sampleBundle(1, start), capability, 100)
	require.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.Greater(t, outcome.WorkoutID, int64(0))
	assert.Empty(t, outcome.FailedRows)

	workouts, err := store.RecentWorkouts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	w := workouts[0]
	assert.Equal(t, outcome.WorkoutID, w.WorkoutID)
	assert.Equal(t, "running", w.Sport)
	assert.Equal(t, "Morning Run", w.WorkoutType)
	assert.True(t, start.Equal(w.StartTime))
	require.NotNil(t, w.CaloriesBurned)
	assert.InDelta(t, 420, *w.CaloriesBurned, 0.01)
	require.NotNil(t, w.TrainingVolume)
	assert.InDelta(t, 5000, *w.TrainingVolume, 0.01)
	assert.Nil(t, w.MaxHeartRate)
	assert.Equal(t, "Cluj-Napoca", w.Location)

	metricRows, err := store.AllMetricRows(ctx)
	require.NoError(t, err)
	require.Len(t, metricRows, 10)
	first := metricRows[0]
	assert.Equal(t, outcome.WorkoutID, first.WorkoutID)
	hr, ok := first.Point.Get(schema.FieldHeartRate)
	require.True(t, ok)
	assert.InDelta(t, 140, hr, 0.01)
	_, ok = first.Point.Get(schema.FieldPower)
	assert.False(t, ok)
}

func TestWorkoutStore_UpsertIsIdempotent(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	capability := store.ProbeCapability(ctx)

	first, err := store.UpsertActivity(ctx, sampleBundle(1, start), capability, 100)
	require.NoError(t, err)
	assert.False(t, first.Matched)

	// Re-run with fewer child records: the workout identity is reused and
	// the children reflect only the second call.
	smaller := sampleBundle(1, start)
	smaller.MetricPoints = smaller.MetricPoints[:4]
	smaller.RoutePoints = smaller.RoutePoints[:3]
	second, err := store.UpsertActivity(ctx, smaller, capability, 100)
	require.NoError(t, err)
	assert.True(t, second.Matched)
	assert.Equal(t, first.WorkoutID, second.WorkoutID)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalWorkouts)
	assert.Equal(t, int64(4), status.TableSizes[metricPointsTable])
	assert.Equal(t, int64(3), status.TableSizes[routePointsTable])
	assert.Equal(t, int64(2), status.TableSizes[hrZonesTable])

	// A different start time is a different workout.
	third, err := store.UpsertActivity(ctx, sampleBundle(1, start.Add(24*time.Hour)), capability, 100)
	require.NoError(t, err)
	assert.False(t, third.Matched)
	assert.NotEqual(t, first.WorkoutID, third.WorkoutID)
}

func TestWorkoutStore_BadRowIsolation(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	capability := store.ProbeCapability(ctx)

	bundle := &schema.ActivityBundle{
		Workout: schema.Workout{
			UserID:    1,
			Sport:     "cycling",
			StartTime: start,
		},
	}
	for i := range 1000 {
		ts := start.Add(time.Duration(i) * time.Second)
		if i == 437 {
			// Duplicate the previous timestamp to violate the primary key.
			ts = start.Add(436 * time.Second)
		}
		bundle.MetricPoints = append(bundle.MetricPoints, schema.MetricPoint{
			Timestamp: ts,
			Values:    map[schema.MetricField]float64{schema.FieldPower: float64(i)},
		})
	}

	outcome, err := store.UpsertActivity(ctx, bundle, capability, 100)
	require.NoError(t, err)
	assert.Equal(t, 999, outcome.MetricPoints)
	require.Len(t, outcome.FailedRows, 1)
	assert.Equal(t, metricPointsTable, outcome.FailedRows[0].Table)
	assert.Equal(t, 437, outcome.FailedRows[0].Index)
	assert.NotEmpty(t, outcome.FailedRows[0].Error)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(999), status.TableSizes[metricPointsTable])
}

func TestWorkoutStore_CapabilityProbe(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	// Fresh base schema has no optional columns.
	capability := store.ProbeCapability(ctx)
	assert.False(t, capability.HasIsIndoor)

	outcome, err := store.UpsertActivity(ctx, sampleBundle(1, time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)), capability, 100)
	require.NoError(t, err)
	assert.Greater(t, outcome.WorkoutID, int64(0))

	// Widen the schema out of band; the next probe must see the column.
	_, err = store.db.ExecContext(ctx, "ALTER TABLE workouts ADD COLUMN is_indoor BOOLEAN NOT NULL DEFAULT FALSE")
	require.NoError(t, err)

	capability = store.ProbeCapability(ctx)
	assert.True(t, capability.HasIsIndoor)

	indoor := sampleBundle(1, time.Date(2026, 1, 3, 8, 0, 0, 0, time.UTC))
	indoor.Workout.IsIndoor = true
	_, err = store.UpsertActivity(ctx, indoor, capability, 100)
	require.NoError(t, err)

	var stored bool
	err = store.db.QueryRowContext(ctx,
		"SELECT is_indoor FROM workouts WHERE user_id = ? AND start_time = ?",
		int64(1), formatTime(indoor.Workout.StartTime, schema.SQLiteBackend)).Scan(&stored)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestWorkoutStore_HasColumnRejectsBadIdentifiers(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	assert.False(t, store.HasColumn(ctx, "workouts; DROP TABLE workouts", "is_indoor"))
	assert.False(t, store.HasColumn(ctx, "workouts", "is_indoor'--"))
	assert.False(t, store.HasColumn(ctx, "no_such_table", "is_indoor"))
}

func TestWorkoutStore_GetStatus(t *testing.T) {
	store, err := NewWorkoutStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	capability := store.ProbeCapability(ctx)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(0), status.TotalWorkouts)
	assert.True(t, status.NewestWorkout.IsZero())

	early := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	late := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	_, err = store.UpsertActivity(ctx, sampleBundle(1, early), capability, 100)
	require.NoError(t, err)
	_, err = store.UpsertActivity(ctx, sampleBundle(1, late), capability, 100)
	require.NoError(t, err)

	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TotalWorkouts)
	assert.True(t, early.Equal(status.OldestWorkout))
	assert.True(t, late.Equal(status.NewestWorkout))
	assert.Equal(t, int64(20), status.TableSizes[metricPointsTable])
	assert.False(t, status.HasIsIndoor)
}

func TestValidateTableName(t *testing.T) {
	valid := []string{"workouts", "workout_metric_points", "_private", "t1"}
	for _, name := range valid {
		assert.NoError(t, validateTableName(name), name)
	}

	invalid := []string{"", "1table", "drop table", "name;--", "name.col"}
	for _, name := range invalid {
		assert.Error(t, validateTableName(name), name)
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`workouts`", quoteTableName("workouts", schema.MySQLBackend))
	assert.Equal(t, `"workouts"`, quoteTableName("workouts", schema.PostgreSQLBackend))
	assert.Equal(t, `"workouts"`, quoteTableName("workouts", schema.SQLiteBackend))
}

func TestGetPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", getPlaceholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", getPlaceholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", getPlaceholder(schema.SQLiteBackend, 3))
}

func TestFormatAndScanTime(t *testing.T) {
	ts := time.Date(2026, 3, 14, 7, 30, 0, 123456789, time.UTC)

	sqliteVal := formatTime(ts, schema.SQLiteBackend)
	str, ok := sqliteVal.(string)
	require.True(t, ok)
	parsed, err := scanTime(str, schema.SQLiteBackend)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	nativeVal := formatTime(ts, schema.PostgreSQLBackend)
	native, ok := nativeVal.(time.Time)
	require.True(t, ok)
	assert.True(t, ts.Equal(native))

	assert.Nil(t, formatNullableTime(time.Time{}, schema.SQLiteBackend))

	zero, err := scanTime(nil, schema.SQLiteBackend)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = scanTime(42, schema.SQLiteBackend)
	assert.Error(t, err)
}

func TestBuildBatchInsertPlaceholders(t *testing.T) {
	store := &WorkoutStoreImpl{backend: schema.PostgreSQLBackend}
	query, args := store.buildBatchInsert("t", []string{"a", "b"}, [][]any{{1, 2}, {3, 4}})
	assert.Equal(t, `INSERT INTO "t" (a, b) VALUES ($1, $2), ($3, $4)`, query)
	assert.Len(t, args, 4)

	store = &WorkoutStoreImpl{backend: schema.SQLiteBackend}
	query, _ = store.buildBatchInsert("t", []string{"a"}, [][]any{{1}})
	assert.Equal(t, fmt.Sprintf(`INSERT INTO %s (a) VALUES (?)`, `"t"`), query)
}

func TestEnsureMySQLParseTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare dsn",
			in:   "root:pw@tcp(localhost:3306)/strides",
			want: "root:pw@tcp(localhost:3306)/strides?parseTime=true",
		},
		{
			name: "existing params",
			in:   "root:pw@tcp(localhost:3306)/strides?charset=utf8mb4",
			want: "root:pw@tcp(localhost:3306)/strides?charset=utf8mb4&parseTime=true",
		},
		{
			name: "already set",
			in:   "root:pw@tcp(localhost:3306)/strides?parseTime=true",
			want: "root:pw@tcp(localhost:3306)/strides?parseTime=true",
		},
		{
			name: "explicitly disabled stays untouched",
			in:   "root:pw@tcp(localhost:3306)/strides?parseTime=false",
			want: "root:pw@tcp(localhost:3306)/strides?parseTime=false",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ensureMySQLParseTime(tc.in))
		})
	}
}

func TestScanTimeMySQLDatetime(t *testing.T) {
	// The MySQL driver hands DATETIME columns back as []byte in its own
	// layout when parseTime is off; both byte and string shapes must scan.
	want := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)

	got, err := scanTime([]byte("2026-03-14 07:30:00"), schema.MySQLBackend)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "want %v, got %v", want, got)

	got, err = scanTime("2026-03-14 07:30:00.500000", schema.MySQLBackend)
	require.NoError(t, err)
	assert.True(t, want.Add(500*time.Millisecond).Equal(got))

	_, err = scanTime([]byte("not a datetime"), schema.MySQLBackend)
	assert.Error(t, err)
}

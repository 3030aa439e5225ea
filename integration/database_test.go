//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vvasiu/strides/internal/workoutstore"
	"github.com/vvasiu/strides/schema"
)

// TestStridesWithMySQL tests the workout store and CLI with a MySQL backend.
func TestStridesWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "strides",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/strides?parseTime=true", host, port.Port())

	verifyStore(t, ctx, schema.MySQLBackend, connStr)
	verifyCLI(t, "mysql", connStr)
}

// TestStridesWithPostgres tests the workout store and CLI with a PostgreSQL backend.
func TestStridesWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	verifyStore(t, ctx, schema.PostgreSQLBackend, connStr)
	verifyCLI(t, "postgresql", connStr)
}

// verifyStore exercises the upsert unit against a real database backend.
func verifyStore(t *testing.T, ctx context.Context, backend schema.DatabaseBackend, connStr string) {
	store, err := workoutstore.NewWorkoutStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	capability := store.ProbeCapability(ctx)

	bundle := sampleBundle(time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC))
	outcome, err := store.UpsertActivity(ctx, bundle, capability, 100)
	require.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.Empty(t, outcome.FailedRows)
	assert.Equal(t, len(bundle.MetricPoints), outcome.MetricPoints)

	// Re-running the same activity must reuse the workout identity and
	// replace children rather than duplicating them.
	again, err := store.UpsertActivity(ctx, bundle, capability, 100)
	require.NoError(t, err)
	assert.True(t, again.Matched)
	assert.Equal(t, outcome.WorkoutID, again.WorkoutID)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalWorkouts)
	assert.Equal(t, int64(len(bundle.MetricPoints)), status.TableSizes["workout_metric_points"])

	workouts, err := store.RecentWorkouts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "running", workouts[0].Sport)
}

// verifyCLI runs the migrate and status commands against the same backend.
func verifyCLI(t *testing.T, backend, connStr string) {
	_ = os.Setenv("STRIDES_DB_BACKEND", backend)
	_ = os.Setenv("STRIDES_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("STRIDES_DB_BACKEND") }()
	defer func() { _ = os.Unsetenv("STRIDES_DB_CONNECT") }()

	// Run strides migrate
	err := runStridesCommand(t, "migrate")
	require.NoError(t, err)

	// Run strides status
	err = runStridesCommand(t, "status")
	require.NoError(t, err)
}

// sampleBundle builds a small but complete activity bundle.
func sampleBundle(start time.Time) *schema.ActivityBundle {
	calories := 420.0
	low := 100.0
	bundle := &schema.ActivityBundle{
		Workout: schema.Workout{
			UserID:         1,
			Sport:          "running",
			WorkoutType:    "Morning Run",
			StartTime:      start,
			EndTime:        start.Add(30 * time.Minute),
			CaloriesBurned: &calories,
			Location:       "Cluj-Napoca",
		},
		HeartRateZones: []schema.HeartRateZone{
			{ZoneNumber: 1, SecondsInZone: 600, ZoneLowBoundary: &low},
		},
	}
	for i := range 60 {
		ts := start.Add(time.Duration(i) * time.Second)
		bundle.MetricPoints = append(bundle.MetricPoints, schema.MetricPoint{
			Timestamp: ts,
			Values: map[schema.MetricField]float64{
				schema.FieldHeartRate: 140 + float64(i%10),
				schema.FieldSpeed:     3.1,
			},
		})
		bundle.RoutePoints = append(bundle.RoutePoints, schema.RoutePoint{
			Timestamp: ts,
			Latitude:  46.77 + float64(i)*0.0001,
			Longitude: 23.59,
		})
	}
	return bundle
}

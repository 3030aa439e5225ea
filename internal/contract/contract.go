// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/vvasiu/strides/schema"
)

// TelemetryClient defines the operations needed from the activity telemetry
// API. This allows the ingestion pipeline to be tested without a live
// endpoint.
type TelemetryClient interface {
	// Login establishes an API session. Other calls require it.
	Login(ctx context.Context) error

	// RecentActivities returns raw summaries of the most recent activities,
	// newest first.
	RecentActivities(ctx context.Context, limit int) ([]map[string]any, error)

	// ActivityDetails returns the per-second tabular metric block for an
	// activity (descriptor entries plus column-oriented rows).
	ActivityDetails(ctx context.Context, activityID int64) (map[string]any, error)

	// ActivitySplits returns the per-lap split payload for an activity.
	ActivitySplits(ctx context.Context, activityID int64) (map[string]any, error)

	// ActivityHRZones returns the time-in-zone payload for an activity.
	// The shape varies across API versions; callers must not assume one.
	ActivityHRZones(ctx context.Context, activityID int64) (any, error)

	// ActivityRoute returns the raw GPS polyline points for an activity.
	ActivityRoute(ctx context.Context, activityID int64) ([]map[string]any, error)
}

// WorkoutStore defines the persistence operations for reconciled workouts.
// This allows mocking the store for testing.
type WorkoutStore interface {
	// ProbeCapability inspects the live schema for optional columns.
	// It is called once per run; failures degrade to absent capabilities.
	ProbeCapability(ctx context.Context) schema.SchemaCapability

	// UpsertActivity persists one activity bundle as a single transactional
	// unit with replace-on-conflict semantics for child records.
	UpsertActivity(ctx context.Context, bundle *schema.ActivityBundle, capability schema.SchemaCapability, batchSize int) (schema.ActivityOutcome, error)

	// RecentWorkouts returns stored workout summaries, newest first.
	RecentWorkouts(ctx context.Context, limit int) ([]schema.Workout, error)

	// AllMetricRows returns every stored metric point with its workout id,
	// ordered by workout and timestamp.
	AllMetricRows(ctx context.Context) ([]schema.WorkoutMetricRow, error)

	// GetStatus returns status information about the workout store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

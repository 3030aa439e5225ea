package schema

import "time"

// RowFailure describes one child record that could not be inserted even on
// its own after a batch insert failed. The rest of the batch is kept.
type RowFailure struct {
	Table string `json:"table"`
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ActivityOutcome summarizes the upsert of a single activity.
type ActivityOutcome struct {
	ActivityID int64     `json:"activity_id"`
	WorkoutID  int64     `json:"workout_id"`
	Name       string    `json:"name"`
	Sport      string    `json:"sport"`
	StartTime  time.Time `json:"start_time"`

	// Matched is true when a workout already existed for (user, start time)
	// and its identity was reused instead of inserting a new row.
	Matched bool `json:"matched"`

	MetricPoints   int `json:"metric_points"`
	RoutePoints    int `json:"route_points"`
	HeartRateZones int `json:"heart_rate_zones"`
	SkippedSamples int `json:"skipped_samples"`

	FailedRows []RowFailure `json:"failed_rows,omitempty"`
}

// ActivityFailure records an activity whose upsert unit was rolled back.
// The run continues past it.
type ActivityFailure struct {
	ActivityID int64  `json:"activity_id"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

// IngestReport aggregates the outcome of one ingestion run.
type IngestReport struct {
	UserID    int64         `json:"user_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Inserted       int `json:"inserted"`
	Matched        int `json:"matched"`
	MetricPoints   int `json:"metric_points"`
	RoutePoints    int `json:"route_points"`
	HeartRateZones int `json:"heart_rate_zones"`
	SkippedSamples int `json:"skipped_samples"`

	Activities []ActivityOutcome `json:"activities"`
	Failures   []ActivityFailure `json:"failures,omitempty"`
}

// Record folds one activity outcome into the run totals.
func (r *IngestReport) Record(outcome ActivityOutcome) {
	if outcome.Matched {
		r.Matched++
	} else {
		r.Inserted++
	}
	r.MetricPoints += outcome.MetricPoints
	r.RoutePoints += outcome.RoutePoints
	r.HeartRateZones += outcome.HeartRateZones
	r.SkippedSamples += outcome.SkippedSamples
	r.Activities = append(r.Activities, outcome)
}

// Failed reports whether any activity in the run was rolled back.
func (r *IngestReport) Failed() bool {
	return len(r.Failures) > 0
}

// StoreStatus describes the workout store for the status command.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalWorkouts int64            `json:"total_workouts"`
	NewestWorkout time.Time        `json:"newest_workout,omitzero"`
	OldestWorkout time.Time        `json:"oldest_workout,omitzero"`
	TableSizes    map[string]int64 `json:"table_sizes"`
	HasIsIndoor   bool             `json:"has_is_indoor"`
}

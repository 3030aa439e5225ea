// Package schema defines the shared data records for strides.
package schema

import "time"

// Workout is the canonical per-activity summary record persisted to the
// workouts table. Optional metrics use pointers so absent values map to NULL.
type Workout struct {
	WorkoutID   int64     `json:"workout_id"`
	UserID      int64     `json:"user_id"`
	Sport       string    `json:"sport"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	WorkoutType string    `json:"workout_type"`

	CaloriesBurned      *float64 `json:"calories_burned,omitempty"`
	AvgHeartRate        *float64 `json:"avg_heart_rate,omitempty"`
	MaxHeartRate        *float64 `json:"max_heart_rate,omitempty"`
	VO2MaxEstimate      *float64 `json:"vo2max_estimate,omitempty"`
	LactateThresholdBpm *float64 `json:"lactate_threshold_bpm,omitempty"`

	TimeInHRZone1 *float64 `json:"time_in_hr_zone_1,omitempty"`
	TimeInHRZone2 *float64 `json:"time_in_hr_zone_2,omitempty"`
	TimeInHRZone3 *float64 `json:"time_in_hr_zone_3,omitempty"`
	TimeInHRZone4 *float64 `json:"time_in_hr_zone_4,omitempty"`
	TimeInHRZone5 *float64 `json:"time_in_hr_zone_5,omitempty"`

	// TrainingVolume is the total distance in meters.
	TrainingVolume *float64 `json:"training_volume,omitempty"`

	AvgVerticalOscillation *float64 `json:"avg_vertical_oscillation,omitempty"`
	AvgGroundContactTime   *float64 `json:"avg_ground_contact_time,omitempty"`
	AvgStrideLength        *float64 `json:"avg_stride_length,omitempty"`
	AvgVerticalRatio       *float64 `json:"avg_vertical_ratio,omitempty"`
	AvgRunningCadence      *float64 `json:"avg_running_cadence,omitempty"`
	MaxRunningCadence      *float64 `json:"max_running_cadence,omitempty"`

	Location    string    `json:"location"`
	WorkoutDate time.Time `json:"workout_date"`
	IsIndoor    bool      `json:"is_indoor"`
}

// MetricField identifies one reconciled telemetry field inside a MetricPoint.
type MetricField string

// All metric fields carried by the reconciled stream. Each maps to one
// nullable column of workout_metric_points.
const (
	FieldHeartRate           MetricField = "heart_rate"
	FieldSpeed               MetricField = "speed"
	FieldCadence             MetricField = "cadence"
	FieldPower               MetricField = "power"
	FieldAltitude            MetricField = "altitude"
	FieldTemperature         MetricField = "temperature"
	FieldVerticalOscillation MetricField = "vertical_oscillation"
	FieldVerticalRatio       MetricField = "vertical_ratio"
	FieldGroundContactTime   MetricField = "ground_contact_time"
	FieldStrideLength        MetricField = "stride_length"
	FieldCumulativeDistance  MetricField = "cumulative_distance"
	FieldCumulativeDuration  MetricField = "cumulative_duration"
	FieldLapIndex            MetricField = "lap_index"
	FieldElevationGain       MetricField = "elevation_gain"
	FieldElevationLoss       MetricField = "elevation_loss"
)

// MetricFields lists every metric field in persisted column order.
var MetricFields = []MetricField{
	FieldHeartRate,
	FieldSpeed,
	FieldCadence,
	FieldPower,
	FieldAltitude,
	FieldTemperature,
	FieldVerticalOscillation,
	FieldVerticalRatio,
	FieldGroundContactTime,
	FieldStrideLength,
	FieldCumulativeDistance,
	FieldCumulativeDuration,
	FieldLapIndex,
	FieldElevationGain,
	FieldElevationLoss,
}

// MetricPoint is one reconciled sample of the merged telemetry stream.
// Values only holds the fields some source actually reported; a field absent
// from the map persists as NULL.
type MetricPoint struct {
	Timestamp time.Time               `json:"timestamp"`
	Values    map[MetricField]float64 `json:"values"`
}

// Get returns the value for a field and whether any source reported it.
func (p *MetricPoint) Get(field MetricField) (float64, bool) {
	v, ok := p.Values[field]
	return v, ok
}

// RoutePoint is one normalized GPS sample. Synthesized marks timestamps that
// were fabricated from the activity start plus the point index; such
// timestamps must never be used to join against the metric stream.
type RoutePoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Synthesized bool      `json:"synthesized"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`

	Altitude          *float64 `json:"altitude,omitempty"`
	Speed             *float64 `json:"speed,omitempty"`
	CumulativeAscent  *float64 `json:"cumulative_ascent,omitempty"`
	CumulativeDescent *float64 `json:"cumulative_descent,omitempty"`
	DistanceFromStart *float64 `json:"distance_from_start,omitempty"`
}

// HeartRateZone is one summarized time-in-zone record for an activity.
type HeartRateZone struct {
	ZoneNumber      int      `json:"zone_number"`
	SecondsInZone   float64  `json:"seconds_in_zone"`
	ZoneLowBoundary *float64 `json:"zone_low_boundary,omitempty"`
}

// WorkoutMetricRow is one stored metric point tagged with its parent
// workout, as read back for exports.
type WorkoutMetricRow struct {
	WorkoutID int64       `json:"workout_id"`
	Point     MetricPoint `json:"point"`
}

// ActivityBundle groups a workout summary with its reconciled child records,
// ready for one upsert unit.
type ActivityBundle struct {
	Workout        Workout
	MetricPoints   []MetricPoint
	RoutePoints    []RoutePoint
	HeartRateZones []HeartRateZone

	// SkippedSamples counts source samples dropped during reconciliation
	// because their timestamps or coordinates could not be interpreted.
	SkippedSamples int
}

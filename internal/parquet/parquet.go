// Package parquet exports stored workouts and their metric streams to
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/vvasiu/strides/schema"
)

// WorkoutRecord is the flat Parquet shape of one workout summary row.
type WorkoutRecord struct {
	WorkoutID int64     `parquet:"workout_id,snappy"`
	UserID    int64     `parquet:"user_id,snappy"`
	Sport     string    `parquet:"sport,snappy"`
	StartTime time.Time `parquet:"start_time,snappy"`
	EndTime   time.Time `parquet:"end_time,snappy"`
	Name      string    `parquet:"name,snappy"`

	CaloriesBurned      *float64 `parquet:"calories_burned,optional,snappy"`
	AvgHeartRate        *float64 `parquet:"avg_heart_rate,optional,snappy"`
	MaxHeartRate        *float64 `parquet:"max_heart_rate,optional,snappy"`
	VO2MaxEstimate      *float64 `parquet:"vo2max_estimate,optional,snappy"`
	LactateThresholdBpm *float64 `parquet:"lactate_threshold_bpm,optional,snappy"`
	TrainingVolume      *float64 `parquet:"training_volume,optional,snappy"`
	AvgRunningCadence   *float64 `parquet:"avg_running_cadence,optional,snappy"`
	MaxRunningCadence   *float64 `parquet:"max_running_cadence,optional,snappy"`

	Location string `parquet:"location,snappy"`
	IsIndoor bool   `parquet:"is_indoor,snappy"`
}

// MetricPointRecord is the flat Parquet shape of one reconciled metric point.
type MetricPointRecord struct {
	WorkoutID int64     `parquet:"workout_id,snappy"`
	Timestamp time.Time `parquet:"ts,snappy"`

	HeartRate           *float64 `parquet:"heart_rate,optional,snappy"`
	Speed               *float64 `parquet:"speed,optional,snappy"`
	Cadence             *float64 `parquet:"cadence,optional,snappy"`
	Power               *float64 `parquet:"power,optional,snappy"`
	Altitude            *float64 `parquet:"altitude,optional,snappy"`
	Temperature         *float64 `parquet:"temperature,optional,snappy"`
	VerticalOscillation *float64 `parquet:"vertical_oscillation,optional,snappy"`
	VerticalRatio       *float64 `parquet:"vertical_ratio,optional,snappy"`
	GroundContactTime   *float64 `parquet:"ground_contact_time,optional,snappy"`
	StrideLength        *float64 `parquet:"stride_length,optional,snappy"`
	CumulativeDistance  *float64 `parquet:"cumulative_distance,optional,snappy"`
	CumulativeDuration  *float64 `parquet:"cumulative_duration,optional,snappy"`
	LapIndex            *float64 `parquet:"lap_index,optional,snappy"`
	ElevationGain       *float64 `parquet:"elevation_gain,optional,snappy"`
	ElevationLoss       *float64 `parquet:"elevation_loss,optional,snappy"`
}

// FromWorkout flattens a workout summary into its Parquet record.
func FromWorkout(w *schema.Workout) WorkoutRecord {
	return WorkoutRecord{
		WorkoutID:           w.WorkoutID,
		UserID:              w.UserID,
		Sport:               w.Sport,
		StartTime:           w.StartTime,
		EndTime:             w.EndTime,
		Name:                w.WorkoutType,
		CaloriesBurned:      w.CaloriesBurned,
		AvgHeartRate:        w.AvgHeartRate,
		MaxHeartRate:        w.MaxHeartRate,
		VO2MaxEstimate:      w.VO2MaxEstimate,
		LactateThresholdBpm: w.LactateThresholdBpm,
		TrainingVolume:      w.TrainingVolume,
		AvgRunningCadence:   w.AvgRunningCadence,
		MaxRunningCadence:   w.MaxRunningCadence,
		Location:            w.Location,
		IsIndoor:            w.IsIndoor,
	}
}

// FromMetricRow flattens a stored metric point into its Parquet record.
func FromMetricRow(row *schema.WorkoutMetricRow) MetricPointRecord {
	record := MetricPointRecord{
		WorkoutID: row.WorkoutID,
		Timestamp: row.Point.Timestamp,
	}

	fields := map[schema.MetricField]**float64{
		schema.FieldHeartRate:           &record.HeartRate,
		schema.FieldSpeed:               &record.Speed,
		schema.FieldCadence:             &record.Cadence,
		schema.FieldPower:               &record.Power,
		schema.FieldAltitude:            &record.Altitude,
		schema.FieldTemperature:         &record.Temperature,
		schema.FieldVerticalOscillation: &record.VerticalOscillation,
		schema.FieldVerticalRatio:       &record.VerticalRatio,
		schema.FieldGroundContactTime:   &record.GroundContactTime,
		schema.FieldStrideLength:        &record.StrideLength,
		schema.FieldCumulativeDistance:  &record.CumulativeDistance,
		schema.FieldCumulativeDuration:  &record.CumulativeDuration,
		schema.FieldLapIndex:            &record.LapIndex,
		schema.FieldElevationGain:       &record.ElevationGain,
		schema.FieldElevationLoss:       &record.ElevationLoss,
	}
	for field, target := range fields {
		if v, ok := row.Point.Get(field); ok {
			value := v
			*target = &value
		}
	}
	return record
}

// WriteWorkoutsParquet writes workout summaries to a Parquet file.
func WriteWorkoutsParquet(workouts []schema.Workout, outputPath string) error {
	records := make([]WorkoutRecord, len(workouts))
	for i := range workouts {
		records[i] = FromWorkout(&workouts[i])
	}
	return writeParquet(records, outputPath)
}

// WriteMetricPointsParquet writes stored metric points to a Parquet file.
func WriteMetricPointsParquet(rows []schema.WorkoutMetricRow, outputPath string) error {
	records := make([]MetricPointRecord, len(rows))
	for i := range rows {
		records[i] = FromMetricRow(&rows[i])
	}
	return writeParquet(records, outputPath)
}

// writeParquet writes records to a file using struct schema inference.
func writeParquet[T any](records []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

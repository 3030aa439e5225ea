package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvasiu/strides/schema"
)

func TestWorkoutRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	fileSchema := parquet.SchemaOf(new(WorkoutRecord))
	require.NotNil(t, fileSchema)

	expectedColumns := []string{
		"workout_id",
		"user_id",
		"sport",
		"start_time",
		"end_time",
		"name",
		"calories_burned",
		"avg_heart_rate",
		"training_volume",
		"location",
		"is_indoor",
	}

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestMetricPointRecordStructTags(t *testing.T) {
	fileSchema := parquet.SchemaOf(new(MetricPointRecord))
	require.NotNil(t, fileSchema)

	expectedColumns := []string{"workout_id", "ts"}
	for _, field := range schema.MetricFields {
		expectedColumns = append(expectedColumns, string(field))
	}

	for _, colName := range expectedColumns {
		col, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestFromMetricRow(t *testing.T) {
	row := &schema.WorkoutMetricRow{
		WorkoutID: 7,
		Point: schema.MetricPoint{
			Timestamp: time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC),
			Values: map[schema.MetricField]float64{
				schema.FieldHeartRate: 142,
				schema.FieldSpeed:     3.1,
			},
		},
	}

	record := FromMetricRow(row)
	assert.Equal(t, int64(7), record.WorkoutID)
	require.NotNil(t, record.HeartRate)
	assert.InDelta(t, 142, *record.HeartRate, 0.01)
	require.NotNil(t, record.Speed)
	assert.InDelta(t, 3.1, *record.Speed, 0.01)
	assert.Nil(t, record.Power)
	assert.Nil(t, record.Cadence)
}

func TestWriteWorkoutsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "workouts.parquet")

	calories := 420.0
	workouts := []schema.Workout{
		{
			WorkoutID:      7,
			UserID:         1,
			Sport:          "running",
			WorkoutType:    "Morning Run",
			StartTime:      time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC),
			EndTime:        time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
			CaloriesBurned: &calories,
			Location:       "Cluj-Napoca",
		},
		{
			WorkoutID: 8,
			UserID:    1,
			Sport:     "strength_training",
			StartTime: time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC),
			IsIndoor:  true,
		},
	}

	require.NoError(t, WriteWorkoutsParquet(workouts, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Read the file back and verify round-trip integrity
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := parquet.Read[WorkoutRecord](file, info.Size())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Morning Run", rows[0].Name)
	require.NotNil(t, rows[0].CaloriesBurned)
	assert.InDelta(t, 420, *rows[0].CaloriesBurned, 0.01)
	assert.Nil(t, rows[1].CaloriesBurned)
	assert.True(t, rows[1].IsIndoor)
}

func TestWriteMetricPointsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "metric_points.parquet")

	start := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	var rows []schema.WorkoutMetricRow
	for i := range 60 {
		rows = append(rows, schema.WorkoutMetricRow{
			WorkoutID: 7,
			Point: schema.MetricPoint{
				Timestamp: start.Add(time.Duration(i) * time.Second),
				Values: map[schema.MetricField]float64{
					schema.FieldHeartRate: 140 + float64(i%10),
				},
			},
		})
	}

	require.NoError(t, WriteMetricPointsParquet(rows, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	records, err := parquet.Read[MetricPointRecord](file, info.Size())
	require.NoError(t, err)
	require.Len(t, records, 60)
	require.NotNil(t, records[0].HeartRate)
	assert.InDelta(t, 140, *records[0].HeartRate, 0.01)
	assert.Nil(t, records[0].Cadence)
}

func TestWriteWorkoutsParquetBadPath(t *testing.T) {
	err := WriteWorkoutsParquet(nil, filepath.Join("no", "such", "dir", "out.parquet"))
	assert.Error(t, err)
}

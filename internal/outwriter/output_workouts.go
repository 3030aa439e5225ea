package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteWorkoutList outputs stored workout summaries, dispatching based on the
// output format configured.
func WriteWorkoutList(workouts []schema.Workout, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, workouts)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkoutsCSV(w, workouts, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWorkoutsTable(w, workouts, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeWorkoutsTable generates the human-readable workout listing.
func writeWorkoutsTable(writer io.Writer, workouts []schema.Workout, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Start", "Name", "Sport", "Distance", "Calories", "Avg HR"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for i := range workouts {
		w := &workouts[i]
		data = append(data, []string{
			strconv.Itoa(i + 1),
			w.StartTime.Format(contract.DateTimeFormat),
			contract.TruncateName(w.WorkoutType, nameWidth),
			w.Sport,
			optionalFloat(w.TrainingVolume, fmtFloat),
			optionalFloat(w.CaloriesBurned, fmtFloat),
			optionalFloat(w.AvgHeartRate, fmtFloat),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d workouts\n", len(workouts))
	return err
}

// writeWorkoutsCSV writes workout summaries in CSV format.
func writeWorkoutsCSV(w io.Writer, workouts []schema.Workout, fmtFloat func(float64) string) error {
	header := []string{
		"workout_id",
		"user_id",
		"start_time",
		"name",
		"sport",
		"distance_m",
		"calories",
		"avg_heart_rate",
		"max_heart_rate",
		"location",
		"is_indoor",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for i := range workouts {
			workout := &workouts[i]
			rec := []string{
				strconv.FormatInt(workout.WorkoutID, 10),
				strconv.FormatInt(workout.UserID, 10),
				workout.StartTime.Format(contract.DateTimeFormat),
				workout.WorkoutType,
				workout.Sport,
				optionalFloat(workout.TrainingVolume, fmtFloat),
				optionalFloat(workout.CaloriesBurned, fmtFloat),
				optionalFloat(workout.AvgHeartRate, fmtFloat),
				optionalFloat(workout.MaxHeartRate, fmtFloat),
				workout.Location,
				strconv.FormatBool(workout.IsIndoor),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

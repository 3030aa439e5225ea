package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/internal/parquet"
	"github.com/vvasiu/strides/internal/workoutstore"
)

// exportCmd exports stored workouts to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored workouts to Parquet for analytics",
	Long: `Export all stored workout data to Parquet format for use with analytics tools.

Exports two datasets:
- Workout summaries - one row per workout with its aggregate metrics
- Metric points - the full reconciled per-second time series across all workouts

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Examples:
  # Export everything with default file names
  strides export

  # Export to explicit paths
  strides export --workouts-file runs.parquet --metrics-file points.parquet

  # Use with DuckDB for analysis
  strides export --metrics-file points.parquet
  duckdb -c "SELECT * FROM read_parquet('points.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := workoutstore.NewWorkoutStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			contract.LogFatal("Cannot open workout store", err)
		}
		defer func() { _ = store.Close() }()

		workoutsFile := viper.GetString("workouts-file")
		metricsFile := viper.GetString("metrics-file")

		workouts, err := store.RecentWorkouts(rootCtx, contract.MaxActivityLimit)
		if err != nil {
			contract.LogFatal("Cannot list workouts for export", err)
		}
		if err := parquet.WriteWorkoutsParquet(workouts, workoutsFile); err != nil {
			contract.LogFatal("Cannot export workout summaries", err)
		}
		fmt.Printf("Exported %d workouts to %s\n", len(workouts), workoutsFile)

		rows, err := store.AllMetricRows(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list metric points for export", err)
		}
		if err := parquet.WriteMetricPointsParquet(rows, metricsFile); err != nil {
			contract.LogFatal("Cannot export metric points", err)
		}
		fmt.Printf("Exported %d metric points to %s\n", len(rows), metricsFile)
	},
}

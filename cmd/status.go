package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/internal/outwriter"
	"github.com/vvasiu/strides/internal/workoutstore"
)

// statusCmd shows workout store health and recent workouts.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display workout store statistics and recent workouts",
	Long: `Show detailed information about the workout store.

Displays:
- Backend type and connection status
- Total workouts stored and their time range
- Row counts per table
- Whether the optional is_indoor column is present
- The most recent workouts with their summary metrics

Use this to:
- Verify the store is reachable before a large ingestion
- Confirm an ingest run landed the expected rows
- Check which schema capabilities the live database has

Examples:
  # Check the default SQLite store
  strides status

  # Check a MySQL store and show the last 25 workouts
  strides status --db-backend mysql --db-connect "user:pass@tcp(localhost:3306)/strides" --limit 25`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := workoutstore.NewWorkoutStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			contract.LogFatal("Cannot open workout store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot get store status", err)
		}
		writer := outwriter.NewOutWriter()
		if err := writer.WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Cannot write store status", err)
		}

		workouts, err := store.RecentWorkouts(rootCtx, cfg.ActivityLimit)
		if err != nil {
			contract.LogFatal("Cannot list recent workouts", err)
		}
		if err := writer.WriteWorkouts(workouts, cfg); err != nil {
			contract.LogFatal("Cannot write recent workouts", err)
		}
	},
}

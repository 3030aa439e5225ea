package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/internal/garmin"
	"github.com/vvasiu/strides/internal/ingest"
	"github.com/vvasiu/strides/internal/outwriter"
	"github.com/vvasiu/strides/internal/workoutstore"
)

// ingestCmd fetches recent activities and persists them idempotently.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch recent activities from the telemetry API and store them",
	Long: `Fetch the most recent activities from the Garmin Connect API, reconcile
their per-second metrics, lap splits, GPS routes and heart rate zones into one
time series per workout, and persist everything with replace-on-conflict semantics.

Re-running ingest is safe: a workout already stored for the same user and start
time keeps its identity, and its child records are replaced by the latest fetch.

Each activity is one transactional unit. A failure in one activity never rolls
back another, and a single bad metric row is isolated and reported without
discarding the rest of its batch.

Requires: api-email and api-password (prefer STRIDES_API_EMAIL / STRIDES_API_PASSWORD)

Examples:
  # Ingest the 10 most recent activities into SQLite
  strides ingest

  # Larger window into PostgreSQL
  strides ingest --limit 50 --db-backend postgresql --db-connect "host=localhost dbname=strides"

  # Dry run without persistence
  strides ingest --db-backend none

  # Write the run report as JSON
  strides ingest --output json --output-file report.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.RequireAPICredentials(); err != nil {
			contract.LogFatal("Missing API credentials", err)
		}

		store, err := workoutstore.NewWorkoutStore(cfg.Backend, cfg.DBConnect)
		if err != nil {
			contract.LogFatal("Cannot open workout store", err)
		}
		defer func() { _ = store.Close() }()

		client := garmin.NewClient(cfg)
		report, err := ingest.NewPipeline(client, store, cfg).Run(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot run ingestion", err)
		}

		if err := outwriter.NewOutWriter().WriteReport(report, cfg); err != nil {
			contract.LogFatal("Cannot write ingest report", err)
		}

		// A failed activity must be visible to CI and cron wrappers.
		if report.Failed() {
			fmt.Printf("%d activity failure(s) during ingestion\n", len(report.Failures))
			os.Exit(1)
		}
	},
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/internal/workoutstore"
	"github.com/vvasiu/strides/schema"
)

// migrateSetup loads minimal configuration needed for migrate operations.
// This deliberately skips the full shared setup so migrations can run on a
// fresh database without API credentials.
func migrateSetup(_ *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("db-backend")))
	connStr := viper.GetString("db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	return nil
}

// migrateCmd runs database migrations for the workout store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the workout store.

Migrations allow:
- Upgrading to new schema versions when Strides is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

The ingestion pipeline never requires migrations to have run: it probes the
live schema and degrades gracefully when optional columns are absent. Running
migrations unlocks those columns.

Examples:
  # Migrate the default SQLite store to the latest version
  strides migrate

  # Migrate a PostgreSQL store
  strides migrate --db-backend postgresql --db-connect "host=localhost dbname=strides"

  # Roll back everything
  strides migrate --target-version 0`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := workoutstore.MigrateWorkouts(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Cannot run migrations", err)
		}
	},
}

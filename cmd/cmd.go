// Package cmd defines the command-line interface for strides.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vvasiu/strides/internal/contract"
	"github.com/vvasiu/strides/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-base-url", contract.DefaultAPIBaseURL, "Base URL of the telemetry API")
	rootCmd.PersistentFlags().String("api-email", "", "Account email for the telemetry API session")
	rootCmd.PersistentFlags().String("api-password", "", "Account password for the telemetry API session (prefer STRIDES_API_PASSWORD)")
	rootCmd.PersistentFlags().String("http-timeout", contract.DefaultHTTPTimeout, "Timeout for telemetry API requests (e.g., 30s, 2m)")
	rootCmd.PersistentFlags().Int64("user-id", contract.DefaultUserID, "User identifier that owns the ingested workouts")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultActivityLimit, "Number of recent activities to fetch or workouts to display")
	rootCmd.PersistentFlags().Int("batch-size", contract.DefaultBatchSize, "Number of child rows per multi-row INSERT")
	rootCmd.PersistentFlags().String("location", contract.DefaultLocation, "Fallback location for activities without one")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Storage backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("workouts-file", "workouts.parquet", "Path for the workout summaries Parquet file")
	exportCmd.Flags().String("metrics-file", "metric_points.parquet", "Path for the metric points Parquet file")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}

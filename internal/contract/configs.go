package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/vvasiu/strides/schema"
)

// Default values for configuration.
const (
	DefaultUserID        = 1
	DefaultActivityLimit = 10
	MaxActivityLimit     = 1000
	DefaultBatchSize     = 500
	MaxBatchSize         = 5000
	DefaultPrecision     = 1
	DefaultLocation      = "Cluj-Napoca"
	DefaultAPIBaseURL    = "https://connect.garmin.com"
	DefaultHTTPTimeout   = "30s"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DurationPrecision is the rounding applied to displayed run durations.
const DurationPrecision = time.Millisecond

// Config holds the runtime configuration for an ingestion run.
// This struct remains the "final, validated" config.
type Config struct {
	APIBaseURL  string
	APIEmail    string
	APIPassword string // Please use env var as this is plaintext
	HTTPTimeout time.Duration

	UserID          int64
	ActivityLimit   int
	BatchSize       int
	DefaultLocation string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	UseColors  bool

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	APIBaseURL  string `mapstructure:"api-base-url"`
	APIEmail    string `mapstructure:"api-email"`
	APIPassword string `mapstructure:"api-password"`
	HTTPTimeout string `mapstructure:"http-timeout"`

	UserID    int64  `mapstructure:"user-id"`
	Limit     int    `mapstructure:"limit"`
	BatchSize int    `mapstructure:"batch-size"`
	Location  string `mapstructure:"location"`

	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`

	Backend   string `mapstructure:"db-backend"`
	DBConnect string `mapstructure:"db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateAPIInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates the non-API, non-storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 1. UserID Validation ---
	if input.UserID <= 0 {
		return fmt.Errorf("user-id must be greater than 0 (received %d)", input.UserID)
	}
	cfg.UserID = input.UserID

	// --- 2. Limit Validation ---
	if input.Limit <= 0 || input.Limit > MaxActivityLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxActivityLimit, input.Limit)
	}
	cfg.ActivityLimit = input.Limit

	// --- 3. BatchSize Validation ---
	if input.BatchSize <= 0 || input.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch-size must be greater than 0 and cannot exceed %d (received %d)", MaxBatchSize, input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}
	cfg.OutputFile = input.OutputFile

	// --- 5. Color Flag ---
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 6. Location Fallback ---
	cfg.DefaultLocation = strings.TrimSpace(input.Location)
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = DefaultLocation
	}

	return nil
}

// validateAPIInputs processes the telemetry API fields.
func validateAPIInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(input.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("api-base-url must not be empty")
	}

	cfg.APIEmail = strings.TrimSpace(input.APIEmail)
	cfg.APIPassword = input.APIPassword

	timeout, err := time.ParseDuration(input.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("invalid http-timeout '%s': %w", input.HTTPTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("http-timeout must be positive (received %s)", timeout)
	}
	cfg.HTTPTimeout = timeout

	return nil
}

// validateBackendConfig validates the storage backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// RequireAPICredentials ensures the fields needed for an API session are set.
// Only commands that talk to the telemetry API call this; status and export
// work without credentials.
func (c *Config) RequireAPICredentials() error {
	if c.APIEmail == "" {
		return fmt.Errorf("api-email is required. Set STRIDES_API_EMAIL or the api-email config key")
	}
	if c.APIPassword == "" {
		return fmt.Errorf("api-password is required. Set STRIDES_API_PASSWORD; avoid putting it in the config file")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

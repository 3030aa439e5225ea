package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvasiu/strides/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		APIBaseURL:  DefaultAPIBaseURL,
		APIEmail:    "athlete@example.com",
		APIPassword: "secret",
		HTTPTimeout: DefaultHTTPTimeout,
		UserID:      DefaultUserID,
		Limit:       DefaultActivityLimit,
		BatchSize:   DefaultBatchSize,
		Precision:   DefaultPrecision,
		Output:      string(schema.TextOut),
		Color:       "yes",
		Backend:     string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, int64(1), cfg.UserID)
	assert.Equal(t, 10, cfg.ActivityLimit)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.Equal(t, DefaultLocation, cfg.DefaultLocation)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{name: "zero user id", mutate: func(in *ConfigRawInput) { in.UserID = 0 }},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }},
		{name: "excessive limit", mutate: func(in *ConfigRawInput) { in.Limit = MaxActivityLimit + 1 }},
		{name: "zero batch size", mutate: func(in *ConfigRawInput) { in.BatchSize = 0 }},
		{name: "excessive batch size", mutate: func(in *ConfigRawInput) { in.BatchSize = MaxBatchSize + 1 }},
		{name: "bad precision", mutate: func(in *ConfigRawInput) { in.Precision = 5 }},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }},
		{name: "empty base url", mutate: func(in *ConfigRawInput) { in.APIBaseURL = "" }},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "soon" }},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "-5s" }},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.Backend = "oracle" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidateTrimsBaseURL(t *testing.T) {
	input := validInput()
	input.APIBaseURL = "https://api.example.com/ "
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
}

func TestRequireAPICredentials(t *testing.T) {
	cfg := &Config{APIEmail: "a@b.c", APIPassword: "pw"}
	assert.NoError(t, cfg.RequireAPICredentials())

	cfg = &Config{APIPassword: "pw"}
	assert.Error(t, cfg.RequireAPICredentials())

	cfg = &Config{APIEmail: "a@b.c"}
	assert.Error(t, cfg.RequireAPICredentials())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{name: "sqlite empty ok", backend: schema.SQLiteBackend, connStr: "", wantErr: false},
		{name: "none ok", backend: schema.NoneBackend, connStr: "", wantErr: false},
		{name: "mysql valid", backend: schema.MySQLBackend, connStr: "user:pass@tcp(localhost:3306)/strides", wantErr: false},
		{name: "mysql missing tcp", backend: schema.MySQLBackend, connStr: "user:pass@localhost/strides", wantErr: true},
		{name: "mysql empty", backend: schema.MySQLBackend, connStr: "", wantErr: true},
		{name: "postgres valid", backend: schema.PostgreSQLBackend, connStr: "host=localhost dbname=strides user=u", wantErr: false},
		{name: "postgres missing host", backend: schema.PostgreSQLBackend, connStr: "dbname=strides", wantErr: true},
		{name: "postgres missing dbname", backend: schema.PostgreSQLBackend, connStr: "host=localhost", wantErr: true},
		{name: "postgres empty", backend: schema.PostgreSQLBackend, connStr: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tc.backend, tc.connStr)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

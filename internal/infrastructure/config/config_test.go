package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

// isolate runs the test from an empty directory so no config.toml is picked up
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "adboard-billing", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "adboard", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "adboard-billing", cfg.Telemetry.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.Telemetry.DBMetricsEnabled)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, "adboard-billing", cfg.Profiling.ApplicationName)
	assert.Equal(t, []string{"cpu", "alloc_space", "inuse_space", "goroutines"}, cfg.Profiling.ProfileTypes)

	assert.Equal(t, "Africa/Tripoli", cfg.Billing.Timezone)
	assert.Equal(t, 30, cfg.Billing.ExpiringSoonDays)
	assert.Equal(t, 10, cfg.Billing.FleetTopN)
	assert.Equal(t, 5*time.Minute, cfg.Billing.PricingCacheTTL)

	loc, err := cfg.Billing.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Tripoli", loc.String())
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("ADBOARD_APP_PORT", "9000")
	t.Setenv("ADBOARD_DATABASE_HOST", "db.internal")
	t.Setenv("ADBOARD_DATABASE_PORT", "5433")
	t.Setenv("ADBOARD_REDIS_ENABLED", "true")
	t.Setenv("ADBOARD_BILLING_TIMEZONE", "UTC")
	t.Setenv("ADBOARD_BILLING_DEFAULT_OPERATING_FEE_RATE", "3.5")
	t.Setenv("ADBOARD_BILLING_PRICING_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "UTC", cfg.Billing.Timezone)
	assert.Equal(t, 3.5, cfg.Billing.DefaultOperatingFeeRate)
	assert.Equal(t, 90*time.Second, cfg.Billing.PricingCacheTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `
[app]
name = "billing-test"

[billing]
timezone = "Europe/Rome"
expiring_soon_days = 14
fleet_top_n = 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
	t.Setenv("ADBOARD_BILLING_FLEET_TOP_N", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing-test", cfg.App.Name)
	assert.Equal(t, "Europe/Rome", cfg.Billing.Timezone)
	assert.Equal(t, 14, cfg.Billing.ExpiringSoonDays)
	assert.Equal(t, 5, cfg.Billing.FleetTopN, "environment overrides file")
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "billing.yaml")
	content := "http:\n  cors_origins: [\"https://ops.example.ly\"]\ntelemetry:\n  service_name: billing-edge\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("ADBOARD_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://ops.example.ly"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "billing-edge", cfg.Telemetry.ServiceName)
	assert.Equal(t, "adboard-billing", cfg.App.Name)
}

func TestLoad_Profiling(t *testing.T) {
	dir := isolate(t)
	content := `
[telemetry]
enabled = true
db_metrics_enabled = true

[profiling]
enabled = true
server_address = "http://pyroscope:4040"
profile_types = ["cpu", "mutex_count"]
span_profiles = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
	t.Setenv("ADBOARD_PROFILING_APPLICATION_NAME", "billing-profiled")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.DBMetricsEnabled)
	assert.True(t, cfg.Profiling.Enabled)
	assert.True(t, cfg.Profiling.SpanProfiles)
	assert.Equal(t, "http://pyroscope:4040", cfg.Profiling.ServerAddress)
	assert.Equal(t, "billing-profiled", cfg.Profiling.ApplicationName)
	assert.Equal(t, []string{"cpu", "mutex_count"}, cfg.Profiling.ProfileTypes)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ADBOARD_CONFIG", filepath.Join(dir, "absent.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown timezone", map[string]string{"ADBOARD_BILLING_TIMEZONE": "Mars/Olympus"}},
		{"fee rate above 100", map[string]string{"ADBOARD_BILLING_DEFAULT_OPERATING_FEE_RATE": "120"}},
		{"negative fleet size", map[string]string{"ADBOARD_BILLING_FLEET_TOP_N": "-1"}},
		{"sampling ratio out of range", map[string]string{"ADBOARD_TELEMETRY_SAMPLING_RATIO": "1.5"}},
		{"idle above open conns", map[string]string{"ADBOARD_DATABASE_MAX_OPEN_CONNS": "2", "ADBOARD_DATABASE_MAX_IDLE_CONNS": "3"}},
		{"production without password", map[string]string{"ADBOARD_APP_ENV": "production", "ADBOARD_DATABASE_SSLMODE": "require"}},
		{"profiling without server", map[string]string{"ADBOARD_PROFILING_ENABLED": "true"}},
		{"span profiles without tracing", map[string]string{"ADBOARD_PROFILING_SPAN_PROFILES": "true"}},
		{"production without tls", map[string]string{"ADBOARD_APP_ENV": "production", "ADBOARD_DATABASE_PASSWORD": "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "billing", Password: "p@ss word", DBName: "adboard", SSLMode: "require"}

	assert.Equal(t, "postgres://billing:p%40ss%20word@db:5432/adboard?sslmode=require", d.DSN())
}

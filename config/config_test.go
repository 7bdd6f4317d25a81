package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "hydrogen_ledger", cfg.Database.DBName)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "hydrogen-credit-ledger", cfg.JWT.Issuer)

	assert.Equal(t, StoreMemory, cfg.Ledger.Store)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.SnapshotInterval)
	assert.Equal(t, "hcl:snapshot:latest", cfg.Ledger.SnapshotKey)

	assert.Equal(t, "hcl:events", cfg.Events.RedisChannel)
	assert.Equal(t, 1024, cfg.Events.BufferSize)
	assert.False(t, cfg.RateLimit.Enabled)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  port: 9090
  mode: "release"
database:
  host: "db.example.com"
  dbname: "ledger_test"
redis:
  enabled: true
  host: "redis.example.com"
  port: 6380
jwt:
  secret: "my-jwt-secret"
  expiry: "12h"
ledger:
  admin: "admin-1"
  store: "sqlite"
  sqlite_path: "/var/lib/hcl/ledger.db"
  snapshot_interval: "1m"
events:
  webhook_url: "https://registry.example.com/hooks"
  webhook_secret: "whsec"
  buffer_size: 64
rate_limit:
  enabled: true
log:
  level: "debug"
  pretty: true
`)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "ledger_test", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.example.com:6380", cfg.Redis.Addr())
	assert.Equal(t, "my-jwt-secret", cfg.JWT.Secret)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "admin-1", cfg.Ledger.Admin)
	assert.Equal(t, StoreSQLite, cfg.Ledger.Store)
	assert.Equal(t, "/var/lib/hcl/ledger.db", cfg.Ledger.SQLitePath)
	assert.Equal(t, time.Minute, cfg.Ledger.SnapshotInterval)
	assert.Equal(t, "https://registry.example.com/hooks", cfg.Events.WebhookURL)
	assert.Equal(t, "whsec", cfg.Events.WebhookSecret)
	assert.Equal(t, 64, cfg.Events.BufferSize)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Log.Pretty)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HCL_SERVER_PORT", "3000")
	t.Setenv("HCL_LEDGER_ADMIN", "env-admin")
	t.Setenv("HCL_LEDGER_STORE", "postgres")
	t.Setenv("HCL_JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "env-admin", cfg.Ledger.Admin)
	assert.Equal(t, StorePostgres, cfg.Ledger.Store)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:    JWTConfig{Secret: "s"},
			Ledger: LedgerConfig{Admin: "admin-1", Store: StoreMemory},
			Events: EventsConfig{BufferSize: 16},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "jwt.secret"},
		{"missing admin", func(c *Config) { c.Ledger.Admin = "" }, "ledger.admin"},
		{"unknown store", func(c *Config) { c.Ledger.Store = "mongo" }, "unknown ledger.store"},
		{"sqlite without path", func(c *Config) { c.Ledger.Store = StoreSQLite }, "sqlite_path"},
		{"zero buffer", func(c *Config) { c.Events.BufferSize = 0 }, "buffer_size"},
		{"rate limit without redis", func(c *Config) { c.RateLimit.Enabled = true }, "redis.enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "ledger",
		Password: "pw",
		DBName:   "hydrogen_ledger",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://ledger:pw@localhost:5432/hydrogen_ledger?sslmode=disable", dbCfg.DSN())
}

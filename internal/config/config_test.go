package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 7, cfg.Catalog.ActivityDays)
	assert.False(t, cfg.UsesS3())
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "staging"

[database]
driver = "memory"

[upload]
max_size = "5MB"

[catalog]
timezone = "Europe/Berlin"
activity_days = 14
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CATALOG_ACTIVITY_DAYS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Catalog.ActivityDays)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)

	size, err := cfg.Upload.MaxSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), size)

	loc, err := cfg.Catalog.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"bad upload size", func(c *Config) { c.Upload.MaxSize = "lots" }},
		{"bad timezone", func(c *Config) { c.Catalog.Timezone = "Mars/Olympus" }},
		{"local timezone", func(c *Config) { c.Catalog.Timezone = "Local" }},
		{"empty window", func(c *Config) { c.Catalog.ActivityDays = 0 }},
		{"negative max limit", func(c *Config) { c.Pagination.MaxLimit = -1 }},
		{"production without db password", func(c *Config) {
			c.Environment = "production"
			c.HiDrive.StateSecret = "rotated"
		}},
		{"production with default state secret", func(c *Config) {
			c.Environment = "production"
			c.Database.Password = "secret"
		}},
	}

	require.NoError(t, Defaults().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

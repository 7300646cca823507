package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/backend"
	"github.com/marmos91/vfsmount/pkg/catalog/gormdb"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit values
// are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyShutdownTimeoutDefaults(cfg)
	cfg.API.ApplyDefaults()
	applyTelemetryDefaults(&cfg.Telemetry)
	applyCatalogDefaults(&cfg.Catalog)
	for i := range cfg.Mounts {
		applyStorageDefaults(&cfg.Mounts[i].Storage)
	}
}

// applyTelemetryDefaults sets OpenTelemetry and Pyroscope defaults.
// Both stay disabled unless enabled explicitly.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = telemetry.DefaultEndpoint
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = telemetry.DefaultProfilingEndpoint
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = slices.Clone(telemetry.DefaultProfileTypes)
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

// applyCatalogDefaults sets catalog defaults. The SQL backends reuse the
// gormdb defaults; badger defaults to a directory next to the config file.
func applyCatalogDefaults(cfg *CatalogConfig) {
	if cfg.Type == "" {
		cfg.Type = CatalogSQLite
	}
	cfg.Type = strings.ToLower(cfg.Type)

	switch cfg.Type {
	case CatalogSQLite, CatalogPostgres:
		db := cfg.gormConfig()
		db.ApplyDefaults()
		cfg.SQLite = db.SQLite
		cfg.Postgres = db.Postgres
	case CatalogBadger:
		if cfg.Badger.Path == "" && !cfg.Badger.InMemory {
			cfg.Badger.Path = filepath.Join(getConfigDir(), "catalog.badger")
		}
	}
}

func applyStorageDefaults(cfg *StorageConfig) {
	cfg.Type = strings.ToLower(cfg.Type)
	if cfg.Type == backend.TypeS3 && cfg.Region == "" {
		cfg.Region = backend.DefaultS3Region
	}
	if cfg.Type == backend.TypeLocal && strings.HasPrefix(cfg.Root, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Root = filepath.Join(home, cfg.Root[2:])
		}
	}
}

// gormConfig maps the catalog section onto the gormdb configuration.
func (c *CatalogConfig) gormConfig() *gormdb.Config {
	return &gormdb.Config{
		Type:     gormdb.DatabaseType(c.Type),
		SQLite:   c.SQLite,
		Postgres: c.Postgres,
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
// The default configuration has no mounts.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Catalog: CatalogConfig{
			Type: CatalogSQLite,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}

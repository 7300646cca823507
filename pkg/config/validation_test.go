package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := GetDefaultConfig()
	cfg.Catalog = CatalogConfig{Type: CatalogMemory}
	cfg.Mounts = []MountConfig{
		{Path: "/", Storage: StorageConfig{Type: "local", Root: "/srv"}},
		{Path: "/b", Storage: StorageConfig{Type: "s3", Bucket: "b", Region: "us-east-1"}},
	}
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Errorf("Expected default config to pass validation, got error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"InvalidLogLevel", func(c *Config) { c.Logging.Level = "INVALID" }, "oneof"},
		{"InvalidLogFormat", func(c *Config) { c.Logging.Format = "xml" }, "oneof"},
		{"APIPortOutOfRange", func(c *Config) { c.API.Port = 70000 }, "max"},
		{"SampleRateAboveOne", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, "lte"},
		{"UnknownProfileType", func(c *Config) {
			c.Telemetry.Profiling.ProfileTypes = []string{"cpu", "heap"}
		}, "oneof"},
		{"UnknownCatalog", func(c *Config) { c.Catalog.Type = "etcd" }, "oneof"},
		{"MissingMountPath", func(c *Config) { c.Mounts[0].Path = "" }, "required"},
		{"LocalWithoutRoot", func(c *Config) { c.Mounts[0].Storage.Root = "" }, "required_if"},
		{"S3WithoutBucket", func(c *Config) { c.Mounts[1].Storage.Bucket = "" }, "required_if"},
		{"BadEndpoint", func(c *Config) { c.Mounts[1].Storage.Endpoint = "not a url" }, "url"},
		{"DuplicateMountPoint", func(c *Config) { c.Mounts[1].Path = "//" }, "already used"},
		{"PostgresWithoutHost", func(c *Config) {
			c.Catalog = CatalogConfig{Type: CatalogPostgres}
		}, "postgres host is required"},
		{"BadgerWithoutPath", func(c *Config) {
			c.Catalog = CatalogConfig{Type: CatalogBadger}
		}, "badger path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q in error, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyDefaults_Catalog(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{Catalog: CatalogConfig{Type: "POSTGRES"}}
	ApplyDefaults(cfg)
	if cfg.Catalog.Type != CatalogPostgres {
		t.Errorf("Expected catalog type normalized, got %q", cfg.Catalog.Type)
	}
	if cfg.Catalog.Postgres.Port != 5432 || cfg.Catalog.Postgres.SSLMode != "disable" {
		t.Errorf("Expected postgres defaults, got %+v", cfg.Catalog.Postgres)
	}

	cfg = &Config{Catalog: CatalogConfig{Type: CatalogBadger}}
	ApplyDefaults(cfg)
	if !strings.HasSuffix(cfg.Catalog.Badger.Path, "catalog.badger") {
		t.Errorf("Expected default badger path, got %q", cfg.Catalog.Badger.Path)
	}

	cfg = &Config{}
	ApplyDefaults(cfg)
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Catalog.Type != CatalogSQLite || cfg.Catalog.SQLite.Path == "" {
		t.Errorf("Expected sqlite catalog with default path, got %+v", cfg.Catalog)
	}
}

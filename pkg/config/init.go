package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfig is written by InitConfig. It must stay loadable by Load.
const sampleConfig = `# vfsmount Configuration File
#
# Environment variables override any value here, e.g.
#   VFSMOUNT_LOGGING_LEVEL=DEBUG

logging:
  level: INFO      # DEBUG, INFO, WARN, ERROR
  format: text     # text, json
  output: stderr   # stdout, stderr, or a file path

shutdown_timeout: 10s

api:
  port: %d
  # jwt_secret: change-me-to-at-least-32-characters  # require bearer tokens on /api/v1

metrics:
  enabled: false   # serve /metrics on the API port

telemetry:
  enabled: false   # export OpenTelemetry traces over OTLP gRPC
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0
  profiling:
    enabled: false # Pyroscope continuous profiling
    endpoint: http://localhost:4040

# The catalog assigns stable numeric ids to storages.
catalog:
  type: %s     # memory, sqlite, postgres, badger
  sqlite:
    path: %q
  # postgres:
  #   host: localhost
  #   port: 5432
  #   database: vfsmount
  #   user: vfsmount
  #   password: secret
  # badger:
  #   path: /var/lib/vfsmount/catalog

# Mounts are added in order. The longest matching mount point owns a path.
mounts:
  - path: /
    storage:
      type: local
      root: %q
  # - path: /archive
  #   storage:
  #     type: s3
  #     bucket: my-archive
  #     region: eu-west-1
  #     endpoint: http://localhost:4566
  #   options:
  #     read_only: true
`

// InitOptions customizes the generated configuration.
type InitOptions struct {
	// CatalogType is one of memory, sqlite, postgres or badger.
	CatalogType string
	// DataRoot is the local directory backing the root mount.
	DataRoot string
	APIPort  int
}

// DefaultInitOptions returns the options used for a config written to dir.
func DefaultInitOptions(dir string) InitOptions {
	return InitOptions{
		CatalogType: CatalogSQLite,
		DataRoot:    filepath.Join(dir, "data"),
		APIPort:     8080,
	}
}

// InitConfig writes a sample configuration to the default location.
// It refuses to overwrite an existing file unless force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration to path.
func InitConfigToPath(path string, force bool) error {
	return InitConfigWithOptions(path, force, DefaultInitOptions(filepath.Dir(path)))
}

// InitConfigWithOptions writes a configuration built from opts to path.
func InitConfigWithOptions(path string, force bool, opts InitOptions) error {
	switch opts.CatalogType {
	case CatalogMemory, CatalogSQLite, CatalogPostgres, CatalogBadger:
	default:
		return fmt.Errorf("unsupported catalog type %q", opts.CatalogType)
	}
	if opts.APIPort < 1 || opts.APIPort > 65535 {
		return fmt.Errorf("invalid API port %d", opts.APIPort)
	}
	if opts.DataRoot == "" {
		return fmt.Errorf("data root is required")
	}

	if ConfigExists(path) && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(sampleConfig,
		opts.APIPort,
		opts.CatalogType,
		filepath.ToSlash(filepath.Join(dir, "catalog.db")),
		filepath.ToSlash(opts.DataRoot))

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigExists reports whether a file is present at path.
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

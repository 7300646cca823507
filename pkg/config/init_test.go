package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitConfig_Success(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	for _, section := range []string{"logging:", "metrics:", "catalog:", "mounts:"} {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing section: %s", section)
		}
	}
}

func TestInitConfig_AlreadyExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	_, err := InitConfig(false)
	if err == nil {
		t.Fatal("Expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if _, err := InitConfig(true); err != nil {
		t.Fatalf("InitConfig with force failed: %v", err)
	}
}

func TestGeneratedConfigIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vfsmount", "config.yaml")
	if err := InitConfigToPath(path, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Generated config should load, got: %v", err)
	}

	if cfg.Catalog.Type != CatalogSQLite {
		t.Errorf("Expected sqlite catalog, got %q", cfg.Catalog.Type)
	}
	if len(cfg.Mounts) != 1 || cfg.Mounts[0].Path != "/" {
		t.Fatalf("Expected a single root mount, got %+v", cfg.Mounts)
	}
	wantRoot := filepath.ToSlash(filepath.Join(filepath.Dir(path), "data"))
	if cfg.Mounts[0].Storage.Root != wantRoot {
		t.Errorf("Expected root %q, got %q", wantRoot, cfg.Mounts[0].Storage.Root)
	}
}

func TestInitConfigWithOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	root := filepath.Join(dir, "exports")

	err := InitConfigWithOptions(path, false, InitOptions{
		CatalogType: CatalogMemory,
		DataRoot:    root,
		APIPort:     9090,
	})
	if err != nil {
		t.Fatalf("InitConfigWithOptions failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Generated config should load, got: %v", err)
	}
	if cfg.Catalog.Type != CatalogMemory {
		t.Errorf("Expected memory catalog, got %q", cfg.Catalog.Type)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("Expected API port 9090, got %d", cfg.API.Port)
	}
	if cfg.Mounts[0].Storage.Root != filepath.ToSlash(root) {
		t.Errorf("Expected root %q, got %q", filepath.ToSlash(root), cfg.Mounts[0].Storage.Root)
	}
}

func TestInitConfigWithOptions_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	base := DefaultInitOptions(filepath.Dir(path))

	bad := []InitOptions{
		{CatalogType: "etcd", DataRoot: base.DataRoot, APIPort: 8080},
		{CatalogType: CatalogSQLite, DataRoot: base.DataRoot, APIPort: 0},
		{CatalogType: CatalogSQLite, APIPort: 8080},
	}
	for _, opts := range bad {
		if err := InitConfigWithOptions(path, false, opts); err == nil {
			t.Errorf("Expected error for %+v", opts)
		}
	}
	if ConfigExists(path) {
		t.Error("Invalid options must not write a file")
	}
}

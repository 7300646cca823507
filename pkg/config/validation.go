package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/vfsmount/pkg/mount"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for structural errors (struct tags) and
// for constraints that span fields: catalog settings of the selected type and
// unique mount points.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Catalog.Type {
	case CatalogSQLite, CatalogPostgres:
		if err := cfg.Catalog.gormConfig().Validate(); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	case CatalogBadger:
		if cfg.Catalog.Badger.Path == "" && !cfg.Catalog.Badger.InMemory {
			return fmt.Errorf("catalog: badger path is required")
		}
	}

	// Later entries would silently overwrite earlier ones in the table.
	seen := make(map[string]int, len(cfg.Mounts))
	for i, m := range cfg.Mounts {
		key := mount.FormatMountPoint(nil, m.Path)
		if j, dup := seen[key]; dup {
			return fmt.Errorf("mounts[%d]: mount point %q already used by mounts[%d]", i, key, j)
		}
		seen[key] = i
	}

	return nil
}

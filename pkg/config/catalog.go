package config

import (
	"fmt"

	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/catalog/badger"
	"github.com/marmos91/vfsmount/pkg/catalog/gormdb"
	"github.com/marmos91/vfsmount/pkg/catalog/memory"
)

// OpenCatalog creates the storage catalog selected by cfg.
// The caller owns the returned catalog and must Close it.
func OpenCatalog(cfg CatalogConfig) (catalog.Catalog, error) {
	switch cfg.Type {
	case CatalogMemory:
		return memory.New(), nil
	case CatalogSQLite, CatalogPostgres:
		store, err := gormdb.New(cfg.gormConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to open %s catalog: %w", cfg.Type, err)
		}
		return store, nil
	case CatalogBadger:
		store, err := badger.New(cfg.Badger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown catalog type: %q", cfg.Type)
	}
}

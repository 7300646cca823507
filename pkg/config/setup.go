package config

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/mount"
)

// Setup populates a mount table from configuration the first time the table
// is queried. It implements mount.Bootstrapper.
//
// For every configured mount, in order, Setup creates the backend, registers
// its storage id in the catalog (allocating a numeric id on first sight) and
// adds the mount to the manager. A failure stops setup; the error is returned
// from this and every later EnsureReady call.
type Setup struct {
	ctx     context.Context
	cfg     *Config
	manager *mount.Manager
	catalog catalog.Catalog
	once    mount.Bootstrapper
}

var _ mount.Bootstrapper = (*Setup)(nil)

// NewSetup creates a Setup that fills mgr. ctx is used for backend creation
// and catalog calls when setup eventually runs.
func NewSetup(ctx context.Context, cfg *Config, mgr *mount.Manager, cat catalog.Catalog) *Setup {
	s := &Setup{
		ctx:     ctx,
		cfg:     cfg,
		manager: mgr,
		catalog: cat,
	}
	s.once = mount.Once(s.run)
	return s
}

// NewManager creates a manager whose table is built from cfg on first use
// and whose numeric ids are translated by cat.
//
// Example:
//
//	cat, _ := config.OpenCatalog(cfg.Catalog)
//	defer cat.Close()
//	mgr := config.NewManager(ctx, cfg, cat, mount.WithMetrics(metrics))
//	m, err := mgr.Find("/alice/files/report.pdf")
func NewManager(ctx context.Context, cfg *Config, cat catalog.Catalog, opts ...mount.Option) *mount.Manager {
	s := NewSetup(ctx, cfg, nil, cat)

	all := make([]mount.Option, 0, len(opts)+2)
	all = append(all, mount.WithTranslator(cat), mount.WithBootstrapper(s))
	all = append(all, opts...)

	s.manager = mount.NewManager(all...)
	return s.manager
}

// EnsureReady implements mount.Bootstrapper.
func (s *Setup) EnsureReady() error {
	return s.once.EnsureReady()
}

func (s *Setup) run() error {
	if s.manager == nil {
		return fmt.Errorf("setup has no mount manager")
	}

	ctx, span := telemetry.StartSpan(s.ctx, telemetry.SpanBootstrap)
	defer span.End()

	for i, mc := range s.cfg.Mounts {
		if err := s.addMount(ctx, mc); err != nil {
			err = fmt.Errorf("mounts[%d] (%s): %w", i, mc.Path, err)
			telemetry.RecordError(ctx, err)
			return err
		}
	}

	span.SetAttributes(telemetry.MountCount(s.manager.Count()))
	logger.InfoCtx(ctx, "Mount table ready", logger.KeyCount, s.manager.Count())
	return nil
}

func (s *Setup) addMount(ctx context.Context, mc MountConfig) error {
	storage, err := CreateStorage(ctx, mc.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}

	numericID, err := s.register(ctx, storage.ID())
	if err != nil {
		return fmt.Errorf("failed to register storage: %w", err)
	}

	m, err := mount.New(storage, mc.Path, mc.Options)
	if err != nil {
		return err
	}
	s.manager.AddMount(m)

	logger.DebugCtx(ctx, "Mount configured",
		logger.KeyMountPoint, m.MountPoint(),
		logger.KeyBackend, mc.Storage.Type,
		logger.KeyStorageID, m.StorageID(),
		logger.KeyNumericID, numericID)
	return nil
}

func (s *Setup) register(ctx context.Context, storageID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRegister,
		trace.WithAttributes(telemetry.StorageID(storageID)))
	defer span.End()

	numericID, err := s.catalog.Register(ctx, storageID)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return 0, err
	}
	span.SetAttributes(telemetry.NumericID(numericID))
	return numericID, nil
}

package commands

import (
	"context"

	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/marmos91/vfsmount/pkg/catalog"
)

// querier answers mount table queries, either from a local session or from
// a vfsmount server (--server).
type querier interface {
	Resolve(ctx context.Context, p string) (handlers.Resolution, error)
	ListMounts(ctx context.Context) ([]handlers.MountInfo, error)
	NestedMounts(ctx context.Context, p string) ([]handlers.MountInfo, error)
	MountsByStorageID(ctx context.Context, id string) ([]handlers.MountInfo, error)
	MountsByNumericID(ctx context.Context, numericID int64) ([]handlers.MountInfo, error)
	Catalog(ctx context.Context) ([]catalog.Entry, error)
	Close() error
}

// Resolve implements querier.
func (s *session) Resolve(ctx context.Context, p string) (handlers.Resolution, error) {
	m, err := s.manager.Find(p)
	if err != nil {
		return handlers.Resolution{}, err
	}
	return handlers.Resolution{
		Path:         s.normalize(p),
		InternalPath: m.InternalPath(p),
		Mount:        handlers.NewMountInfo(ctx, m, s.catalog),
	}, nil
}

// ListMounts implements querier.
func (s *session) ListMounts(ctx context.Context) ([]handlers.MountInfo, error) {
	if err := s.manager.EnsureReady(); err != nil {
		return nil, err
	}
	return handlers.NewMountInfos(ctx, s.manager.List(), s.catalog), nil
}

// NestedMounts implements querier.
func (s *session) NestedMounts(ctx context.Context, p string) ([]handlers.MountInfo, error) {
	mounts, err := s.manager.FindIn(p)
	if err != nil {
		return nil, err
	}
	return handlers.NewMountInfos(ctx, mounts, s.catalog), nil
}

// MountsByStorageID implements querier.
func (s *session) MountsByStorageID(ctx context.Context, id string) ([]handlers.MountInfo, error) {
	mounts, err := s.manager.FindByStorageID(id)
	if err != nil {
		return nil, err
	}
	return handlers.NewMountInfos(ctx, mounts, s.catalog), nil
}

// MountsByNumericID implements querier.
func (s *session) MountsByNumericID(ctx context.Context, numericID int64) ([]handlers.MountInfo, error) {
	mounts, err := s.manager.FindByNumericID(ctx, numericID)
	if err != nil {
		return nil, err
	}
	return handlers.NewMountInfos(ctx, mounts, s.catalog), nil
}

// Catalog implements querier. Configured mounts are registered first.
func (s *session) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	if err := s.manager.EnsureReady(); err != nil {
		return nil, err
	}
	return s.catalog.List(ctx)
}

package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/marmos91/vfsmount/pkg/catalog"
)

// Ready checks that the server has built its mount table.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/health/ready", nil, nil)
}

// Resolve returns the mount owning p.
func (c *Client) Resolve(ctx context.Context, p string) (handlers.Resolution, error) {
	var res handlers.Resolution
	err := c.get(ctx, "/api/v1/resolve", url.Values{"path": {p}}, &res)
	return res, err
}

// ListMounts returns every mount in insertion order.
func (c *Client) ListMounts(ctx context.Context) ([]handlers.MountInfo, error) {
	return c.listMounts(ctx, "/api/v1/mounts", nil)
}

// NestedMounts returns the mounts strictly below p.
func (c *Client) NestedMounts(ctx context.Context, p string) ([]handlers.MountInfo, error) {
	return c.listMounts(ctx, "/api/v1/mounts/nested", url.Values{"path": {p}})
}

// MountsByStorageID returns the mounts backed by the storage id.
func (c *Client) MountsByStorageID(ctx context.Context, id string) ([]handlers.MountInfo, error) {
	return c.listMounts(ctx, "/api/v1/storages/mounts", url.Values{"id": {id}})
}

// MountsByNumericID returns the mounts backed by the catalogued numeric id.
func (c *Client) MountsByNumericID(ctx context.Context, numericID int64) ([]handlers.MountInfo, error) {
	return c.listMounts(ctx, "/api/v1/storages/numeric/"+strconv.FormatInt(numericID, 10)+"/mounts", nil)
}

// Catalog returns the server's catalog entries.
func (c *Client) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	err := c.get(ctx, "/api/v1/catalog", nil, &entries)
	return entries, err
}

func (c *Client) listMounts(ctx context.Context, path string, query url.Values) ([]handlers.MountInfo, error) {
	var mounts []handlers.MountInfo
	if err := c.get(ctx, path, query, &mounts); err != nil {
		return nil, err
	}
	return mounts, nil
}

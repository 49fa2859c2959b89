package indexcore

import (
	"context"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
)

// SaveDataItem implements BundleIndex.
func (c *Core) SaveDataItem(ctx context.Context, item model.DataItem) error {
	_, err := c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).SaveDataItem(ctx, item)
	})
	return err
}

// SaveBundle implements BundleIndex.
func (c *Core) SaveBundle(ctx context.Context, rec model.BundleRecord) error {
	_, err := c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).SaveBundle(ctx, rec)
	})
	return err
}

// GetFailedBundleIds implements BundleIndex.
func (c *Core) GetFailedBundleIds(ctx context.Context, limit int) ([][]byte, error) {
	v, err := c.submit(ctx, pool.NameBundles, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*bundles.Store).GetFailedBundleIds(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// BackfillBundles implements BundleIndex.
func (c *Core) BackfillBundles(ctx context.Context, limit int) ([][]byte, error) {
	v, err := c.submit(ctx, pool.NameBundles, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*bundles.Store).BackfillBundles(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// UpdateBundlesFullyIndexedAt implements BundleIndex. Routed through the
// bundles pool's write queue since it mutates bundle lifecycle state.
func (c *Core) UpdateBundlesFullyIndexedAt(ctx context.Context, bundleID []byte, at int64) error {
	_, err := c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).UpdateBundlesFullyIndexedAt(ctx, bundleID, at)
	})
	return err
}

// UpdateBundlesForFilterChange implements BundleIndex.
func (c *Core) UpdateBundlesForFilterChange(ctx context.Context, rootTxID []byte, filter string) error {
	_, err := c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).UpdateBundlesForFilterChange(ctx, rootTxID, filter)
	})
	return err
}

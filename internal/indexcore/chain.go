package indexcore

import (
	"context"

	"github.com/sm4rtLabel/ar-io-node/internal/model"
	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
)

// SaveBlockAndTxs implements ChainIndex. After the core write succeeds, if
// block.Height falls on the stable-flush cadence it also promotes/GCs the
// bundles store, passing core's own max-stable-block-timestamp across.
func (c *Core) SaveBlockAndTxs(ctx context.Context, block model.Block, txs []model.Transaction, missingTxIDs [][]byte) error {
	_, err := c.submit(ctx, pool.NameCore, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*core.Store).SaveBlockAndTxs(ctx, block, txs, missingTxIDs)
	})
	if err != nil {
		return err
	}

	if block.Height%c.cfg.Core.StableFlushInterval != 0 {
		return nil
	}
	ts, err := c.submit(ctx, pool.NameCore, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*core.Store).GetMaxStableBlockTimestamp(ctx)
	})
	if err != nil {
		return err
	}
	_, err = c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).PromoteAndGC(ctx, block.Height, ts.(int64))
	})
	return err
}

// SaveTx implements ChainIndex.
func (c *Core) SaveTx(ctx context.Context, t model.Transaction) error {
	_, err := c.submit(ctx, pool.NameCore, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*core.Store).SaveTx(ctx, t)
	})
	return err
}

// ResetToHeight implements ChainIndex: rolls back core's and bundles'
// new_* state above h as two separate transactions, since cross-store
// atomicity is not required.
func (c *Core) ResetToHeight(ctx context.Context, h int64) error {
	_, err := c.submit(ctx, pool.NameCore, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*core.Store).ResetToHeight(ctx, h)
	})
	if err != nil {
		return err
	}
	_, err = c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*bundles.Store).ResetToHeight(ctx, h)
	})
	return err
}

// GetMaxHeight implements ChainIndex.
func (c *Core) GetMaxHeight(ctx context.Context) (int64, error) {
	v, err := c.submit(ctx, pool.NameCore, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*core.Store).GetMaxHeight(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetBlockHashByHeight implements ChainIndex.
func (c *Core) GetBlockHashByHeight(ctx context.Context, height int64) ([]byte, error) {
	v, err := c.submit(ctx, pool.NameCore, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*core.Store).GetBlockHashByHeight(ctx, height)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// GetMissingTxIds implements ChainIndex.
func (c *Core) GetMissingTxIds(ctx context.Context, maxHeight int64) ([][]byte, error) {
	v, err := c.submit(ctx, pool.NameCore, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*core.Store).GetMissingTxIds(ctx, maxHeight)
	})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// GetTxIdsMissingOffsets implements ChainOffsetIndex.
func (c *Core) GetTxIdsMissingOffsets(ctx context.Context, limit int) ([][]byte, error) {
	v, err := c.submit(ctx, pool.NameCore, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*core.Store).GetTxIdsMissingOffsets(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([][]byte), nil
}

// SaveTxOffset implements ChainOffsetIndex.
func (c *Core) SaveTxOffset(ctx context.Context, txID []byte, absoluteOffset int64) error {
	_, err := c.submit(ctx, pool.NameCore, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*core.Store).SaveTxOffset(ctx, txID, absoluteOffset)
	})
	return err
}

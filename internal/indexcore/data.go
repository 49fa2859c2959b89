package indexcore

import (
	"context"
	"errors"

	"github.com/sm4rtLabel/ar-io-node/internal/errs"
	"github.com/sm4rtLabel/ar-io-node/internal/model"
	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/store/data"
)

// SaveDataContentAttributes implements ContiguousDataIndex.
func (c *Core) SaveDataContentAttributes(ctx context.Context, attrs model.DataContentAttributes) error {
	_, err := c.submit(ctx, pool.NameData, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*data.Store).SaveDataContentAttributes(ctx, attrs)
	})
	return err
}

// SaveNestedDataId implements NestedDataIndexWriter.
func (c *Core) SaveNestedDataId(ctx context.Context, id, parentID []byte, dataOffset, dataSize int64) error {
	_, err := c.submit(ctx, pool.NameData, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*data.Store).SaveNestedDataId(ctx, id, parentID, dataOffset, dataSize)
	})
	return err
}

// SaveNestedDataHash implements NestedDataIndexWriter.
func (c *Core) SaveNestedDataHash(ctx context.Context, hash, parentID []byte, dataOffset int64) error {
	_, err := c.submit(ctx, pool.NameData, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*data.Store).SaveNestedDataHash(ctx, hash, parentID, dataOffset)
	})
	return err
}

// GetDataAttributes implements ContiguousDataIndex, guarded by the data
// circuit breaker: a tripped breaker yields (nil, nil), the caller-visible
// "unknown", not "absent" or an error.
func (c *Core) GetDataAttributes(ctx context.Context, id []byte) (*model.DataContentAttributes, error) {
	v, err := c.dataBreaker.Do(ctx, func(ctx context.Context) (any, error) {
		return c.submit(ctx, pool.NameData, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
			return resource.(*data.Store).GetDataAttributes(ctx, id)
		})
	})
	if errors.Is(err, errs.ErrCircuitOpen) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.DataContentAttributes), nil
}

// GetDataParent implements ContiguousDataIndex, guarded by the same
// breaker instance as GetDataAttributes.
func (c *Core) GetDataParent(ctx context.Context, id []byte) (*model.DataParent, error) {
	v, err := c.dataBreaker.Do(ctx, func(ctx context.Context) (any, error) {
		return c.submit(ctx, pool.NameData, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
			return resource.(*data.Store).GetDataParent(ctx, id)
		})
	})
	if errors.Is(err, errs.ErrCircuitOpen) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.DataParent), nil
}

package indexcore

import (
	"context"

	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/store/moderation"
)

// IsIdBlocked implements BlockListValidator.
func (c *Core) IsIdBlocked(ctx context.Context, id []byte) (bool, error) {
	v, err := c.submit(ctx, pool.NameModeration, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*moderation.Store).IsIdBlocked(ctx, id)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// IsHashBlocked implements BlockListValidator.
func (c *Core) IsHashBlocked(ctx context.Context, hash []byte) (bool, error) {
	v, err := c.submit(ctx, pool.NameModeration, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		return resource.(*moderation.Store).IsHashBlocked(ctx, hash)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// BlockData implements BlockListValidator.
func (c *Core) BlockData(ctx context.Context, req moderation.BlockRequest) error {
	_, err := c.submit(ctx, pool.NameModeration, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
		return nil, resource.(*moderation.Store).BlockData(ctx, req)
	})
	return err
}

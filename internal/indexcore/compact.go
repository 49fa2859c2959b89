package indexcore

import (
	"context"
	"fmt"

	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
	"github.com/sm4rtLabel/ar-io-node/internal/store/data"
	"github.com/sm4rtLabel/ar-io-node/internal/store/moderation"
)

// Compact runs VACUUM against all four store files, routed through each
// pool's write role so it never races an in-flight ingest transaction.
// VACUUM rewrites the whole file, so this can take a while on a large
// store; callers should run it during a maintenance window.
func (c *Core) Compact(ctx context.Context) error {
	vacuums := []struct {
		name string
		run  func() error
	}{
		{pool.NameCore, func() error {
			_, err := c.submit(ctx, pool.NameCore, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
				return nil, resource.(*core.Store).Vacuum(ctx)
			})
			return err
		}},
		{pool.NameBundles, func() error {
			_, err := c.submit(ctx, pool.NameBundles, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
				return nil, resource.(*bundles.Store).Vacuum(ctx)
			})
			return err
		}},
		{pool.NameData, func() error {
			_, err := c.submit(ctx, pool.NameData, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
				return nil, resource.(*data.Store).Vacuum(ctx)
			})
			return err
		}},
		{pool.NameModeration, func() error {
			_, err := c.submit(ctx, pool.NameModeration, pool.RoleWrite, func(ctx context.Context, resource any) (any, error) {
				return nil, resource.(*moderation.Store).Vacuum(ctx)
			})
			return err
		}},
	}

	for _, v := range vacuums {
		if err := v.run(); err != nil {
			return fmt.Errorf("indexcore: compact %s: %w", v.name, err)
		}
	}
	return nil
}

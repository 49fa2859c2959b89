package indexcore

import (
	"context"
	"time"

	"github.com/sm4rtLabel/ar-io-node/internal/debuginfo"
	"github.com/sm4rtLabel/ar-io-node/internal/pool"
)

// GetDebugInfo assembles the cross-store consistency report,
// dispatched through the debug pool so it never competes with core/bundles
// writers for a store connection.
func (c *Core) GetDebugInfo(ctx context.Context) (debuginfo.Info, error) {
	v, err := c.submit(ctx, pool.NameDebug, pool.RoleRead, func(ctx context.Context, resource any) (any, error) {
		res := resource.(debugResource)
		return debuginfo.Get(ctx, res.core, res.bundles, time.Now())
	})
	if err != nil {
		return debuginfo.Info{}, err
	}
	return v.(debuginfo.Info), nil
}

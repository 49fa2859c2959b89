package indexcore

import (
	"context"
	"fmt"
	"io"

	"github.com/sm4rtLabel/ar-io-node/internal/stream"
)

// GetTxData streams a transaction's data, resolving its offset
// via the configured stream.TxOffsetSource and pulling chunks through the
// shared read-through cache wrapping the configured stream.ChunkSource.
// Neither collaborator touches a store connection, so this bypasses the
// pool dispatch every other Core method uses.
func (c *Core) GetTxData(ctx context.Context, txID []byte) (io.ReadCloser, int64, error) {
	if c.cfg.Offsets == nil || c.chunks == nil {
		return nil, 0, fmt.Errorf("indexcore: GetTxData: no chunk source configured")
	}
	return stream.GetTxData(ctx, c.cfg.Offsets, c.chunks, txID)
}

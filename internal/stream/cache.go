package stream

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// CachedChunkSource wraps a ChunkSource with a read-through LRU cache keyed
// on (dataRoot, relativeOffset), never on absoluteOffset, since the same
// content can be requested at different absolute offsets by different
// transactions sharing a data root. Concurrent misses for the same key are
// collapsed via singleflight so a stampede of readers for one popular
// chunk issues a single underlying fetch.
type CachedChunkSource struct {
	underlying ChunkSource
	cache   *lru.Cache[cacheKey, []byte]
	group   singleflight.Group
}

type cacheKey struct {
	dataRoot    string
	relativeOffset int64
}

// NewCachedChunkSource wraps underlying with an LRU cache holding up to
// size entries.
func NewCachedChunkSource(underlying ChunkSource, size int) (*CachedChunkSource, error) {
	cache, err := lru.New[cacheKey, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("stream: new chunk cache: %w", err)
	}
	return &CachedChunkSource{underlying: underlying, cache: cache}, nil
}

func (c *CachedChunkSource) GetChunkDataByAbsoluteOrRelativeOffset(ctx context.Context, txSize, absoluteOffset int64, dataRoot []byte, relativeOffset int64) ([]byte, error) {
	key := cacheKey{dataRoot: string(dataRoot), relativeOffset: relativeOffset}
	if chunk, ok := c.cache.Get(key); ok {
		return chunk, nil
	}

	v, err, _ := c.group.Do(fmt.Sprintf("%s:%d", key.dataRoot, key.relativeOffset), func() (any, error) {
		chunk, err := c.underlying.GetChunkDataByAbsoluteOrRelativeOffset(ctx, txSize, absoluteOffset, dataRoot, relativeOffset)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, chunk)
		return chunk, nil
	})
	if err != nil {
		return nil, fmt.Errorf("stream: fetch chunk: %w", err)
	}
	return v.([]byte), nil
}

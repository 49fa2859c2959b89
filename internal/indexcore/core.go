// Package indexcore wires the four persistent stores, the six named
// worker pools, the query planner, the streaming data assembler, and the
// data-index circuit breakers into the seven capability sets
// (ChainIndex, ChainOffsetIndex, BundleIndex, ContiguousDataIndex,
// NestedDataIndexWriter, BlockListValidator, GqlQueryable) that make up
// the rest of the gateway. The sets are methods on Core; no Go interface
// types for them are declared here. Every store-backed Core method
// dispatches through the pool matching its store, so the caller never
// touches a store connection directly.
package indexcore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sm4rtLabel/ar-io-node/internal/breaker"
	"github.com/sm4rtLabel/ar-io-node/internal/log"
	"github.com/sm4rtLabel/ar-io-node/internal/pool"
	"github.com/sm4rtLabel/ar-io-node/internal/query"
	"github.com/sm4rtLabel/ar-io-node/internal/store/bundles"
	"github.com/sm4rtLabel/ar-io-node/internal/store/core"
	"github.com/sm4rtLabel/ar-io-node/internal/store/data"
	"github.com/sm4rtLabel/ar-io-node/internal/store/moderation"
	"github.com/sm4rtLabel/ar-io-node/internal/stream"
)

// Paths names the four database files.
type Paths struct {
	CorePath    string
	BundlesPath  string
	DataPath    string
	ModerationPath string
}

// Config aggregates every tunable indexcore wires: store lifecycle
// constants, pool shapes, circuit breaker thresholds, and the external
// chain-data collaborators the streaming assembler pulls from. Offsets and
// Chunks are supplied by the caller (the gateway's chunk-fetcher wire
// protocol is out of scope here); indexcore only wraps Chunks in a
// read-through cache and drives the pipe.
type Config struct {
	Paths
	Core      core.Config
	Bundles    bundles.Config
	Pools     map[string]pool.Config
	Breaker    breaker.Config
	DataTimeout  time.Duration
	Offsets    stream.TxOffsetSource
	Chunks     stream.ChunkSource
	ChunkCacheSize int
}

// DefaultConfig applies the production defaults for every store and pool.
func DefaultConfig(paths Paths) Config {
	timeout := 2 * time.Second
	return Config{
		Paths:     paths,
		Core:      core.DefaultConfig(),
		Bundles:    bundles.DefaultConfig(),
		Pools:     pool.DefaultConfigs(1000),
		Breaker:    breaker.DefaultConfig(timeout),
		DataTimeout:  timeout,
		ChunkCacheSize: 4096,
	}
}

// Core provides the ChainIndex, ChainOffsetIndex, BundleIndex,
// ContiguousDataIndex, NestedDataIndexWriter, BlockListValidator, and
// GqlQueryable methods by dispatching each call through the pool that
// owns the relevant store.
type Core struct {
	cfg  Config
	pools map[string]*pool.Pool

	dataBreaker *breaker.Breaker
	chunks   *stream.CachedChunkSource
}

// Open probes each of the four store files once (surfacing a bad path or
// schema error synchronously, rather than racing pool.New's background
// spawn goroutines over a shared error variable) and then builds every
// pool's workers, each opening its own store connection and statement
// cache.
func Open(ctx context.Context, cfg Config) (*Core, error) {
	if err := probeStores(ctx, cfg); err != nil {
		return nil, err
	}

	c := &Core{
		cfg:     cfg,
		pools:    make(map[string]*pool.Pool),
		dataBreaker: breaker.New(cfg.Breaker),
	}

	if cfg.Chunks != nil {
		cacheSize := cfg.ChunkCacheSize
		if cacheSize <= 0 {
			cacheSize = 4096
		}
		cached, err := stream.NewCachedChunkSource(cfg.Chunks, cacheSize)
		if err != nil {
			return nil, fmt.Errorf("indexcore: new chunk cache: %w", err)
		}
		c.chunks = cached
	}

	newWorker := func(name string, factory func() (pool.Worker, error)) func(slot int, role pool.Role) pool.Worker {
		return func(slot int, role pool.Role) pool.Worker {
			w, err := factory()
			if err != nil {
				// The probe above already validated these paths, so a
				// later failure here is transient (disk pressure, a
				// momentarily locked file); the worker runs with no
				// resource and every job it picks up fails immediately,
				// which trips its error budget and triggers a respawn.
				return pool.NewFuncWorker(nil, nil)
			}
			return w
		}
	}

	c.pools[pool.NameCore] = pool.New(cfg.Pools[pool.NameCore], newWorker(pool.NameCore, func() (pool.Worker, error) {
		s, err := core.Open(ctx, cfg.CorePath, cfg.BundlesPath, cfg.Core)
		if err != nil {
			return nil, err
		}
		return pool.NewFuncWorker(s, s.Close), nil
	}))

	c.pools[pool.NameBundles] = pool.New(cfg.Pools[pool.NameBundles], newWorker(pool.NameBundles, func() (pool.Worker, error) {
		s, err := bundles.Open(ctx, cfg.BundlesPath, cfg.CorePath, cfg.Bundles)
		if err != nil {
			return nil, err
		}
		return pool.NewFuncWorker(s, s.Close), nil
	}))

	c.pools[pool.NameData] = pool.New(cfg.Pools[pool.NameData], newWorker(pool.NameData, func() (pool.Worker, error) {
		s, err := data.Open(ctx, cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return pool.NewFuncWorker(s, s.Close), nil
	}))

	c.pools[pool.NameModeration] = pool.New(cfg.Pools[pool.NameModeration], newWorker(pool.NameModeration, func() (pool.Worker, error) {
		s, err := moderation.Open(ctx, cfg.ModerationPath)
		if err != nil {
			return nil, err
		}
		return pool.NewFuncWorker(s, s.Close), nil
	}))

	c.pools[pool.NameGql] = pool.New(cfg.Pools[pool.NameGql], newWorker(pool.NameGql, func() (pool.Worker, error) {
		s, err := core.Open(ctx, cfg.CorePath, cfg.BundlesPath, cfg.Core)
		if err != nil {
			return nil, err
		}
		planner := query.NewPlanner(s.DB())
		return pool.NewFuncWorker(planner, s.Close), nil
	}))

	c.pools[pool.NameDebug] = pool.New(cfg.Pools[pool.NameDebug], newWorker(pool.NameDebug, func() (pool.Worker, error) {
		coreStore, err := core.Open(ctx, cfg.CorePath, cfg.BundlesPath, cfg.Core)
		if err != nil {
			return nil, err
		}
		bundlesStore, err := bundles.Open(ctx, cfg.BundlesPath, cfg.CorePath, cfg.Bundles)
		if err != nil {
			coreStore.Close()
			return nil, err
		}
		return pool.NewFuncWorker(debugResource{coreStore, bundlesStore}, func() error {
			err1 := coreStore.Close()
			err2 := bundlesStore.Close()
			if err1 != nil {
				return err1
			}
			return err2
		}), nil
	}))

	return c, nil
}

// probeStores opens and immediately closes each store file once, so
// Open reports a bad path or schema failure synchronously instead of
// deferring it to whichever background worker goroutine happens to hit it
// first.
func probeStores(ctx context.Context, cfg Config) error {
	coreStore, err := core.Open(ctx, cfg.CorePath, cfg.BundlesPath, cfg.Core)
	if err != nil {
		return fmt.Errorf("indexcore: probe core store: %w", err)
	}
	coreStore.Close()

	bundlesStore, err := bundles.Open(ctx, cfg.BundlesPath, cfg.CorePath, cfg.Bundles)
	if err != nil {
		return fmt.Errorf("indexcore: probe bundles store: %w", err)
	}
	bundlesStore.Close()

	dataStore, err := data.Open(ctx, cfg.DataPath)
	if err != nil {
		return fmt.Errorf("indexcore: probe data store: %w", err)
	}
	dataStore.Close()

	moderationStore, err := moderation.Open(ctx, cfg.ModerationPath)
	if err != nil {
		return fmt.Errorf("indexcore: probe moderation store: %w", err)
	}
	moderationStore.Close()

	return nil
}

type debugResource struct {
	core  *core.Store
	bundles *bundles.Store
}

// Close shuts down every pool, stopping its workers and closing their
// store connections.
func (c *Core) Close() {
	for _, p := range c.pools {
		p.Shutdown()
	}
}

func (c *Core) submit(ctx context.Context, poolName string, role pool.Role, fn func(ctx context.Context, resource any) (any, error)) (any, error) {
	p, ok := c.pools[poolName]
	if !ok {
		return nil, fmt.Errorf("indexcore: unknown pool %q", poolName)
	}
	// The gql and debug pools serve interactive callers, so their jobs get a
	// trace id in the log; the other four pools handle ingestion fan-out at
	// a volume where per-job logging would drown out everything else.
	if poolName == pool.NameGql || poolName == pool.NameDebug {
		traceID := uuid.NewString()
		log.FromContext(ctx).Debug("pool job submitted", "pool", poolName, "role", role, "traceId", traceID)
	}
	return p.Submit(ctx, role, fn)
}

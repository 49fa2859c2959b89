package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/config"
	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
)

var rootCmd = &cobra.Command{
	Use:   "gwindex",
	Short: "Content-addressed chain gateway indexing core",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("initialize config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "operate", Title: "Operate:"},
		&cobra.Group{ID: "inspect", Title: "Inspect:"},
	)
}

func paths() indexcore.Paths {
	return indexcore.Paths{
		CorePath:       config.GetString("db.core-path"),
		BundlesPath:    config.GetString("db.bundles-path"),
		DataPath:       config.GetString("db.data-path"),
		ModerationPath: config.GetString("db.moderation-path"),
	}
}

// indexcoreConfig builds an indexcore.Config from the current
// configuration, starting from indexcore.DefaultConfig and overriding
// every value a config key or env var supplies.
func indexcoreConfig() indexcore.Config {
	cfg := indexcore.DefaultConfig(paths())

	cfg.Core.MaxForkDepth = config.GetInt64("lifecycle.max-fork-depth")
	cfg.Core.StableFlushInterval = config.GetInt64("lifecycle.stable-flush-interval")
	cfg.Core.NewTxCleanupWait = int64(config.GetDuration("lifecycle.new-tx-cleanup-wait").Seconds())

	cfg.Bundles.MaxForkDepth = config.GetInt64("lifecycle.max-fork-depth")
	cfg.Bundles.StableFlushInterval = config.GetInt64("lifecycle.stable-flush-interval")
	cfg.Bundles.NewDataItemCleanupWait = int64(config.GetDuration("lifecycle.new-data-item-cleanup-wait").Seconds())

	queueDepth := config.GetInt("pool.queue-depth")
	for name, p := range cfg.Pools {
		p.QueueDepth = queueDepth
		if name == "gql" {
			if readers := config.GetInt("pool.gql-readers"); readers > 0 {
				p.Readers = readers
			}
		}
		cfg.Pools[name] = p
	}

	cfg.Breaker.Timeout = config.GetDuration("breaker.timeout")
	cfg.Breaker.Window = config.GetDuration("breaker.window")
	cfg.Breaker.ErrorRate = config.GetFloat64("breaker.error-rate")
	cfg.Breaker.ResetInterval = config.GetDuration("breaker.reset-interval")

	cfg.ChunkCacheSize = config.GetInt("stream.chunk-cache-size")

	return cfg
}

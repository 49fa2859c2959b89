package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/config"
	"github.com/sm4rtLabel/ar-io-node/internal/debuginfo"
	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
	"github.com/sm4rtLabel/ar-io-node/internal/log"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "operate",
	Short:   "Open the stores and run until signaled to stop",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New()
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		icfg := indexcoreConfig()

		lockPath := filepath.Join(filepath.Dir(icfg.CorePath), ".gwindex.lock")
		lock := flock.New(lockPath)
		locked, err := lock.TryLockContext(ctx, 0)
		if err != nil {
			return fmt.Errorf("acquire coordinator lock %s: %w", lockPath, err)
		}
		if !locked {
			return fmt.Errorf("coordinator lock %s is held by another process", lockPath)
		}
		defer lock.Unlock()

		config.Watch(func(e fsnotify.Event) {
			logger.Info("config file changed", "path", e.Name)
		})

		core, err := indexcore.Open(ctx, icfg)
		if err != nil {
			return err
		}
		defer core.Close()
		logger.Info("stores opened")

		interval := config.GetDuration("debug.log-interval")
		if interval <= 0 {
			interval = 60 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				return nil
			case <-ticker.C:
				info, err := core.GetDebugInfo(ctx)
				if err != nil {
					logger.Error("debug info", "error", err)
					continue
				}
				logHealth(logger, info)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func logHealth(logger *slog.Logger, info debuginfo.Info) {
	if len(info.Errors) > 0 {
		logger.Warn("debug info errors", "errors", info.Errors)
	}
	if len(info.Warnings) > 0 {
		logger.Warn("debug info warnings", "warnings", info.Warnings)
	}
	logger.Info("health", "stableBlocks", info.Counts.StableBlockCount, "staleBundles", info.StaleBundles)
}

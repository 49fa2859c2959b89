// Package config loads the indexing core's configuration via a viper
// singleton. Precedence (highest to lowest): env var > config file >
// default. Config file discovery walks project -> user config dir -> home
// dir, the same walk order as a dotfile-based CLI tool's config lookup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	v             *viper.Viper
	configFileSet bool
)

// Initialize sets up the viper configuration singleton. Call once at
// application startup, before any Get* call.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet = false

	// 1. Walk up from CWD looking for a project .gwindex/config.yaml, so
	// commands behave the same from any subdirectory.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".gwindex", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. User config directory (~/.config/gwindex/config.yaml).
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "gwindex", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory (~/.gwindex/config.yaml).
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".gwindex", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix("GWINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Store file paths, the four SQLite databases.
	v.SetDefault("db.core-path", "data/core.db")
	v.SetDefault("db.data-path", "data/data.db")
	v.SetDefault("db.moderation-path", "data/moderation.db")
	v.SetDefault("db.bundles-path", "data/bundles.db")

	// Lifecycle constants; overridable in tests and for operators running a
	// shallower fork depth.
	v.SetDefault("lifecycle.max-fork-depth", 50)
	v.SetDefault("lifecycle.stable-flush-interval", 5)
	v.SetDefault("lifecycle.new-tx-cleanup-wait", "2h")
	v.SetDefault("lifecycle.new-data-item-cleanup-wait", "2h")

	// Worker pool sizing. 0 for gql-readers lets the pool self-size off
	// runtime.NumCPU.
	v.SetDefault("pool.queue-depth", 1000)
	v.SetDefault("pool.gql-readers", 0)

	// Circuit breaker guarding contiguous-data lookups.
	v.SetDefault("breaker.timeout", "2s")
	v.SetDefault("breaker.window", "5s")
	v.SetDefault("breaker.error-rate", 0.5)
	v.SetDefault("breaker.reset-interval", "10s")

	// Read-through chunk cache.
	v.SetDefault("stream.chunk-cache-size", 4096)

	// Logging.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("log.max-size-mb", 100)
	v.SetDefault("log.max-backups", 5)

	// Debug-info periodic logging.
	v.SetDefault("debug.log-interval", "60s")
}

// ConfigSource records where a configuration value came from, for
// diagnostic logging when an env var or flag silently overrides a
// config-file value.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
	SourceFlag       ConfigSource = "flag"
)

// GetValueSource returns the source of a configuration value.
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}

	envKey := "GWINDEX_" + strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}
	if v.InConfig(key) {
		return SourceConfigFile
	}
	return SourceDefault
}

// LogOverride logs a message about a configuration override in verbose
// mode; callers guard the call on their own verbosity flag.
func LogOverride(key string, effectiveValue, originalValue any, originalSource ConfigSource) {
	var sourceDesc string
	switch originalSource {
	case SourceConfigFile:
		sourceDesc = "config file"
	case SourceEnvVar:
		sourceDesc = "environment variable"
	default:
		sourceDesc = string(originalSource)
	}
	fmt.Fprintf(os.Stderr, "config: %s overridden by environment variable (was: %v from %s, now: %v)\n",
		key, originalValue, sourceDesc, effectiveValue)
}

func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

func GetInt64(key string) int64 {
	if v == nil {
		return 0
	}
	return v.GetInt64(key)
}

func GetFloat64(key string) float64 {
	if v == nil {
		return 0
	}
	return v.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set overrides a configuration value; used by tests and by flags bound
// after Initialize.
func Set(key string, value any) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map, for the
// `config list` subcommand's dump.
func AllSettings() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return v.AllSettings()
}

// Watch arranges for onChange to run whenever the config file on disk
// changes, via viper's fsnotify-backed watch. It is a no-op when no config
// file was found at Initialize time (env-only / defaults-only configs have
// nothing to watch).
func Watch(onChange func(fsnotify.Event)) {
	if v == nil || !configFileSet {
		return
	}
	v.OnConfigChange(onChange)
	v.WatchConfig()
}

// Package log builds the process-wide structured logger from
// internal/config's log.* settings: level, optional file rotation via
// lumberjack, and stdout otherwise.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sm4rtLabel/ar-io-node/internal/config"
)

// New builds a *slog.Logger from the current configuration. When
// log.path is set, output is written through a lumberjack.Logger so log
// files rotate at log.max-size-mb, keeping log.max-backups old copies;
// otherwise it writes to stdout.
func New() *slog.Logger {
	var w io.Writer = os.Stdout
	if path := config.GetString("log.path"); path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    config.GetInt("log.max-size-mb"),
			MaxBackups: config.GetInt("log.max-backups"),
			Compress:   true,
		}
	}

	opts := &slog.HandlerOptions{Level: levelFor(config.GetString("log.level"))}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func levelFor(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ctxKey is an unexported type for the logger context key, per the
// standard library's "own type to avoid collisions" convention.
type ctxKey struct{}

// WithContext attaches l to ctx so handlers deep in a call chain can log
// without threading a *slog.Logger parameter through every signature.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached by WithContext, or
// slog.Default() if none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

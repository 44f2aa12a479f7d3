package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"owltrack/internal/config"
)

var (
	mu       sync.RWMutex
	instance *slog.Logger
)

// Setup builds the process-wide logger. Release-like environments with a
// file path write rotated JSON, everything else writes text to stdout.
func Setup(appEnv string, cfg config.Log) *slog.Logger {
	release := isRelease(appEnv)
	opts := &slog.HandlerOptions{
		AddSource: release,
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if release && cfg.FilePath != "" {
		handler = slog.NewJSONHandler(newRotatingWriter(cfg), opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	l := slog.New(handler).With("app_name", "owltrack", "env", appEnv)

	mu.Lock()
	instance = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// Get returns the configured logger, or slog's default before Setup runs.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return slog.Default()
	}
	return instance
}

// New returns a logger tagged with the module name.
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// Discard is handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRotatingWriter(cfg config.Log) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

func isRelease(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

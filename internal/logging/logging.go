package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"procurement/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger from cfg and installs it as slog's default.
// The returned closer flushes the log file, if one is configured.
func Setup(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		}
		out, closer = rotating, rotating
	}

	logger, err := New(out, cfg.LogFormat, level, cfg.LogAddSource)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

func New(w io.Writer, format string, level slog.Level, addSource bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", name, err)
	}
	return level, nil
}

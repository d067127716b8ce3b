// Package logging configures the CLI's structured file logger.
package logging

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/apimgr/trigger/src/paths"
)

// Config holds logging configuration
type Config struct {
	Level    string // debug, info, warn, error (default: warn)
	File     string // Log file path (empty = {log_dir}/cli.log)
	MaxSize  int    // Max log file size in MB (default: 10)
	MaxFiles int    // Max log files to keep (default: 5)
	MaxAge   int    // Days to keep old files (default: 30)
}

// Init installs a JSON slog handler writing to a rotating log file as the
// default logger and returns the writer so callers can close it. Every
// record carries the invocation id so runs sharing the file can be told apart.
func Init(cfg Config) (io.Closer, error) {
	logPath := cfg.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logPath = paths.ExpandHome(logPath)

	if err := paths.EnsureFile(logPath); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	rotatingWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    withDefault(cfg.MaxSize, 10),
		MaxBackups: withDefault(cfg.MaxFiles, 5),
		MaxAge:     withDefault(cfg.MaxAge, 30),
		Compress:   true,
	}

	handler := slog.NewJSONHandler(rotatingWriter, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})
	slog.SetDefault(slog.New(handler).With("invocation", NewInvocationID()))

	return rotatingWriter, nil
}

// ParseLevel maps a level name to a slog level. Unknown names mean warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewInvocationID returns a time-ordered id of the form inv_<ULID>
func NewInvocationID() string {
	return "inv_" + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

func NewProgramAttr() slog.Attr {
	hostname, _ := os.Hostname()

	version := "unknown"
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		version = buildInfo.Main.Version
	}

	return slog.Group("program",
		slog.String("name", "wan-monitor"),
		slog.Int("pid", os.Getpid()),
		slog.String("machine", hostname),
		slog.String("version", version),
	)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// ParseLevel maps a level name to slog.Level. Verbose forces debug regardless of the name.
func ParseLevel(name string, verbose bool) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}

	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.Level(-1), fmt.Errorf("invalid log level: %s", name)
	}
}

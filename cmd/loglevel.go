package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

// levelFlag is a pflag.Value holding a slog level.
type levelFlag struct {
	level slog.Level
}

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) String() string { return strings.ToLower(l.level.String()) }

func (l *levelFlag) Set(value string) error {
	lvl, err := parseLogLevel(value)
	if err != nil {
		return err
	}
	l.level = lvl
	return nil
}

func (l *levelFlag) Type() string { return "level" }

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", value)
	}
}

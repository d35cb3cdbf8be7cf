package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"localkeep/internal/config"
)

const logLevelEnvKey = "LOCALKEEP_LOG_LEVEL"

// Component names attached to store loggers.
const (
	componentLicense = "license"
	componentMedia   = "media"
	componentJournal = "journal"
)

// levelSource names where a log level came from, in the words a user would
// use to fix it.
type levelSource string

const (
	sourceFlag    levelSource = "--log-level"
	sourceEnv     levelSource = logLevelEnvKey
	sourceConfig  levelSource = "log_level"
	sourceDefault levelSource = "default"
)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

type logSettings struct {
	level  slog.Level
	source levelSource
	raw    string
}

// resolveLogLevel takes the first non-blank of flag, env and config. A later
// source is never consulted once an earlier one is set, even if it is invalid.
func resolveLogLevel(flagLevel, envLevel, configLevel string) (logSettings, error) {
	candidates := []logSettings{
		{source: sourceFlag, raw: flagLevel},
		{source: sourceEnv, raw: envLevel},
		{source: sourceConfig, raw: configLevel},
	}
	for _, c := range candidates {
		if strings.TrimSpace(c.raw) == "" {
			continue
		}
		level, err := parseLogLevel(c.raw)
		c.level = level
		return c, err
	}
	return logSettings{level: slog.LevelInfo, source: sourceDefault}, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if level, ok := levelNames[value]; ok {
		return level, nil
	}
	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
}

// setupLogging installs the default logger for one command run, writing text
// records to w. An invalid flag is an error; an invalid env or config level
// falls back to info and returns a warning line for the user.
func setupLogging(w io.Writer, flagLevel, configLevel string) (string, error) {
	settings, err := resolveLogLevel(flagLevel, os.Getenv(logLevelEnvKey), configLevel)
	var warning string
	if err != nil {
		if settings.source == sourceFlag {
			return "", fmt.Errorf("invalid --log-level %q", flagLevel)
		}
		warning = fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", settings.source, settings.raw, config.DefaultLogLevel)
		settings.level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: settings.level})))
	return warning, nil
}

// componentLogger scopes the current default logger to one store.
func componentLogger(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const consoleTimeFormat = "2006-01-02T15:04:05Z07:00"

// New builds a logger from the log.level and log.format config keys.
// Console output goes to stderr so command output on stdout stays clean.
func New(cfg *viper.Viper) zerolog.Logger {
	level := parseLevel(cfg.GetString("log.level"))

	var out io.Writer = os.Stderr
	if !strings.EqualFold(cfg.GetString("log.format"), "json") {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func parseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

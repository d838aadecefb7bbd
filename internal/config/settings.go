package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Output formats understood by the CLI renderers.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Settings holds the CLI's runtime configuration.
type Settings struct {
	// ModelPath points at a YAML/JSON model file. Empty means built-in.
	ModelPath string

	// Format selects the output renderer: "table" or "json".
	Format string

	// Workers bounds batch parallelism. Default: GOMAXPROCS.
	Workers int

	// Top limits how many ranked classes are printed per patient. 0 = all.
	Top int

	// LogLevel is one of debug, info, warn, error. Default: warn.
	LogLevel string
}

// DefaultSettings returns Settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		Format:   FormatTable,
		Workers:  runtime.GOMAXPROCS(0),
		Top:      5,
		LogLevel: "warn",
	}
}

// SettingsFromEnv builds Settings from environment variables, falling back
// to defaults for unset values.
func SettingsFromEnv() Settings {
	s := DefaultSettings()

	if p := os.Getenv("ONCOMARK_MODEL"); p != "" {
		s.ModelPath = p
	}
	if f := os.Getenv("ONCOMARK_FORMAT"); f != "" {
		s.Format = strings.ToLower(f)
	}
	if w := os.Getenv("ONCOMARK_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			s.Workers = n
		}
	}
	if n := os.Getenv("ONCOMARK_TOP"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			s.Top = v
		}
	}
	if l := os.Getenv("ONCOMARK_LOG_LEVEL"); l != "" {
		s.LogLevel = strings.ToLower(l)
	}
	return s
}

// Validate checks option values.
func (s Settings) Validate() error {
	switch s.Format {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", s.Format, FormatTable, FormatJSON)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", s.Workers)
	}
	if s.Top < 0 {
		return fmt.Errorf("top must be >= 0, got %d", s.Top)
	}
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

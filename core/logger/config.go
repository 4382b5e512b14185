package logger

import (
	"log/slog"
	"strings"
)

// Config holds environment-driven logger settings.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"text"`
	Service string `env:"LOG_SERVICE"`
}

// NewFromConfig builds a logger from cfg. Additional options override config values.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithLevel(ParseLevel(cfg.Level))}

	if strings.EqualFold(cfg.Format, "json") {
		base = append(base, WithJSONFormatter())
	}
	if cfg.Service != "" {
		base = append(base, WithAttr(slog.String("service", cfg.Service)))
	}

	return New(append(base, opts...)...)
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case, with optional
// offsets such as "warn+2") to a slog.Level. Anything else yields LevelInfo.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

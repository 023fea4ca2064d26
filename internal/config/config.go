// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the settings shared by every command.
type Config struct {
	DBPath     string `env:"TOURPLANNER_DB" envDefault:"tourplanner.db"`
	Locale     string `env:"TOURPLANNER_LOCALE" envDefault:"en-US"`
	LogLevel   string `env:"TOURPLANNER_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"TOURPLANNER_LOG_FORMAT" envDefault:"text"`
	AtomicSync bool   `env:"TOURPLANNER_ATOMIC_SYNC" envDefault:"false"`
}

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given dotenv files, skipping missing ones, and then parses
// Config from the environment. Variables already set in the environment win
// over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	for _, path := range dotenvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: TOURPLANNER_DB must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("config: invalid log format %q: must be %s or %s", c.LogFormat, LogFormatText, LogFormatJSON)
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error", case-insensitive).
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

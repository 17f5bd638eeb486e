// Package config reads tada's settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Backends of the development resource server.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds every setting. Command-line flags override these after Load.
type Config struct {
	BaseURL    string `env:"TADA_URL"         envDefault:"http://localhost:3000/todos"`
	WebAddr    string `env:"TADA_WEB_ADDR"    envDefault:"127.0.0.1:8080"`
	ServerAddr string `env:"TADA_SERVER_ADDR" envDefault:"127.0.0.1:3000"`
	Backend    string `env:"TADA_BACKEND"     envDefault:"json"`
	DataPath   string `env:"TADA_DATA"`
	Theme      string `env:"TADA_THEME"       envDefault:"classic"`
	LogLevel   string `env:"TADA_LOG_LEVEL"   envDefault:"info"`
	LogFile    string `env:"TADA_LOG_FILE"`
	// DatastarFile is a local datastar bundle for the web page.
	DatastarFile string `env:"TADA_DATASTAR_FILE"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings and fills derived defaults.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown backend %q (want json or sqlite)", c.Backend)
	}
	if c.DataPath == "" {
		c.DataPath = c.DefaultDataPath()
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid TADA_URL %q", c.BaseURL)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	return nil
}

// DefaultDataPath is the data file used when TADA_DATA is unset.
func (c Config) DefaultDataPath() string {
	if c.Backend == BackendSQLite {
		return "todos.db"
	}
	return "todos.json"
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", name)
	}
	return lvl, nil
}

// NewLogger builds a text logger writing to w. Unknown levels fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

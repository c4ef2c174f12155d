// Package config loads mindmate settings from an optional YAML file and
// MINDMATE_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the top-level configuration
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// Server controls the HTTP listener
type Server struct {
	Addr            string        `yaml:"addr"`
	MaxConns        int           `yaml:"max_conns"` // 0 = unlimited
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Storage selects the entry store
type Storage struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Logging controls the zap logger
type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8000",
			MaxConns:        256,
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: Storage{
			Driver: DriverJSON,
			Path:   "mood_logs.json",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty or the file does not exist), then the environment.
// The result is not validated so callers can apply flag overrides first
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MINDMATE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("MINDMATE_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MINDMATE_MAX_CONNS: %w", err)
		}
		c.Server.MaxConns = n
	}
	if v := os.Getenv("MINDMATE_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("MINDMATE_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("MINDMATE_DATA_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("MINDMATE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MINDMATE_LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: MINDMATE_LOG_DEVELOPMENT: %w", err)
		}
		c.Logging.Development = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every problem found, joined together
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr must not be empty"))
	}
	if c.Server.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("server.max_conns must be >= 0 (0 = unlimited)"))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server timeouts must be >= 0"))
	}
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverJSON, DriverSQLite, c.Storage.Driver))
	}
	if c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("storage.path must not be empty"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error"))
	}

	return errors.Join(errs...)
}

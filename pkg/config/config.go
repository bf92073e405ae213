// Package config loads worker configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-router/pkg/transport"
)

// StoreConfig selects and configures the distance store backend.
type StoreConfig struct {
	// Backend is "file" or "postgres".
	Backend string `yaml:"backend"`
	// DataDir holds the per-map JSON files for the file backend.
	DataDir string `yaml:"data_dir"`
	// Compress snappy-encodes file payloads.
	Compress bool `yaml:"compress"`
	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// TSPConfig tunes the tour solver.
type TSPConfig struct {
	// Seed pins the multi-start point selection; zero keeps the fixed
	// default seed.
	Seed int64 `yaml:"seed"`
	// MaxStarts bounds nearest-neighbor restarts; zero means the default.
	MaxStarts int `yaml:"max_starts"`
}

// Config is the full worker configuration.
type Config struct {
	LogLevel  string                `yaml:"log_level"`
	AdminAddr string                `yaml:"admin_addr"`
	Workers   int                   `yaml:"workers"`
	Queues    transport.QueueConfig `yaml:"queues"`
	Store     StoreConfig           `yaml:"store"`
	TSP       TSPConfig             `yaml:"tsp"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() Config {
	return Config{
		LogLevel:  "info",
		AdminAddr: ":8001",
		Queues:    transport.DefaultQueueConfig(),
		Store: StoreConfig{
			Backend: "file",
			DataDir: "./data",
		},
	}
}

// Load reads path when non-empty, layering it over the defaults, then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("LOG_LEVEL", &c.LogLevel)
	setString("ADMIN_ADDR", &c.AdminAddr)
	setString("MAP_REQUEST_ADDR", &c.Queues.MapRequestAddr)
	setString("MAP_RESPONSE_ADDR", &c.Queues.MapResponseAddr)
	setString("TOUR_REQUEST_ADDR", &c.Queues.TourRequestAddr)
	setString("TOUR_RESPONSE_ADDR", &c.Queues.TourResponseAddr)
	setString("STORE_BACKEND", &c.Store.Backend)
	setString("STORE_DATA_DIR", &c.Store.DataDir)
	setString("STORE_POSTGRES_DSN", &c.Store.PostgresDSN)

	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("TSP_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.TSP.Seed = n
		}
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file":
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the file backend")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}

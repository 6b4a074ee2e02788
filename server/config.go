package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by Config.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// StoreConfig selects where credentials and session tokens live. The two
// concerns are independent, so a Postgres account table can coexist with
// Redis-held sessions.
type StoreConfig struct {
	Credentials string `yaml:"credentials"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Sessions    string `yaml:"sessions"`
	RedisAddr   string `yaml:"redis_addr"`
}

// Config is the full server configuration, normally loaded from a YAML file.
type Config struct {
	Listen   string      `yaml:"listen"`
	Ranked   bool        `yaml:"ranked"`
	Secret   string      `yaml:"secret"`
	LogLevel string      `yaml:"log_level"`
	Stores   StoreConfig `yaml:"stores"`
}

// DefaultConfig runs everything in process: in-memory stores, FIFO
// matchmaking, a random signing secret.
func DefaultConfig() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
		Stores: StoreConfig{
			Credentials: BackendMemory,
			Sessions:    BackendMemory,
		},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and backends missing their connection
// details.
func (c Config) Validate() error {
	switch c.Stores.Credentials {
	case BackendMemory:
	case BackendPostgres:
		if c.Stores.PostgresDSN == "" {
			return fmt.Errorf("stores.postgres_dsn is required with the %s credential backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown credential backend %q", c.Stores.Credentials)
	}
	switch c.Stores.Sessions {
	case BackendMemory:
	case BackendRedis:
		if c.Stores.RedisAddr == "" {
			return fmt.Errorf("stores.redis_addr is required with the %s session backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Stores.Sessions)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

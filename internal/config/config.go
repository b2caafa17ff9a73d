// Package config loads application configuration from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Chain   ChainConfig   `toml:"chain"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MetricsAddr string `toml:"metrics_addr"`
}

// StorageConfig selects the persistence backend for the ledger blobs.
type StorageConfig struct {
	// Backend is one of "memory", "file", "postgres".
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickhouseDSN string `toml:"clickhouse_dsn"`
}

// ChainConfig holds bond gateway settings. The gateway is optional;
// when disabled the ledger settles trades without chain calls.
type ChainConfig struct {
	Enabled     bool   `toml:"enabled"`
	RPCEndpoint string `toml:"rpc_endpoint"`
	WSEndpoint  string `toml:"ws_endpoint"`
}

// LoggingConfig holds zap logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	Debug bool   `toml:"debug"`
}

// Default returns a configuration with sensible defaults for local runs.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MetricsAddr: ":9090",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "data",
		},
		Chain: ChainConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given TOML file, applied on top of
// defaults, then applies ASSETRA_* environment overrides. An empty path
// skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides configuration values from environment variables.
func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "ASSETRA_ADDR")
	setString(&c.Server.MetricsAddr, "ASSETRA_METRICS_ADDR")
	setString(&c.Storage.Backend, "ASSETRA_STORAGE_BACKEND")
	setString(&c.Storage.Path, "ASSETRA_STORAGE_PATH")
	setString(&c.Storage.PostgresDSN, "ASSETRA_POSTGRES_DSN")
	setString(&c.Storage.ClickhouseDSN, "ASSETRA_CLICKHOUSE_DSN")
	setBool(&c.Chain.Enabled, "ASSETRA_CHAIN_ENABLED")
	setString(&c.Chain.RPCEndpoint, "ASSETRA_CHAIN_RPC_ENDPOINT")
	setString(&c.Chain.WSEndpoint, "ASSETRA_CHAIN_WS_ENDPOINT")
	setString(&c.Logging.Level, "ASSETRA_LOG_LEVEL")
	setBool(&c.Logging.Debug, "ASSETRA_LOG_DEBUG")
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file backend")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Chain.Enabled && c.Chain.RPCEndpoint == "" {
		return fmt.Errorf("chain.rpc_endpoint is required when the chain gateway is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

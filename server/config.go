package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Config is the diagramd configuration file.
type Config struct {
	Listen string      `yaml:"listen" toml:"listen"`
	Store  StoreConfig `yaml:"store" toml:"store"`
	Log    LogConfig   `yaml:"log" toml:"log"`
}

// StoreConfig selects the storage backend.
type StoreConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// LogConfig sets the default log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FindConfigPath returns the first existing config file, or "".
// Search order: $DIAGRAMD_CONFIG, ./diagramd.yaml, ./diagramd.toml,
// ~/.config/diagramd/config.yaml.
func FindConfigPath() string {
	if p := os.Getenv("DIAGRAMD_CONFIG"); p != "" {
		return p
	}
	candidates := []string{"diagramd.yaml", "diagramd.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "diagramd", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadConfig loads path, or the discovered config file when path is empty.
// DATABASE_URL, when set, selects the postgres driver with that DSN.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = FindConfigPath()
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Store.Driver = driverPostgres
		cfg.Store.DSN = dsn
	}
	cfg.applyDefaults()

	if cfg.Store.Driver != driverSQLite && cfg.Store.Driver != driverPostgres {
		return nil, fmt.Errorf("config: unknown store driver %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":3000"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = driverSQLite
	}
	if c.Store.Driver == driverSQLite && c.Store.DSN == "" {
		c.Store.DSN = "./diagramd.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

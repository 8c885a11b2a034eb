// Package config loads the tracker's TOML configuration.
package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Addr          string `toml:"addr"`
	DBPath        string `toml:"db_path"`
	LogLevel      string `toml:"log_level"`
	PairTimeoutMS int    `toml:"pair_timeout_ms"`

	MDNS MDNSConfig `toml:"mdns"`
}

type MDNSConfig struct {
	Enabled  bool   `toml:"enabled"`
	Instance string `toml:"instance"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{}.withDefaults()
}

// Load reads and validates a TOML config file. Missing fields fall back
// to defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	out := c
	if out.Addr == "" {
		out.Addr = ":8080"
	}
	if out.DBPath == "" {
		out.DBPath = "tracker.sqlite3"
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.PairTimeoutMS == 0 {
		out.PairTimeoutMS = 1500
	}
	if out.MDNS.Instance == "" {
		out.MDNS.Instance = "filematch"
	}
	return out
}

func (c Config) Validate() error {
	if c.PairTimeoutMS < 0 {
		return fmt.Errorf("pair_timeout_ms must not be negative, got %d", c.PairTimeoutMS)
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("addr %q is not host:port: %w", c.Addr, err)
	}
	return nil
}

// Port extracts the listen port, for the mDNS advertisement.
func (c Config) Port() (int, error) {
	_, portStr, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("addr %q has a non-numeric port: %w", c.Addr, err)
	}
	return port, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Config is the server configuration.
type Config struct {
	Obsidian struct {
		URL    string `json:"url"`
		Cert   string `json:"cert"`
		APIKey string `json:"apikey"`
	} `json:"obsidian"`
	Cache struct {
		Enabled         bool   `json:"enabled"`
		RefreshInterval string `json:"refresh_interval"`
		StaleAfter      string `json:"stale_after"`

		refreshInterval time.Duration
		staleAfter      time.Duration
	} `json:"cache"`
	MCP struct {
		Tools map[string]bool `json:"tools"`
	} `json:"mcp"`
}

const (
	defaultRefreshInterval = 5 * time.Minute
	defaultStaleAfter      = 10 * time.Minute
)

// RefreshInterval returns the parsed cache refresh interval.
func (c *Config) RefreshInterval() time.Duration { return c.Cache.refreshInterval }

// StaleAfter returns the parsed snapshot staleness threshold.
func (c *Config) StaleAfter() time.Duration { return c.Cache.staleAfter }

// Load loads the configuration from a JSON file. If path is empty, it
// searches for "obsidianmcp/config.json" in the XDG config directories.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = xdg.SearchConfigFile("obsidianmcp/config.json")
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	// Certificate paths are resolved relative to the config file.
	if cfg.Obsidian.Cert != "" && !filepath.IsAbs(cfg.Obsidian.Cert) {
		abs, err := filepath.Abs(filepath.Join(filepath.Dir(path), cfg.Obsidian.Cert))
		if err != nil {
			return nil, err
		}
		cfg.Obsidian.Cert = abs
	}

	if cfg.Cache.refreshInterval, err = parseDuration(cfg.Cache.RefreshInterval, defaultRefreshInterval); err != nil {
		return nil, fmt.Errorf("cache.refresh_interval: %w", err)
	}
	if cfg.Cache.staleAfter, err = parseDuration(cfg.Cache.StaleAfter, defaultStaleAfter); err != nil {
		return nil, fmt.Errorf("cache.stale_after: %w", err)
	}

	return &cfg, nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}

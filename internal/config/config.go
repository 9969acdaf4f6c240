package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all userdir configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Search  SearchConfig  `yaml:"search"`
	UI      UIConfig      `yaml:"ui"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Fixture FixtureConfig `yaml:"fixture"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote user directory.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	SearchPath string `yaml:"search_path"`
	Limit      int    `yaml:"limit"`
	Timeout    string `yaml:"timeout"` // "0s" disables the per-request timeout
}

// SearchConfig configures the search box and table paging.
type SearchConfig struct {
	Debounce string `yaml:"debounce"`
	PageSize int    `yaml:"page_size"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	DarkMode        *bool `yaml:"dark_mode,omitempty"` // nil = detect
	HighlightOldest bool  `yaml:"highlight_oldest"`
}

// CacheConfig configures the optional response cache.
type CacheConfig struct {
	Driver        string `yaml:"driver"` // none, memory, redis
	TTL           string `yaml:"ttl"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// MetricsConfig configures the Prometheus endpoint served next to the TUI.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// FixtureConfig configures the local fixture API server.
type FixtureConfig struct {
	Addr     string `yaml:"addr"`
	DataFile string `yaml:"data_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://dummyjson.com",
			SearchPath: "/users/search",
			Limit:      1000,
			Timeout:    "0s",
		},
		Search: SearchConfig{
			Debounce: "1000ms",
			PageSize: 10,
		},
		Cache: CacheConfig{
			Driver: "none",
			TTL:    "1m",
		},
		Fixture: FixtureConfig{
			Addr: ":8090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "userdir.log",
		},
	}
}

// DefaultConfigPath returns <workspace>/.userdir/config.yaml.
func DefaultConfigPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".userdir", "config.yaml")
	}
	return filepath.Join(root, ".userdir", "config.yaml")
}

// FindWorkspaceRoot walks up from the working directory looking for a
// .userdir directory, then a go.mod. Falls back to the working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".userdir")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("USERDIR_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if addr := os.Getenv("USERDIR_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
		if c.Cache.Driver == "" || c.Cache.Driver == "none" {
			c.Cache.Driver = "redis"
		}
	}
	if lvl := os.Getenv("USERDIR_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if v := os.Getenv("USERDIR_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
		}
	}
}

// GetDebounce returns the search debounce delay.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil || d < 0 {
		return time.Second
	}
	return d
}

// GetTimeout returns the per-request API timeout. Zero means none.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetCacheTTL returns the response cache TTL.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// GetPageSize returns the table page size.
func (c *Config) GetPageSize() int {
	if c.Search.PageSize <= 0 {
		return 10
	}
	return c.Search.PageSize
}

// GetLimit returns the per-request result limit.
func (c *Config) GetLimit() int {
	if c.API.Limit <= 0 {
		return 1000
	}
	return c.API.Limit
}

// ValidCacheDrivers lists the supported cache drivers.
var ValidCacheDrivers = []string{"none", "memory", "redis"}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api base_url: %q", c.API.BaseURL)
	}
	if c.API.SearchPath != "" && !strings.HasPrefix(c.API.SearchPath, "/") {
		return fmt.Errorf("api search_path must start with '/': %q", c.API.SearchPath)
	}

	for name, v := range map[string]string{
		"api.timeout":     c.API.Timeout,
		"search.debounce": c.Search.Debounce,
		"cache.ttl":       c.Cache.TTL,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.Cache.Driver != "" && !contains(ValidCacheDrivers, c.Cache.Driver) {
		return fmt.Errorf("invalid cache driver: %s (valid: %v)", c.Cache.Driver, ValidCacheDrivers)
	}
	if c.Cache.Driver == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache driver redis requires redis_addr")
	}

	if c.Logging.Level != "" && !contains(ValidLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

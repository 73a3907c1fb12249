package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the journeys configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Share   ShareConfig   `yaml:"share"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig holds remote catalog settings.
type CatalogConfig struct {
	BaseURL          string  `yaml:"base_url"`           // Jikan API root
	PageSize         int     `yaml:"page_size"`          // Items per result page (1-25)
	RequestTimeoutMs int     `yaml:"request_timeout_ms"` // Per-request timeout (0 = none)
	RateLimitRPS     float64 `yaml:"rate_limit_rps"`     // Client-side request rate (0 = unlimited)
	RateLimitBurst   int     `yaml:"rate_limit_burst"`   // Requests allowed in a burst
	CacheTTLMins     int     `yaml:"cache_ttl_mins"`     // Detail cache lifetime (0 = disabled)
}

// SearchConfig holds search orchestration settings.
type SearchConfig struct {
	DebounceMs int `yaml:"debounce_ms"` // Quiet period before a typed query is committed
}

// ShareConfig holds settings for the shareable search URL.
type ShareConfig struct {
	BaseURL string `yaml:"base_url"` // Address the search parameter is attached to
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // SQLite path (overrides default)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

const (
	maxPageSize     = 25
	defaultPageSize = 20
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:          "https://api.jikan.moe/v4",
			PageSize:         defaultPageSize,
			RequestTimeoutMs: 0,
			RateLimitRPS:     3,
			RateLimitBurst:   1,
			CacheTTLMins:     60,
		},
		Search: SearchConfig{
			DebounceMs: 250,
		},
		Share: ShareConfig{
			BaseURL: "https://jikan-journeys.app/search",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Debounce returns the configured debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout, zero meaning none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Catalog.RequestTimeoutMs) * time.Millisecond
}

// CacheTTL returns the detail cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheTTLMins) * time.Minute
}

// DBPath returns the configured database path or the default under paths.
func (c *Config) DBPath(paths *Paths) string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	return paths.DatabaseFile()
}

// LogPath returns the configured log file or the default under paths.
func (c *Config) LogPath(paths *Paths) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return paths.LogFile()
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "catalog.page_size" or "search.debounce_ms"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "catalog":
		return c.getCatalogField(field)
	case "search":
		if field == "debounce_ms" {
			return strconv.Itoa(c.Search.DebounceMs), nil
		}
	case "share":
		if field == "base_url" {
			return c.Share.BaseURL, nil
		}
	case "storage":
		if field == "db_path" {
			return c.Storage.DBPath, nil
		}
	case "log":
		switch field {
		case "level":
			return c.Log.Level, nil
		case "file":
			return c.Log.File, nil
		}
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
	return "", fmt.Errorf("unknown field: %s", key)
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "catalog":
		return c.setCatalogField(field, value)
	case "search":
		if field == "debounce_ms" {
			v, err := parseNonNegative(field, value)
			if err != nil {
				return err
			}
			c.Search.DebounceMs = v
			return nil
		}
	case "share":
		if field == "base_url" {
			if err := validateURL(value); err != nil {
				return fmt.Errorf("invalid share.base_url: %w", err)
			}
			c.Share.BaseURL = value
			return nil
		}
	case "storage":
		if field == "db_path" {
			c.Storage.DBPath = value
			return nil
		}
	case "log":
		switch field {
		case "level":
			if !isValidLogLevel(value) {
				return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, or error)", value)
			}
			c.Log.Level = value
			return nil
		case "file":
			c.Log.File = value
			return nil
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return fmt.Errorf("unknown field: %s", key)
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getCatalogField(field string) (string, error) {
	switch field {
	case "base_url":
		return c.Catalog.BaseURL, nil
	case "page_size":
		return strconv.Itoa(c.Catalog.PageSize), nil
	case "request_timeout_ms":
		return strconv.Itoa(c.Catalog.RequestTimeoutMs), nil
	case "rate_limit_rps":
		return strconv.FormatFloat(c.Catalog.RateLimitRPS, 'f', -1, 64), nil
	case "rate_limit_burst":
		return strconv.Itoa(c.Catalog.RateLimitBurst), nil
	case "cache_ttl_mins":
		return strconv.Itoa(c.Catalog.CacheTTLMins), nil
	default:
		return "", fmt.Errorf("unknown field: catalog.%s", field)
	}
}

func (c *Config) setCatalogField(field, value string) error {
	switch field {
	case "base_url":
		if err := validateURL(value); err != nil {
			return fmt.Errorf("invalid catalog.base_url: %w", err)
		}
		c.Catalog.BaseURL = value
	case "page_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for page_size: %w", err)
		}
		if v < 1 || v > maxPageSize {
			return fmt.Errorf("invalid page_size: must be between 1 and %d", maxPageSize)
		}
		c.Catalog.PageSize = v
	case "request_timeout_ms":
		v, err := parseNonNegative(field, value)
		if err != nil {
			return err
		}
		c.Catalog.RequestTimeoutMs = v
	case "rate_limit_rps":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for rate_limit_rps: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid rate_limit_rps: must be non-negative")
		}
		c.Catalog.RateLimitRPS = v
	case "rate_limit_burst":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for rate_limit_burst: %w", err)
		}
		if v < 1 {
			return fmt.Errorf("invalid rate_limit_burst: must be at least 1")
		}
		c.Catalog.RateLimitBurst = v
	case "cache_ttl_mins":
		v, err := parseNonNegative(field, value)
		if err != nil {
			return err
		}
		c.Catalog.CacheTTLMins = v
	default:
		return fmt.Errorf("unknown field: catalog.%s", field)
	}
	return nil
}

func parseNonNegative(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: must be non-negative", field)
	}
	return v, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got: %q)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// Validate validates the configuration. Out-of-range page sizes are clamped
// rather than rejected.
func (c *Config) Validate() error {
	if err := validateURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}

	if c.Catalog.PageSize < 1 {
		c.Catalog.PageSize = defaultPageSize
	}
	if c.Catalog.PageSize > maxPageSize {
		c.Catalog.PageSize = maxPageSize
	}

	if c.Catalog.RequestTimeoutMs < 0 {
		return errors.New("catalog.request_timeout_ms must be >= 0")
	}

	if c.Catalog.RateLimitRPS < 0 {
		return errors.New("catalog.rate_limit_rps must be >= 0")
	}

	if c.Catalog.RateLimitBurst < 1 {
		c.Catalog.RateLimitBurst = 1
	}

	if c.Catalog.CacheTTLMins < 0 {
		return errors.New("catalog.cache_ttl_mins must be >= 0")
	}

	if c.Search.DebounceMs < 0 {
		return errors.New("search.debounce_ms must be >= 0")
	}

	if err := validateURL(c.Share.BaseURL); err != nil {
		return fmt.Errorf("share.base_url: %w", err)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("JOURNEYS_API_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("JOURNEYS_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("JOURNEYS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("JOURNEYS_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"catalog.base_url",
		"catalog.page_size",
		"catalog.request_timeout_ms",
		"catalog.rate_limit_rps",
		"catalog.rate_limit_burst",
		"catalog.cache_ttl_mins",
		"search.debounce_ms",
		"share.base_url",
		"storage.db_path",
		"log.level",
		"log.file",
	}
}

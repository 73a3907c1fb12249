package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Catalog.BaseURL != "https://api.jikan.moe/v4" {
		t.Errorf("Expected Jikan base URL, got %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("Expected page_size=20, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.RequestTimeoutMs != 0 {
		t.Errorf("Expected request_timeout_ms=0, got %d", cfg.Catalog.RequestTimeoutMs)
	}
	if cfg.Search.DebounceMs != 250 {
		t.Errorf("Expected debounce_ms=250, got %d", cfg.Search.DebounceMs)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("Expected Debounce()=250ms, got %v", cfg.Debounce())
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("Expected CacheTTL()=1h, got %v", cfg.CacheTTL())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected log.level=info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key      string
		expected string
	}{
		{"catalog.base_url", "https://api.jikan.moe/v4"},
		{"catalog.page_size", "20"},
		{"catalog.request_timeout_ms", "0"},
		{"catalog.rate_limit_rps", "3"},
		{"catalog.rate_limit_burst", "1"},
		{"catalog.cache_ttl_mins", "60"},
		{"search.debounce_ms", "250"},
		{"share.base_url", "https://jikan-journeys.app/search"},
		{"storage.db_path", ""},
		{"log.level", "info"},
		{"log.file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestListKeys_AllReadable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range ListKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("ListKeys contains unreadable key %q: %v", key, err)
		}
	}
}

func TestConfigGet_Errors(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key     string
		wantErr string
	}{
		{"nodot", "section.key"},
		{"a.b.c", "section.key"},
		{"unknown.field", "unknown section"},
		{"catalog.nope", "unknown field"},
		{"search.nope", "unknown field"},
	}

	for _, tt := range tests {
		_, err := cfg.Get(tt.key)
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("Get(%q) error = %v, want containing %q", tt.key, err, tt.wantErr)
		}
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()

	sets := map[string]string{
		"catalog.base_url":           "http://localhost:8080/v4",
		"catalog.page_size":          "25",
		"catalog.request_timeout_ms": "5000",
		"catalog.rate_limit_rps":     "1.5",
		"catalog.rate_limit_burst":   "2",
		"catalog.cache_ttl_mins":     "0",
		"search.debounce_ms":         "400",
		"share.base_url":             "https://example.com/find",
		"storage.db_path":            "/tmp/j.db",
		"log.level":                  "debug",
		"log.file":                   "/tmp/j.log",
	}

	for key, value := range sets {
		if err := cfg.Set(key, value); err != nil {
			t.Fatalf("Set(%q, %q) error: %v", key, value, err)
		}
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", key, err)
		}
		if got != value {
			t.Errorf("Get(%q) = %q after Set, want %q", key, got, value)
		}
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key   string
		value string
	}{
		{"catalog.page_size", "0"},
		{"catalog.page_size", "26"},
		{"catalog.page_size", "abc"},
		{"catalog.base_url", "ftp://example.com"},
		{"catalog.base_url", "not a url"},
		{"catalog.rate_limit_rps", "-1"},
		{"catalog.rate_limit_burst", "0"},
		{"search.debounce_ms", "-5"},
		{"log.level", "verbose"},
		{"share.base_url", "/relative"},
	}

	for _, tt := range tests {
		if err := cfg.Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
		}
	}
}

func TestValidate_ClampsPageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.PageSize = 100
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Catalog.PageSize != 25 {
		t.Errorf("Expected page_size clamped to 25, got %d", cfg.Catalog.PageSize)
	}

	cfg.Catalog.PageSize = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("Expected page_size reset to 20, got %d", cfg.Catalog.PageSize)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"negative debounce", func(c *Config) { c.Search.DebounceMs = -1 }},
		{"negative timeout", func(c *Config) { c.Catalog.RequestTimeoutMs = -1 }},
		{"empty base url", func(c *Config) { c.Catalog.BaseURL = "" }},
		{"negative cache ttl", func(c *Config) { c.Catalog.CacheTTLMins = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("Expected defaults, got page_size=%d", cfg.Catalog.PageSize)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Catalog.PageSize = 10
	cfg.Search.DebounceMs = 300
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if loaded.Catalog.PageSize != 10 {
		t.Errorf("Expected page_size=10, got %d", loaded.Catalog.PageSize)
	}
	if loaded.Search.DebounceMs != 300 {
		t.Errorf("Expected debounce_ms=300, got %d", loaded.Search.DebounceMs)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  debounce_ms: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Search.DebounceMs != 100 {
		t.Errorf("Expected debounce_ms=100, got %d", cfg.Search.DebounceMs)
	}
	if cfg.Catalog.BaseURL != "https://api.jikan.moe/v4" {
		t.Errorf("Expected default base URL, got %s", cfg.Catalog.BaseURL)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("catalog: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("JOURNEYS_API_URL", "http://127.0.0.1:9999/v4")
	t.Setenv("JOURNEYS_DB_PATH", "/tmp/override.db")
	t.Setenv("JOURNEYS_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Catalog.BaseURL != "http://127.0.0.1:9999/v4" {
		t.Errorf("JOURNEYS_API_URL not applied: %s", cfg.Catalog.BaseURL)
	}
	if cfg.Storage.DBPath != "/tmp/override.db" {
		t.Errorf("JOURNEYS_DB_PATH not applied: %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("JOURNEYS_LOG_LEVEL not applied: %s", cfg.Log.Level)
	}
}

func TestApplyEnvOverrides_Debug(t *testing.T) {
	t.Setenv("JOURNEYS_DEBUG", "1")
	t.Setenv("JOURNEYS_LOG_LEVEL", "")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Log.Level)
	}
}

func TestApplyEnvOverrides_InvalidLevelIgnored(t *testing.T) {
	t.Setenv("JOURNEYS_LOG_LEVEL", "loud")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()
	if cfg.Log.Level != "info" {
		t.Errorf("Expected info level, got %s", cfg.Log.Level)
	}
}

func TestDBPathAndLogPath(t *testing.T) {
	paths := &Paths{DataDir: "/data"}
	cfg := DefaultConfig()

	if got := cfg.DBPath(paths); got != filepath.Join("/data", "state.db") {
		t.Errorf("DBPath() = %s", got)
	}
	if got := cfg.LogPath(paths); got != filepath.Join("/data", "logs", "journeys.log") {
		t.Errorf("LogPath() = %s", got)
	}

	cfg.Storage.DBPath = "/elsewhere.db"
	if got := cfg.DBPath(paths); got != "/elsewhere.db" {
		t.Errorf("DBPath() override = %s", got)
	}
}

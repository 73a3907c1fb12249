package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/b1ack-panther/jikan-journeys/internal/config"
)

func TestConfigCmd_ListShowsEveryKey(t *testing.T) {
	setupTestEnv(t)

	output := captureStdout(t, func() {
		if err := runConfig(configCmd, nil); err != nil {
			t.Fatalf("runConfig error: %v", err)
		}
	})

	for _, key := range config.ListKeys() {
		if !strings.Contains(output, key) {
			t.Errorf("expected key %q in output", key)
		}
	}
	if !regexp.MustCompile(`(?m)^storage\.db_path +\(not set\)$`).MatchString(output) {
		t.Errorf("expected unset db path to be marked, got %q", output)
	}
}

func TestConfigCmd_SetThenGet(t *testing.T) {
	setupTestEnv(t)

	output := captureStdout(t, func() {
		if err := runConfig(configCmd, []string{"search.debounce_ms", "400"}); err != nil {
			t.Fatalf("set error: %v", err)
		}
	})
	if !strings.Contains(output, "search.debounce_ms = 400") {
		t.Errorf("unexpected set output %q", output)
	}

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "journeys", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "debounce_ms: 400") {
		t.Errorf("config file missing new value:\n%s", data)
	}

	output = captureStdout(t, func() {
		if err := runConfig(configCmd, []string{"search.debounce_ms"}); err != nil {
			t.Fatalf("get error: %v", err)
		}
	})
	if strings.TrimSpace(output) != "400" {
		t.Errorf("get = %q, want 400", output)
	}
}

func TestConfigCmd_SetRejectsInvalid(t *testing.T) {
	setupTestEnv(t)

	tests := [][]string{
		{"catalog.base_url", "ftp://example.com"},
		{"log.level", "loud"},
		{"nosuch.key", "1"},
	}
	for _, args := range tests {
		if err := runConfig(configCmd, args); err == nil {
			t.Errorf("runConfig(%v) should fail", args)
		}
	}
}

// Package config provides configuration management for journeys.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "journeys"

// Paths locates everything journeys keeps on disk.
//
//	ConfigDir  config.yaml
//	DataDir    state.db, logs/
//	CacheDir   the single-window UI lock
type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
}

// DefaultPaths resolves the XDG base directories, or the %APPDATA% and
// %LOCALAPPDATA% pair on Windows.
func DefaultPaths() *Paths {
	if runtime.GOOS == "windows" {
		roaming := baseDir("APPDATA", "AppData", "Roaming")
		local := baseDir("LOCALAPPDATA", "AppData", "Local")
		return &Paths{
			ConfigDir: filepath.Join(roaming, appName),
			DataDir:   filepath.Join(local, appName),
			CacheDir:  filepath.Join(local, appName, "cache"),
		}
	}
	return &Paths{
		ConfigDir: filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName),
		DataDir:   filepath.Join(baseDir("XDG_DATA_HOME", ".local", "share"), appName),
		CacheDir:  filepath.Join(baseDir("XDG_CACHE_HOME", ".cache"), appName),
	}
}

// baseDir returns $env, or the home-relative fallback when it is unset.
func baseDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	return filepath.Join(append([]string{userHome()}, fallback...)...)
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}

func (p *Paths) ConfigFile() string   { return filepath.Join(p.ConfigDir, "config.yaml") }
func (p *Paths) DatabaseFile() string { return filepath.Join(p.DataDir, "state.db") }
func (p *Paths) LogDir() string       { return filepath.Join(p.DataDir, "logs") }
func (p *Paths) LogFile() string      { return filepath.Join(p.LogDir(), appName+".log") }

// LockFile is held with flock by the interactive UI while it runs.
func (p *Paths) LockFile() string { return filepath.Join(p.CacheDir, appName+".lock") }

// EnsureDirectories creates every directory journeys writes into.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range [...]string{p.ConfigDir, p.DataDir, p.CacheDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

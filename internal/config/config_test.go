package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	want := DefaultConfig()
	if cfg.Skills.MaxNameAttempts != want.Skills.MaxNameAttempts {
		t.Errorf("MaxNameAttempts = %d, want %d", cfg.Skills.MaxNameAttempts, want.Skills.MaxNameAttempts)
	}
	if cfg.Skills.PromoteThreshold != want.Skills.PromoteThreshold {
		t.Errorf("PromoteThreshold = %d, want %d", cfg.Skills.PromoteThreshold, want.Skills.PromoteThreshold)
	}
	if !cfg.Hook.AutoDetect {
		t.Error("Hook.AutoDetect = false, want true by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFrom_MergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store:
  path: /custom/store.db
skills:
  promote_threshold: 5
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Store.Path != "/custom/store.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Skills.PromoteThreshold != 5 {
		t.Errorf("PromoteThreshold = %d, want 5", cfg.Skills.PromoteThreshold)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Skills.MaxNameAttempts != 100 {
		t.Errorf("MaxNameAttempts = %d, want default 100", cfg.Skills.MaxNameAttempts)
	}
}

func TestLoadFrom_NormalizesInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
skills:
  max_name_attempts: -1
  promote_threshold: 0
log:
  level: loud
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Skills.MaxNameAttempts != 100 {
		t.Errorf("MaxNameAttempts = %d, want clamped to 100", cfg.Skills.MaxNameAttempts)
	}
	if cfg.Skills.PromoteThreshold != 3 {
		t.Errorf("PromoteThreshold = %d, want clamped to 3", cfg.Skills.PromoteThreshold)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [not: closed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() succeeded on invalid YAML")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.Path = "/custom/store.db"
	cfg.Skills.PromoteThreshold = 7

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Store.Path != cfg.Store.Path {
		t.Errorf("Store.Path = %q, want %q", got.Store.Path, cfg.Store.Path)
	}
	if got.Skills.PromoteThreshold != cfg.Skills.PromoteThreshold {
		t.Errorf("PromoteThreshold = %d, want %d", got.Skills.PromoteThreshold, cfg.Skills.PromoteThreshold)
	}
}

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" || paths.DataDir == "" {
		t.Fatalf("DefaultPaths() = %+v, want non-empty dirs", paths)
	}
	if filepath.Dir(paths.ConfigFile()) != paths.ConfigDir {
		t.Errorf("ConfigFile() = %q, not under ConfigDir", paths.ConfigFile())
	}
	if filepath.Dir(paths.DatabaseFile()) != paths.DataDir {
		t.Errorf("DatabaseFile() = %q, not under DataDir", paths.DatabaseFile())
	}
	if filepath.Dir(paths.SkillsDir()) != paths.DataDir {
		t.Errorf("SkillsDir() = %q, not under DataDir", paths.SkillsDir())
	}
}

func TestDefaultPaths_HonorsXDGOverrides(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG paths only apply to unix-like systems")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	paths := DefaultPaths()

	if want := filepath.Join("/tmp/xdg-config", "skillforge"); paths.ConfigDir != want {
		t.Errorf("ConfigDir = %q, want %q", paths.ConfigDir, want)
	}
	if want := filepath.Join("/tmp/xdg-data", "skillforge"); paths.DataDir != want {
		t.Errorf("DataDir = %q, want %q", paths.DataDir, want)
	}
}

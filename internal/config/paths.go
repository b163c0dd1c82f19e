// Package config provides configuration management for skillforge.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for skillforge.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/skillforge)
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/skillforge)
	DataDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir: filepath.Join(appData, "skillforge"),
			DataDir:   filepath.Join(localAppData, "skillforge"),
		}
	}

	// Unix-like systems follow XDG Base Directory spec
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "skillforge"),
		DataDir:   filepath.Join(dataHome, "skillforge"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite store.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "skillforge.db")
}

// SkillsDir returns the default directory for promoted skill artifacts.
func (p *Paths) SkillsDir() string {
	return filepath.Join(p.DataDir, "skills")
}

// TemplateFile returns the path to the skill template document.
func (p *Paths) TemplateFile() string {
	return filepath.Join(p.ConfigDir, "skill-template.md")
}

// AutoDetectFile returns the path to the auto-detection sentinel.
// Its presence enables the hook's observation path; its absence makes
// the hook a silent no-op.
func (p *Paths) AutoDetectFile() string {
	return filepath.Join(p.DataDir, "autodetect")
}

// homeDir returns the user's home directory with a sane fallback.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory when home is unavailable
		return "."
	}
	return home
}

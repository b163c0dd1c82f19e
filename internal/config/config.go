package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the skillforge configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Skills SkillsConfig `yaml:"skills"`
	Hook   HookConfig   `yaml:"hook"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig holds persistent store settings.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite store path (overrides default)
}

// SkillsConfig holds skill promotion settings.
type SkillsConfig struct {
	Dir              string `yaml:"dir"`               // Skill artifact output directory (overrides default)
	TemplatePath     string `yaml:"template_path"`     // Skill template file (overrides default)
	MaxNameAttempts  int    `yaml:"max_name_attempts"` // Name allocation attempt budget
	PromoteThreshold int    `yaml:"promote_threshold"` // Count at which review surfaces a pattern
}

// HookConfig holds settings for the failure-event hook path.
type HookConfig struct {
	AutoDetect bool `yaml:"auto_detect"` // Default auto-detection state applied by init
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Skills: SkillsConfig{
			MaxNameAttempts:  100,
			PromoteThreshold: 3,
		},
		Hook: HookConfig{
			AutoDetect: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file from the default location and merges
// it over the defaults. A missing config file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultPaths().ConfigFile())
}

// LoadFrom reads the configuration from an explicit path and merges it
// over the defaults. A missing file returns the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to the given path, creating the parent
// directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// normalize clamps out-of-range values back to their defaults.
func (c *Config) normalize() {
	if c.Skills.MaxNameAttempts < 1 {
		c.Skills.MaxNameAttempts = DefaultConfig().Skills.MaxNameAttempts
	}
	if c.Skills.PromoteThreshold < 1 {
		c.Skills.PromoteThreshold = DefaultConfig().Skills.PromoteThreshold
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
}

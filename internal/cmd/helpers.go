package cmd

import (
	"context"

	"github.com/runger/skillforge/internal/config"
	"github.com/runger/skillforge/internal/store"
)

// env resolves configuration and paths once per command invocation.
type env struct {
	cfg   *config.Config
	paths *config.Paths
}

// loadEnv loads the config file (missing file falls back to defaults)
// and the default path layout.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, paths: config.DefaultPaths()}, nil
}

// storePath returns the effective store file path.
func (e *env) storePath() string {
	if e.cfg.Store.Path != "" {
		return e.cfg.Store.Path
	}
	return e.paths.DatabaseFile()
}

// skillsDir returns the effective skill artifact directory.
func (e *env) skillsDir() string {
	if e.cfg.Skills.Dir != "" {
		return e.cfg.Skills.Dir
	}
	return e.paths.SkillsDir()
}

// templatePath returns the effective skill template file path.
func (e *env) templatePath() string {
	if e.cfg.Skills.TemplatePath != "" {
		return e.cfg.Skills.TemplatePath
	}
	return e.paths.TemplateFile()
}

// openStore opens the shared store, requiring it to exist. Commands
// other than init treat a missing store as a precondition failure
// rather than silently creating one.
func (e *env) openStore(ctx context.Context) (*store.DB, error) {
	return store.Open(ctx, store.Options{
		Path:      e.storePath(),
		MustExist: true,
	})
}

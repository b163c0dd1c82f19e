package cmd

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/skill"
	"github.com/runger/skillforge/internal/store"
)

//go:embed shell/zsh/skillforge.zsh
//go:embed shell/bash/skillforge.bash
//go:embed shell/fish/skillforge.fish
var shellScripts embed.FS

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Initialize the store, or output a shell integration script",
	Long: `Without arguments, init creates the skillforge data directory, the
persistent store, the default skill template, and enables failure
auto-detection.

With a shell argument, init prints the shell integration script:

  # For Zsh (~/.zshrc):
  eval "$(skillforge init zsh)"

  # For Bash (~/.bashrc):
  eval "$(skillforge init bash)"

  # For Fish (~/.config/fish/config.fish):
  skillforge init fish | source`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"zsh", "bash", "fish"},
	RunE:      runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return printShellScript(cmd, args[0])
	}
	return setup(cmd)
}

func printShellScript(cmd *cobra.Command, shell string) error {
	var filename string
	switch shell {
	case "zsh":
		filename = "shell/zsh/skillforge.zsh"
	case "bash":
		filename = "shell/bash/skillforge.bash"
	case "fish":
		filename = "shell/fish/skillforge.fish"
	default:
		return fmt.Errorf("unsupported shell: %s (supported: zsh, bash, fish)", shell)
	}

	content, err := shellScripts.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read shell script: %w", err)
	}

	cmd.Print(string(content))
	return nil
}

func setup(cmd *cobra.Command) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	for _, dir := range []string{e.paths.ConfigDir, e.paths.DataDir, e.skillsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := store.Open(ctx, store.Options{Path: e.storePath()})
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	// Write the default template only when none exists so a customized
	// template survives re-running init.
	tmplPath := e.templatePath()
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		if err := os.WriteFile(tmplPath, []byte(skill.DefaultTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write skill template: %w", err)
		}
	}

	if e.cfg.Hook.AutoDetect {
		if err := enableAutoDetect(e); err != nil {
			return err
		}
	}

	cmd.Printf("initialized store at %s\n", e.storePath())
	cmd.Printf("skills directory: %s\n", e.skillsDir())
	cmd.Println(`add shell integration with: eval "$(skillforge init zsh)"`)
	return nil
}

func enableAutoDetect(e *env) error {
	f, err := os.OpenFile(e.paths.AutoDetectFile(), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to enable auto-detection: %w", err)
	}
	return f.Close()
}

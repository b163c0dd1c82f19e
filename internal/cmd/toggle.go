package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:       "toggle <on|off>",
	Short:     "Enable or disable failure auto-detection",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	switch args[0] {
	case "on":
		if err := os.MkdirAll(e.paths.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := enableAutoDetect(e); err != nil {
			return err
		}
		cmd.Println("auto-detection enabled")
	case "off":
		if err := os.Remove(e.paths.AutoDetectFile()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to disable auto-detection: %w", err)
		}
		cmd.Println("auto-detection disabled")
	default:
		return fmt.Errorf("invalid argument %q (expected on or off)", args[0])
	}
	return nil
}

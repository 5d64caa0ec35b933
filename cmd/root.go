package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "dendro",
	Short: "Track coding sessions and grow a local developer profile",
	Long: `dendro tracks your coding sessions (activity, idle time, languages,
commits) and aggregates them into a local growth profile with streaks,
heatmaps, and language breakdowns. All data stays on your machine.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: config missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !config.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Println()
			fmt.Println("  Welcome to dendro! Looks like this is your first time.")
			if err := runSetup(true); err != nil {
				return err
			}
		}
		// Non-interactive (tests, pipes): continue with defaults.

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/config"
	"github.com/dendro-dev/dendro/internal/shell"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure dendro (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false)
	},
}

// runSetup runs the interactive setup wizard.
// If firstRun is true, a welcome message is shown.
func runSetup(firstRun bool) error {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		ans = strings.ToLower(ans)
		return ans == "y" || ans == "yes", nil
	}

	newCfg := config.Defaults()
	if existing, err := config.LoadGlobal(); err == nil && existing != nil {
		newCfg = config.Merge(existing, nil)
	}

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────┐")
	fmt.Println("  │    dendro — first-time setup    │")
	fmt.Println("  └─────────────────────────────────┘")
	fmt.Println()
	if firstRun {
		fmt.Println("  Answer a few questions (Enter keeps the default).")
		fmt.Println()
	}

	idleStr, err := ask("  Idle after how many seconds of inactivity",
		strconv.Itoa(newCfg.IdleThresholdSec))
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if n, err := strconv.Atoi(idleStr); err == nil && n > 0 {
		newCfg.IdleThresholdSec = n
	}

	format, err := ask("  Default export format (markdown/json)", newCfg.DefaultFormat)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if format == "json" {
		newCfg.DefaultFormat = "json"
	} else {
		newCfg.DefaultFormat = "markdown"
	}

	weeksStr, err := ask("  Heatmap window in weeks", strconv.Itoa(newCfg.HeatmapWeeks))
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if n, err := strconv.Atoi(weeksStr); err == nil && n > 0 {
		newCfg.HeatmapWeeks = n
	}

	if err := config.Save(newCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println("  ✓ Config saved.")

	// Shell plugin feeds the activity log that drives keystroke counts.
	installPlugin, err := askBool("  Install the shell activity plugin", true)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if installPlugin {
		sh, err := ask("  Which shell (zsh/bash)", shell.DetectShell())
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		if err := shell.Install(sh); err != nil {
			fmt.Printf("  ⚠ Plugin install failed: %v\n", err)
			fmt.Println("    You can retry with: dendro setup")
		}
	}

	fmt.Println("  Setup complete. Run 'dendro start' to begin a session.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

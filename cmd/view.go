package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/export"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/tui"
)

var viewPlain bool

var viewCmd = &cobra.Command{
	Use:   "view <report.md>",
	Short: "View an exported Markdown growth report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		p, err := export.ParseMarkdownReport(data)
		if err != nil {
			return err
		}

		if viewPlain {
			printProfile(p)
			return nil
		}
		return tui.Run(p, cfg.HeatmapWeeks, profile.DateOf(time.Now()))
	},
}

// printProfile writes a plain-text summary to stdout.
func printProfile(p *profile.GrowthProfile) {
	ls := p.LifetimeStats
	fmt.Println("## Lifetime")
	fmt.Printf("  Active time:    %s\n", (time.Duration(ls.TotalTimeMs) * time.Millisecond).Round(time.Minute))
	fmt.Printf("  Sessions:       %d\n", ls.TotalSessions)
	fmt.Printf("  Keystrokes:     %d\n", ls.TotalKeystrokes)
	fmt.Printf("  Commits:        %d\n", ls.TotalCommits)
	fmt.Printf("  Current streak: %d days\n", ls.CurrentStreak)
	fmt.Printf("  Longest streak: %d days\n", ls.LongestStreak)
	fmt.Println()

	fmt.Println("## Daily Activity")
	if len(p.DailyAggregates) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i := len(p.DailyAggregates) - 1; i >= 0; i-- {
		agg := p.DailyAggregates[i]
		fmt.Printf("  %s  %s  %d sessions, %d commits\n",
			agg.Date,
			(time.Duration(agg.TotalTimeMs) * time.Millisecond).Round(time.Minute),
			agg.SessionsCount, agg.CommitsCount)
	}
}

func init() {
	viewCmd.Flags().BoolVar(&viewPlain, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}

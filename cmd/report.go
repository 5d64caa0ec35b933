package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/engine"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/store"
	"github.com/dendro-dev/dendro/internal/tui"
)

var reportTUI bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show your growth report",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}
		profileJSON, err := st.LoadProfile()
		if err != nil {
			if errors.Is(err, store.ErrNoProfile) {
				return fmt.Errorf("no profile yet (finish a session with 'dendro stop' first)")
			}
			return err
		}

		if reportTUI {
			p, err := profile.Parse(profileJSON)
			if err != nil {
				return err
			}
			return tui.Run(p, cfg.HeatmapWeeks, profile.DateOf(time.Now()))
		}

		eng := engine.New()
		report, err := eng.ExportMarkdown(profileJSON, `{"format":"markdown"}`)
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportTUI, "tui", false, "open the interactive dashboard instead of printing Markdown")
	rootCmd.AddCommand(reportCmd)
}

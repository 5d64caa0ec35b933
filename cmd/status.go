package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current tracking session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}

		state, err := loadTracker(st)
		if err != nil {
			if errors.Is(err, store.ErrNoSession) {
				cmd.Println("no active session")
				return nil
			}
			return err
		}

		snap, err := state.sessionSnapshot()
		if err != nil {
			return err
		}

		eng, handle, err := restoreTracker(state)
		if err != nil {
			return err
		}
		statsJSON, err := eng.GetActiveSessionStats(handle)
		if err != nil {
			return err
		}
		var stats session.SessionStats
		if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
			return fmt.Errorf("parsing session stats: %w", err)
		}

		cmd.Printf("State: %s\n", snap.State)
		cmd.Printf("Started: %s\n", snap.Session.StartedAt.Format(time.RFC3339))
		cmd.Printf("Duration: %s\n", (time.Duration(stats.TotalDurationMs) * time.Millisecond).Round(time.Second))
		cmd.Printf("Active: %.1f%%\n", stats.ActivePercentage)
		cmd.Printf("Keystrokes: %d\n", snap.Session.KeystrokeCount)
		cmd.Printf("Files edited: %d\n", len(snap.Session.FilesEdited))
		if stats.PrimaryLanguage != "" {
			cmd.Printf("Primary language: %s\n", stats.PrimaryLanguage)
		}
		cmd.Printf("Work dir: %s\n", state.WorkDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

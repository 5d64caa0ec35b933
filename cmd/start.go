package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/engine"
	"github.com/dendro-dev/dendro/internal/shell"
	"github.com/dendro-dev/dendro/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Begin a new tracking session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}

		state, err := loadTracker(st)
		if err != nil && !errors.Is(err, store.ErrNoSession) {
			return err
		}
		if state != nil {
			snap, err := state.sessionSnapshot()
			if err != nil {
				return err
			}
			return fmt.Errorf("session already in progress (started at %s)",
				snap.Session.StartedAt.Format(time.RFC3339))
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		eng := engine.New()
		handle := eng.InitSession()
		if err := saveTracker(st, eng, handle, cwd); err != nil {
			return err
		}

		// Drop stale activity entries from before this session.
		if err := shell.TruncateActivityLog(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not reset activity log: %v\n", err)
		}

		fmt.Println("Session started. Run 'dendro watch' to track activity live.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

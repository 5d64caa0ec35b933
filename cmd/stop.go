package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/collector"
	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/shell"
	"github.com/dendro-dev/dendro/internal/store"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the current session and merge it into your growth profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}

		state, err := loadTracker(st)
		if err != nil {
			if errors.Is(err, store.ErrNoSession) {
				return fmt.Errorf("no active session")
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

		// Fold in any activity logged since the last watch run.
		entries, err := shell.ReadActivityLog()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read activity log: %v\n", err)
		}
		for range shell.EntriesAfter(entries, snap.LastActivity) {
			if err := eng.RecordKeystroke(handle); err != nil {
				return err
			}
		}

		// Commits made during the session window, best-effort.
		git := &collector.GitCollector{WorkDir: state.WorkDir}
		commits, err := git.CommitsSince(snap.Session.StartedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not collect commits: %v\n", err)
		}
		for _, commit := range commits {
			commitJSON, err := json.Marshal(commit)
			if err != nil {
				return err
			}
			if err := eng.AddCommitToSession(handle, string(commitJSON)); err != nil {
				return err
			}
		}

		statsJSON, err := eng.EndSession(handle)
		if err != nil {
			return err
		}
		sessionJSON, err := eng.SerializeSession(handle)
		if err != nil {
			return err
		}

		profileJSON, err := st.LoadProfile()
		if err != nil {
			if !errors.Is(err, store.ErrNoProfile) {
				return err
			}
			profileJSON, err = eng.CreateEmptyProfile()
			if err != nil {
				return err
			}
		}
		updated, err := eng.SaveSessionToProfile(profileJSON, sessionJSON)
		if err != nil {
			return err
		}
		if err := st.SaveProfile(updated); err != nil {
			return err
		}

		if err := st.DeleteSnapshot(); err != nil {
			return err
		}
		if err := shell.TruncateActivityLog(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not reset activity log: %v\n", err)
		}

		var stats session.SessionStats
		if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
			return fmt.Errorf("parsing session stats: %w", err)
		}

		fmt.Printf("Session stopped after %s (%.0f%% active).\n",
			(time.Duration(stats.TotalDurationMs) * time.Millisecond).Round(time.Second),
			stats.ActivePercentage)
		if stats.PrimaryLanguage != "" {
			fmt.Printf("Primary language: %s\n", stats.PrimaryLanguage)
		}
		if stats.CommitCount > 0 {
			fmt.Printf("Commits recorded: %d\n", stats.CommitCount)
		}
		fmt.Println("Profile updated. Run 'dendro report' to see your growth.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

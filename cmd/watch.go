package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dendro-dev/dendro/internal/collector"
	"github.com/dendro-dev/dendro/internal/shell"
	"github.com/dendro-dev/dendro/internal/store"
)

const (
	activityPollInterval = 2 * time.Second
	persistInterval      = 30 * time.Second
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live tracker for the active session",
	Long: `watch runs in the foreground and feeds activity into the current
session: file edits from a filesystem watcher, keystrokes from the shell
activity log, and idle transitions once no activity is seen for the
configured threshold. Stop it with Ctrl-C; the session survives and can
be resumed or ended later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore()
		if err != nil {
			return err
		}

		state, err := loadTracker(st)
		if err != nil {
			if errors.Is(err, store.ErrNoSession) {
				return fmt.Errorf("no active session (run 'dendro start' first)")
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events := make(chan collector.FileEvent, 64)
		watchErr := make(chan error, 1)
		watcher := &collector.FileWatcher{
			WorkDir:        state.WorkDir,
			IgnorePatterns: cfg.IgnorePatterns,
		}
		go func() {
			watchErr <- watcher.Watch(ctx, events)
		}()

		idleThreshold := time.Duration(cfg.IdleThresholdSec) * time.Second
		idle := snap.State == "idle"
		lastActivity := snap.LastActivity
		lastLogRead := time.Now()

		resume := func(now time.Time) error {
			if idle {
				if err := eng.ResumeFromIdle(handle); err != nil {
					return err
				}
				idle = false
			}
			lastActivity = now
			return nil
		}

		poll := time.NewTicker(activityPollInterval)
		defer poll.Stop()
		persist := time.NewTicker(persistInterval)
		defer persist.Stop()

		fmt.Printf("Watching %s (idle after %s). Ctrl-C to detach.\n",
			state.WorkDir, idleThreshold)

		for {
			select {
			case <-ctx.Done():
				return saveTracker(st, eng, handle, state.WorkDir)

			case err := <-watchErr:
				if err != nil {
					return fmt.Errorf("file watcher: %w", err)
				}
				return saveTracker(st, eng, handle, state.WorkDir)

			case ev := <-events:
				now := time.Now()
				if err := resume(now); err != nil {
					return err
				}
				if err := eng.RecordFileEdit(handle, ev.Path, ev.Language); err != nil {
					return err
				}

			case <-poll.C:
				entries, err := shell.ReadActivityLog()
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: could not read activity log: %v\n", err)
					continue
				}
				fresh := shell.EntriesAfter(entries, lastLogRead)
				lastLogRead = time.Now()
				for _, entry := range fresh {
					if err := resume(entry.Timestamp); err != nil {
						return err
					}
					if err := eng.RecordKeystroke(handle); err != nil {
						return err
					}
				}

				if !idle && time.Since(lastActivity) > idleThreshold {
					if err := eng.MarkIdle(handle); err != nil {
						return err
					}
					idle = true
				}

			case <-persist.C:
				if err := saveTracker(st, eng, handle, state.WorkDir); err != nil {
					fmt.Fprintf(os.Stderr, "warning: could not persist tracker state: %v\n", err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dendro-dev/dendro/internal/engine"
	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/store"
)

// trackerState is what dendro persists between invocations: the engine's
// session snapshot plus the host-only context it needs to resume.
type trackerState struct {
	WorkDir  string          `json:"work_dir"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// loadTracker reads the persisted tracker state. Returns
// store.ErrNoSession when no session is in progress.
func loadTracker(st *store.Store) (*trackerState, error) {
	data, err := st.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	var state trackerState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("parsing tracker state: %w", err)
	}
	return &state, nil
}

// saveTracker snapshots the live session out of eng and persists it
// together with the host context.
func saveTracker(st *store.Store, eng *engine.Engine, handle uint64, workDir string) error {
	snap, err := eng.SnapshotSession(handle)
	if err != nil {
		return err
	}
	state := trackerState{WorkDir: workDir, Snapshot: json.RawMessage(snap)}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return st.SaveSnapshot(string(data))
}

// restoreTracker rehydrates the persisted session into a fresh engine.
func restoreTracker(state *trackerState) (*engine.Engine, uint64, error) {
	eng := engine.New()
	handle, err := eng.RestoreSession(string(state.Snapshot))
	if err != nil {
		return nil, 0, err
	}
	return eng, handle, nil
}

// sessionSnapshot decodes the raw engine snapshot for read-only display.
func (t *trackerState) sessionSnapshot() (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := json.Unmarshal(t.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("parsing tracker state: %w", err)
	}
	return &snap, nil
}

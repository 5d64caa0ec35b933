package session

import (
	"errors"
	"time"
)

// Contract-violation errors. These indicate host bugs (unknown handles,
// mutating sealed sessions, illegal state transitions), not recoverable
// engine states.
var (
	ErrInvalidHandle = errors.New("unknown session handle")
	ErrSessionEnded  = errors.New("session already ended")
	ErrNotActive     = errors.New("session is not active")
	ErrNotIdle       = errors.New("session has no open idle period")
	ErrNotEnded      = errors.New("session has not ended")
	ErrHandleInUse   = errors.New("session handle already in use")
)

// languageSliceCapMs caps the per-edit time slice attributed to a language
// so large gaps (system sleep, lunch breaks) are not credited as coding
// time in that language.
const languageSliceCapMs = 2 * 60 * 1000

// tracked pairs a session with its runtime-only state. The runtime fields
// never cross the serialization boundary except through snapshots.
type tracked struct {
	sess         *Session
	state        State
	lastActivity time.Time
}

// Registry is the arena of live sessions, keyed by an opaque uint64 handle.
// Handles increase monotonically for the lifetime of one registry. The
// registry is not safe for concurrent use; the host serializes calls.
type Registry struct {
	// Now supplies the clock; tests override it.
	Now func() time.Time

	next     uint64
	sessions map[uint64]*tracked
}

// NewRegistry returns an empty registry with handle allocation starting at 1.
func NewRegistry() *Registry {
	return &Registry{
		Now:      time.Now,
		next:     1,
		sessions: make(map[uint64]*tracked),
	}
}

// Init allocates a fresh handle and an Active session started now.
func (r *Registry) Init() uint64 {
	now := r.Now()
	h := r.next
	r.next++
	r.sessions[h] = &tracked{
		sess:         newSession(h, now),
		state:        StateActive,
		lastActivity: now,
	}
	return h
}

// Reset discards every session. Handle allocation continues from where it
// was so stale handles from before the reset can never alias new sessions.
func (r *Registry) Reset() {
	r.sessions = make(map[uint64]*tracked)
}

func (r *Registry) get(h uint64) (*tracked, error) {
	t, ok := r.sessions[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return t, nil
}

// mutable returns the tracked session iff it can still be mutated.
func (r *Registry) mutable(h uint64) (*tracked, error) {
	t, err := r.get(h)
	if err != nil {
		return nil, err
	}
	if t.state == StateEnded {
		return nil, ErrSessionEnded
	}
	return t, nil
}

// RecordKeystroke increments the keystroke counter. A keystroke while idle
// is counted but does not resume the session; idle transitions are host
// policy, never inferred from activity volume.
func (r *Registry) RecordKeystroke(h uint64) error {
	t, err := r.mutable(h)
	if err != nil {
		return err
	}
	t.sess.KeystrokeCount++
	if t.state == StateActive {
		t.lastActivity = r.Now()
	}
	return nil
}

// RecordFileEdit adds path to the session's edited files (if new) and,
// while active, attributes the time since the previous activity instant to
// language, capped at languageSliceCapMs.
func (r *Registry) RecordFileEdit(h uint64, path, language string) error {
	t, err := r.mutable(h)
	if err != nil {
		return err
	}
	if !containsString(t.sess.FilesEdited, path) {
		t.sess.FilesEdited = append(t.sess.FilesEdited, path)
	}
	if t.state != StateActive {
		return nil
	}
	now := r.Now()
	delta := now.Sub(t.lastActivity).Milliseconds()
	if delta < 0 {
		delta = 0
	}
	if delta > languageSliceCapMs {
		delta = languageSliceCapMs
	}
	if language != "" {
		t.sess.Languages[language] += delta
	}
	t.lastActivity = now
	return nil
}

// MarkIdle opens a new idle period. Fails with ErrNotActive when the
// session is already idle, and ErrSessionEnded when sealed.
func (r *Registry) MarkIdle(h uint64) error {
	t, err := r.mutable(h)
	if err != nil {
		return err
	}
	if t.state != StateActive {
		return ErrNotActive
	}
	t.sess.IdlePeriods = append(t.sess.IdlePeriods, IdlePeriod{StartedAt: r.Now()})
	t.state = StateIdle
	return nil
}

// ResumeFromIdle closes the open idle period and returns the session to
// the active state. Fails with ErrNotIdle when no open period exists.
func (r *Registry) ResumeFromIdle(h uint64) error {
	t, err := r.mutable(h)
	if err != nil {
		return err
	}
	if t.state != StateIdle {
		return ErrNotIdle
	}
	now := r.Now()
	closeIdle(t.sess, now)
	t.state = StateActive
	t.lastActivity = now
	return nil
}

// AddCommit appends a commit reference. No validation beyond what the
// caller already parsed.
func (r *Registry) AddCommit(h uint64, commit CommitRef) error {
	t, err := r.mutable(h)
	if err != nil {
		return err
	}
	if commit.ShortHash == "" {
		commit.ShortHash = shortHash(commit.Hash)
	}
	t.sess.Commits = append(t.sess.Commits, commit)
	return nil
}

// End seals the session: closes any open idle period, stamps EndedAt, and
// derives active time as wall time minus total idle time. Returns the
// computed stats.
func (r *Registry) End(h uint64) (SessionStats, error) {
	t, err := r.mutable(h)
	if err != nil {
		return SessionStats{}, err
	}
	now := r.Now()
	if t.state == StateIdle {
		closeIdle(t.sess, now)
	}
	ended := now
	t.sess.EndedAt = &ended
	active := t.sess.TotalDurationMs(now) - t.sess.IdleTotalMs(now)
	if active < 0 {
		active = 0
	}
	t.sess.ActiveTimeMs = active
	t.state = StateEnded
	return t.sess.Stats(now), nil
}

// Stats returns a summary snapshot without sealing. Works on sealed
// sessions too, for which it reports the final numbers.
func (r *Registry) Stats(h uint64) (SessionStats, error) {
	t, err := r.get(h)
	if err != nil {
		return SessionStats{}, err
	}
	return t.sess.Stats(r.Now()), nil
}

// SealedSession returns a copy of a sealed session for persistence.
// Unsealed sessions have an ill-defined active time, so this fails with
// ErrNotEnded until End has been called.
func (r *Registry) SealedSession(h uint64) (Session, error) {
	t, err := r.get(h)
	if err != nil {
		return Session{}, err
	}
	if t.state != StateEnded {
		return Session{}, ErrNotEnded
	}
	return copySession(t.sess), nil
}

// Snapshot captures the full tracker state of an unsealed session so a
// process-per-invocation host can resume it later via Restore.
type Snapshot struct {
	Session      Session   `json:"session"`
	State        string    `json:"state"`
	LastActivity time.Time `json:"last_activity"`
}

// Snapshot dumps the tracked state for h. Sealed sessions cannot be
// snapshotted; they are consumed by a profile merge instead.
func (r *Registry) Snapshot(h uint64) (Snapshot, error) {
	t, err := r.get(h)
	if err != nil {
		return Snapshot{}, err
	}
	if t.state == StateEnded {
		return Snapshot{}, ErrSessionEnded
	}
	return Snapshot{
		Session:      copySession(t.sess),
		State:        t.state.String(),
		LastActivity: t.lastActivity,
	}, nil
}

// Restore rehydrates a snapshotted session under its original handle and
// returns that handle. Fails with ErrHandleInUse when the handle is live.
func (r *Registry) Restore(snap Snapshot) (uint64, error) {
	h := snap.Session.ID
	if h == 0 {
		return 0, ErrInvalidHandle
	}
	if _, ok := r.sessions[h]; ok {
		return 0, ErrHandleInUse
	}
	state := StateActive
	if snap.State == StateIdle.String() {
		state = StateIdle
	}
	sess := copySession(&snap.Session)
	sess.EndedAt = nil
	r.sessions[h] = &tracked{
		sess:         &sess,
		state:        state,
		lastActivity: snap.LastActivity,
	}
	if h >= r.next {
		r.next = h + 1
	}
	return h, nil
}

// closeIdle terminates the trailing open idle period, if any.
func closeIdle(s *Session, now time.Time) {
	if len(s.IdlePeriods) == 0 {
		return
	}
	last := &s.IdlePeriods[len(s.IdlePeriods)-1]
	if last.EndedAt != nil {
		return
	}
	ended := now
	last.EndedAt = &ended
	last.DurationMs = now.Sub(last.StartedAt).Milliseconds()
}

func copySession(s *Session) Session {
	out := *s
	out.FilesEdited = append([]string{}, s.FilesEdited...)
	out.Languages = make(map[string]int64, len(s.Languages))
	for k, v := range s.Languages {
		out.Languages[k] = v
	}
	out.IdlePeriods = append([]IdlePeriod{}, s.IdlePeriods...)
	out.Commits = append([]CommitRef{}, s.Commits...)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		out.EndedAt = &ended
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

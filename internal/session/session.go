// Package session holds the in-memory tracking state for one coding
// session: activity counters, idle periods, commit references, and the
// handle-keyed registry that owns all live sessions.
package session

import "time"

// State is the lifecycle state of a tracked session.
type State int

const (
	StateActive State = iota
	StateIdle
	StateEnded
)

// String returns the lowercase name used in snapshots.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// IdlePeriod is a gap in activity during a session. An open period
// (nil EndedAt) may only exist as the last element of a session's
// idle_periods while the session is idle.
type IdlePeriod struct {
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	DurationMs int64      `json:"duration_ms"`
}

// CommitRef is a reference to a git commit made during a session.
type CommitRef struct {
	Hash         string    `json:"hash"`
	ShortHash    string    `json:"short_hash"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	FilesChanged []string  `json:"files_changed"`
}

// NewCommitRef builds a CommitRef, deriving the short hash from the full one.
func NewCommitRef(hash, message string, timestamp time.Time, filesChanged []string) CommitRef {
	return CommitRef{
		Hash:         hash,
		ShortHash:    shortHash(hash),
		Message:      message,
		Timestamp:    timestamp,
		FilesChanged: filesChanged,
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Session is one continuous tracked coding interval, from start to seal.
// Once EndedAt is set the session is never mutated again.
type Session struct {
	ID             uint64           `json:"id"`
	StartedAt      time.Time        `json:"started_at"`
	EndedAt        *time.Time       `json:"ended_at,omitempty"`
	ActiveTimeMs   int64            `json:"active_time_ms"`
	KeystrokeCount int              `json:"keystroke_count"`
	FilesEdited    []string         `json:"files_edited"`
	Languages      map[string]int64 `json:"languages"`
	IdlePeriods    []IdlePeriod     `json:"idle_periods"`
	Commits        []CommitRef      `json:"commits"`
}

// SessionStats is the summary derived from a session at seal time (or as a
// live snapshot). ActivePercentage is on a 0–100 scale.
type SessionStats struct {
	TotalDurationMs  int64   `json:"total_duration_ms"`
	ActivePercentage float64 `json:"active_percentage"`
	PrimaryLanguage  string  `json:"primary_language,omitempty"`
	CommitCount      int     `json:"commit_count"`
}

func newSession(id uint64, startedAt time.Time) *Session {
	return &Session{
		ID:          id,
		StartedAt:   startedAt,
		FilesEdited: []string{},
		Languages:   map[string]int64{},
		IdlePeriods: []IdlePeriod{},
		Commits:     []CommitRef{},
	}
}

// TotalDurationMs is the wall-clock span of the session. For an unsealed
// session the span is measured up to now.
func (s *Session) TotalDurationMs(now time.Time) int64 {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return end.Sub(s.StartedAt).Milliseconds()
}

// IdleTotalMs sums all idle durations; an open idle period is measured up
// to now.
func (s *Session) IdleTotalMs(now time.Time) int64 {
	var total int64
	for _, p := range s.IdlePeriods {
		if p.EndedAt == nil {
			total += now.Sub(p.StartedAt).Milliseconds()
			continue
		}
		total += p.DurationMs
	}
	return total
}

// PrimaryLanguage is the language with the most accumulated time, or ""
// when no language time was recorded. Ties resolve to the
// lexicographically smallest name so the result is deterministic.
func (s *Session) PrimaryLanguage() string {
	var best string
	var bestTime int64
	for lang, ms := range s.Languages {
		if ms <= 0 {
			continue
		}
		if ms > bestTime || (ms == bestTime && lang < best) {
			best = lang
			bestTime = ms
		}
	}
	return best
}

// Stats computes the session summary. For a sealed session ActiveTimeMs is
// authoritative; for a live session active time is derived as wall time
// minus idle time so far.
func (s *Session) Stats(now time.Time) SessionStats {
	total := s.TotalDurationMs(now)
	active := s.ActiveTimeMs
	if s.EndedAt == nil {
		active = total - s.IdleTotalMs(now)
		if active < 0 {
			active = 0
		}
	}
	var pct float64
	if total > 0 {
		pct = float64(active) / float64(total) * 100
	}
	return SessionStats{
		TotalDurationMs:  total,
		ActivePercentage: pct,
		PrimaryLanguage:  s.PrimaryLanguage(),
		CommitCount:      len(s.Commits),
	}
}

// Package profile implements the durable growth-profile aggregate: sealed
// sessions merged into per-day buckets and lifetime totals. A profile is
// always handled as a value: parsed from JSON, transformed, and returned
// as new JSON, so the host stays the sole owner of its persistence.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dendro-dev/dendro/internal/session"
)

// ErrSessionNotEnded is returned when an unsealed session is merged into a
// profile; unsealed sessions have an ill-defined active time.
var ErrSessionNotEnded = errors.New("cannot merge a session that has not ended")

// StoredSession is the unit merged into a profile: a sealed session plus
// the stats computed at seal time.
type StoredSession struct {
	Session       session.Session      `json:"session"`
	ComputedStats session.SessionStats `json:"computed_stats"`
}

// DailyAggregate is the per-calendar-date rollup used for streaks and
// heatmaps. At most one exists per date; it is created lazily on the first
// session merged for that date.
type DailyAggregate struct {
	Date            Date             `json:"date"`
	TotalTimeMs     int64            `json:"total_time_ms"`
	TotalKeystrokes int64            `json:"total_keystrokes"`
	FilesCount      int              `json:"files_count"`
	SessionsCount   int              `json:"sessions_count"`
	CommitsCount    int              `json:"commits_count"`
	Languages       map[string]int64 `json:"languages"`
}

func newDailyAggregate(date Date) DailyAggregate {
	return DailyAggregate{Date: date, Languages: map[string]int64{}}
}

func (d *DailyAggregate) addSession(s *session.Session) {
	d.SessionsCount++
	d.TotalTimeMs += s.ActiveTimeMs
	d.TotalKeystrokes += int64(s.KeystrokeCount)
	d.FilesCount += len(s.FilesEdited)
	d.CommitsCount += len(s.Commits)
	for lang, ms := range s.Languages {
		d.Languages[lang] += ms
	}
}

// LifetimeStats are the all-time totals. Every field is monotonically
// non-decreasing across merges except CurrentStreak, which resets to 0
// after a gap of two or more days.
type LifetimeStats struct {
	TotalTimeMs     int64            `json:"total_time_ms"`
	TotalKeystrokes int64            `json:"total_keystrokes"`
	TotalSessions   int              `json:"total_sessions"`
	TotalCommits    int              `json:"total_commits"`
	CurrentStreak   int              `json:"current_streak"`
	LongestStreak   int              `json:"longest_streak"`
	Languages       map[string]int64 `json:"languages"`
}

func (l *LifetimeStats) addSession(s *session.Session) {
	l.TotalTimeMs += s.ActiveTimeMs
	l.TotalKeystrokes += int64(s.KeystrokeCount)
	l.TotalSessions++
	l.TotalCommits += len(s.Commits)
	for lang, ms := range s.Languages {
		l.Languages[lang] += ms
	}
}

// GrowthProfile is the single persisted artifact: every sealed session,
// the daily rollups, and the lifetime totals for one user/workspace.
type GrowthProfile struct {
	ID              string           `json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	Sessions        []StoredSession  `json:"sessions"`
	DailyAggregates []DailyAggregate `json:"daily_aggregates"`
	LifetimeStats   LifetimeStats    `json:"lifetime_stats"`
}

// New returns a fresh profile with a stable random id and zeroed stats.
func New(now time.Time) *GrowthProfile {
	return &GrowthProfile{
		ID:              uuid.New().String(),
		CreatedAt:       now,
		Sessions:        []StoredSession{},
		DailyAggregates: []DailyAggregate{},
		LifetimeStats:   LifetimeStats{Languages: map[string]int64{}},
	}
}

// Parse decodes a profile JSON document, restoring any nil collections so
// a round-trip through arbitrary host storage stays harmless.
func Parse(data string) (*GrowthProfile, error) {
	var p GrowthProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if p.Sessions == nil {
		p.Sessions = []StoredSession{}
	}
	if p.DailyAggregates == nil {
		p.DailyAggregates = []DailyAggregate{}
	}
	if p.LifetimeStats.Languages == nil {
		p.LifetimeStats.Languages = map[string]int64{}
	}
	return &p, nil
}

// ParseSession decodes a serialized session document.
func ParseSession(data string) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return &s, nil
}

// JSON encodes the profile as its canonical compact document.
func (p *GrowthProfile) JSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	return string(data), nil
}

// AddSession merges a sealed session: appends the StoredSession, updates
// or creates the daily aggregate for the session's UTC start date, adds
// the lifetime contributions, and recomputes both streaks as of today.
func (p *GrowthProfile) AddSession(s *session.Session, today Date) error {
	if s.EndedAt == nil {
		return ErrSessionNotEnded
	}
	stats := s.Stats(*s.EndedAt)

	p.LifetimeStats.addSession(s)

	date := DateOf(s.StartedAt)
	idx := p.aggregateIndex(date)
	if idx < 0 {
		p.insertAggregate(newDailyAggregate(date))
		idx = p.aggregateIndex(date)
	}
	p.DailyAggregates[idx].addSession(s)

	current, longest := Streaks(p.DailyAggregates, today)
	p.LifetimeStats.CurrentStreak = current
	p.LifetimeStats.LongestStreak = longest

	p.Sessions = append(p.Sessions, StoredSession{Session: *s, ComputedStats: stats})
	return nil
}

// RecentAggregates returns the aggregates for the last days calendar days,
// most recent first. days is clamped to [1, 3650]; an out-of-range value
// is a display knob, not an error.
func (p *GrowthProfile) RecentAggregates(days int, today Date) []DailyAggregate {
	days = clamp(days, 1, 3650)
	cutoff := today.AddDays(-days)
	out := []DailyAggregate{}
	for _, agg := range p.DailyAggregates {
		if agg.Date.After(cutoff) && !agg.Date.After(today) {
			out = append(out, agg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })
	return out
}

// aggregateIndex finds the aggregate for date, or -1.
func (p *GrowthProfile) aggregateIndex(date Date) int {
	for i := range p.DailyAggregates {
		if p.DailyAggregates[i].Date == date {
			return i
		}
	}
	return -1
}

// insertAggregate keeps DailyAggregates sorted ascending by date.
func (p *GrowthProfile) insertAggregate(agg DailyAggregate) {
	i := sort.Search(len(p.DailyAggregates), func(i int) bool {
		return agg.Date.Before(p.DailyAggregates[i].Date)
	})
	p.DailyAggregates = append(p.DailyAggregates, DailyAggregate{})
	copy(p.DailyAggregates[i+1:], p.DailyAggregates[i:])
	p.DailyAggregates[i] = agg
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

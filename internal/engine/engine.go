// Package engine is the serialization boundary between the analytics core
// and its host. Every complex value crosses as a JSON-encoded string and
// handles cross as plain integers, so the contract stays black-box even
// inside a single-process embedding. The engine owns no persistence and
// no timers: the host forwards events, drives idle transitions, and
// stores the profile documents this package returns.
//
// The engine is single-threaded by design. The only mutable state is the
// handle→session registry; every profile-side operation is a pure
// transformation of its string inputs.
package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dendro-dev/dendro/internal/correlate"
	"github.com/dendro-dev/dendro/internal/export"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/viz"
)

// Engine is one instance of the analytics core. The host keeps exactly
// one per embedding and serializes all calls against it.
type Engine struct {
	// Now supplies the clock for session events and "today" in streak and
	// heatmap computations; tests override it.
	Now func() time.Time

	reg *session.Registry
}

// New returns an engine with an empty session registry.
func New() *Engine {
	e := &Engine{Now: time.Now}
	e.reg = session.NewRegistry()
	e.reg.Now = func() time.Time { return e.Now() }
	return e
}

// Reset discards all live sessions, as on host reinitialization.
func (e *Engine) Reset() { e.reg.Reset() }

func (e *Engine) today() profile.Date { return profile.DateOf(e.Now()) }

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data), nil
}

// ── Session tracking ──────────────────────────────────────────────────

// InitSession allocates a fresh handle with an Active session.
func (e *Engine) InitSession() uint64 { return e.reg.Init() }

// RecordKeystroke increments the session's keystroke counter.
func (e *Engine) RecordKeystroke(handle uint64) error {
	return e.reg.RecordKeystroke(handle)
}

// RecordFileEdit records an edit to path and attributes a time slice to
// language.
func (e *Engine) RecordFileEdit(handle uint64, path, language string) error {
	return e.reg.RecordFileEdit(handle, path, language)
}

// MarkIdle opens an idle period; the host decides when idleness begins.
func (e *Engine) MarkIdle(handle uint64) error { return e.reg.MarkIdle(handle) }

// ResumeFromIdle closes the open idle period.
func (e *Engine) ResumeFromIdle(handle uint64) error { return e.reg.ResumeFromIdle(handle) }

// AddCommitToSession appends a commit reference given as JSON. The commit
// is parsed structurally, nothing more.
func (e *Engine) AddCommitToSession(handle uint64, commitJSON string) error {
	var commit session.CommitRef
	if err := json.Unmarshal([]byte(commitJSON), &commit); err != nil {
		return fmt.Errorf("parsing commit: %w", err)
	}
	return e.reg.AddCommit(handle, commit)
}

// EndSession seals the session and returns its SessionStats as JSON.
func (e *Engine) EndSession(handle uint64) (string, error) {
	stats, err := e.reg.End(handle)
	if err != nil {
		return "", err
	}
	return marshal(stats)
}

// GetActiveSessionStats returns a stats snapshot without sealing, for
// live "today" displays.
func (e *Engine) GetActiveSessionStats(handle uint64) (string, error) {
	stats, err := e.reg.Stats(handle)
	if err != nil {
		return "", err
	}
	return marshal(stats)
}

// SerializeSession dumps the sealed session as JSON for persistence.
func (e *Engine) SerializeSession(handle uint64) (string, error) {
	sess, err := e.reg.SealedSession(handle)
	if err != nil {
		return "", err
	}
	return marshal(sess)
}

// SnapshotSession dumps the full tracker state of an unsealed session so
// a process-per-invocation host can resume it later.
func (e *Engine) SnapshotSession(handle uint64) (string, error) {
	snap, err := e.reg.Snapshot(handle)
	if err != nil {
		return "", err
	}
	return marshal(snap)
}

// RestoreSession rehydrates a snapshot under its original handle.
func (e *Engine) RestoreSession(snapshotJSON string) (uint64, error) {
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snap); err != nil {
		return 0, fmt.Errorf("parsing snapshot: %w", err)
	}
	return e.reg.Restore(snap)
}

// ── Profile store ─────────────────────────────────────────────────────

// CreateEmptyProfile returns a fresh profile document.
func (e *Engine) CreateEmptyProfile() (string, error) {
	return profile.New(e.Now()).JSON()
}

// SaveSessionToProfile merges a sealed session into a profile and returns
// the new profile document. Neither input is modified; the host decides
// when to persist the result.
func (e *Engine) SaveSessionToProfile(profileJSON, sessionJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	sess, err := profile.ParseSession(sessionJSON)
	if err != nil {
		return "", err
	}
	if err := p.AddSession(sess, e.today()); err != nil {
		return "", err
	}
	return p.JSON()
}

// GetProfileStats returns the profile's LifetimeStats as JSON.
func (e *Engine) GetProfileStats(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(p.LifetimeStats)
}

// GetCurrentStreak returns the stored current streak.
func (e *Engine) GetCurrentStreak(profileJSON string) (int, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return 0, err
	}
	return p.LifetimeStats.CurrentStreak, nil
}

// GetLongestStreak returns the stored longest streak.
func (e *Engine) GetLongestStreak(profileJSON string) (int, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return 0, err
	}
	return p.LifetimeStats.LongestStreak, nil
}

// GetDailyAggregates returns the last days of aggregates, most recent
// first. days clamps to [1, 3650].
func (e *Engine) GetDailyAggregates(profileJSON string, days int) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(p.RecentAggregates(days, e.today()))
}

// GetCommitCorrelations pairs every recorded commit with a summary of its
// session, most recent commit first.
func (e *Engine) GetCommitCorrelations(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(correlate.CommitCorrelations(p))
}

// ── Visualization ─────────────────────────────────────────────────────

// GenerateHeatmap returns the weeks×7 activity grid. weeks clamps to
// [1, 52].
func (e *Engine) GenerateHeatmap(profileJSON string, weeks int) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(viz.GenerateHeatmap(p, weeks, e.today()))
}

// GenerateHourlyDistribution returns the 24-bucket start-hour histogram.
func (e *Engine) GenerateHourlyDistribution(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(viz.GenerateHourlyDistribution(p))
}

// GenerateLanguageBreakdown returns per-language lifetime stats, sorted
// by time descending.
func (e *Engine) GenerateLanguageBreakdown(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return marshal(viz.GenerateLanguageBreakdown(p))
}

// ── Export ────────────────────────────────────────────────────────────

// ExportJSON renders the profile as indented JSON per the options.
func (e *Engine) ExportJSON(profileJSON, optionsJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	opts, err := export.ParseOptions(optionsJSON)
	if err != nil {
		return "", err
	}
	return export.JSON(p, opts)
}

// ExportMarkdown renders the profile as a Markdown growth report.
func (e *Engine) ExportMarkdown(profileJSON, optionsJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	opts, err := export.ParseOptions(optionsJSON)
	if err != nil {
		return "", err
	}
	return export.Markdown(p, opts)
}

// ExportHeatmapSVG renders the activity grid as an SVG document.
func (e *Engine) ExportHeatmapSVG(profileJSON string, weeks int) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return export.HeatmapSVG(p, weeks, e.today()), nil
}

// GenerateBadgeSVG renders the current-streak badge.
func (e *Engine) GenerateBadgeSVG(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return export.BadgeSVG(p), nil
}

// GenerateBadgeURL builds the shields.io badge URL.
func (e *Engine) GenerateBadgeURL(profileJSON string) (string, error) {
	p, err := profile.Parse(profileJSON)
	if err != nil {
		return "", err
	}
	return export.BadgeURL(p), nil
}

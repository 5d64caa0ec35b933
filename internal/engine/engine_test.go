package engine_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dendro-dev/dendro/internal/engine"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/viz"
)

// newEngine returns an engine on a controllable clock starting at a fixed
// instant.
func newEngine() (*engine.Engine, *time.Time) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e := engine.New()
	e.Now = func() time.Time { return now }
	return e, &now
}

func TestSessionBoundaryRoundTrip(t *testing.T) {
	e, now := newEngine()

	h := e.InitSession()
	if h == 0 {
		t.Fatal("InitSession returned zero handle")
	}

	if err := e.RecordKeystroke(h); err != nil {
		t.Fatalf("RecordKeystroke: %v", err)
	}
	*now = now.Add(10 * time.Minute)
	if err := e.RecordFileEdit(h, "src/app.ts", "typescript"); err != nil {
		t.Fatalf("RecordFileEdit: %v", err)
	}

	commitJSON := `{"hash":"0011223344556677","message":"wire api","timestamp":"2026-03-10T09:05:00Z","files_changed":["src/app.ts"]}`
	if err := e.AddCommitToSession(h, commitJSON); err != nil {
		t.Fatalf("AddCommitToSession: %v", err)
	}

	*now = now.Add(20 * time.Minute)
	statsJSON, err := e.EndSession(h)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	var stats session.SessionStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		t.Fatalf("stats not valid JSON: %v", err)
	}
	if stats.TotalDurationMs != int64(30*60*1000) {
		t.Errorf("TotalDurationMs = %d, want %d", stats.TotalDurationMs, 30*60*1000)
	}
	if stats.ActivePercentage != 100 {
		t.Errorf("ActivePercentage = %v, want 100", stats.ActivePercentage)
	}
	if stats.CommitCount != 1 {
		t.Errorf("CommitCount = %d, want 1", stats.CommitCount)
	}

	sessionJSON, err := e.SerializeSession(h)
	if err != nil {
		t.Fatalf("SerializeSession: %v", err)
	}
	var sess session.Session
	if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
		t.Fatalf("session not valid JSON: %v", err)
	}
	if sess.Commits[0].ShortHash != "0011223" {
		t.Errorf("ShortHash = %q, want derived 0011223", sess.Commits[0].ShortHash)
	}
}

func TestMalformedInputsAreErrors(t *testing.T) {
	e, _ := newEngine()
	h := e.InitSession()

	if err := e.AddCommitToSession(h, "{bad json"); err == nil {
		t.Error("AddCommitToSession accepted malformed JSON")
	}
	if _, err := e.SaveSessionToProfile("{bad", "{}"); err == nil {
		t.Error("SaveSessionToProfile accepted a malformed profile")
	}
	if _, err := e.GetProfileStats("[]"); err == nil {
		t.Error("GetProfileStats accepted a non-object document")
	}
	if _, err := e.RestoreSession("not json"); err == nil {
		t.Error("RestoreSession accepted malformed JSON")
	}
	if _, err := e.GenerateHeatmap("{bad", 12); err == nil {
		t.Error("GenerateHeatmap accepted a malformed profile")
	}
}

func TestUnknownHandleErrors(t *testing.T) {
	e, _ := newEngine()
	if err := e.RecordKeystroke(999); !errors.Is(err, session.ErrInvalidHandle) {
		t.Errorf("RecordKeystroke(999) err = %v, want ErrInvalidHandle", err)
	}
	if _, err := e.EndSession(999); !errors.Is(err, session.ErrInvalidHandle) {
		t.Errorf("EndSession(999) err = %v, want ErrInvalidHandle", err)
	}
}

func TestProfileWorkflow(t *testing.T) {
	e, now := newEngine()

	profileJSON, err := e.CreateEmptyProfile()
	if err != nil {
		t.Fatalf("CreateEmptyProfile: %v", err)
	}

	// Run one session and merge it.
	h := e.InitSession()
	*now = now.Add(45 * time.Minute)
	if err := e.RecordFileEdit(h, "main.go", "go"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.EndSession(h); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	sessionJSON, err := e.SerializeSession(h)
	if err != nil {
		t.Fatalf("SerializeSession: %v", err)
	}

	updated, err := e.SaveSessionToProfile(profileJSON, sessionJSON)
	if err != nil {
		t.Fatalf("SaveSessionToProfile: %v", err)
	}
	if updated == profileJSON {
		t.Error("SaveSessionToProfile returned the unchanged input document")
	}

	statsJSON, err := e.GetProfileStats(updated)
	if err != nil {
		t.Fatalf("GetProfileStats: %v", err)
	}
	var stats profile.LifetimeStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		t.Fatalf("lifetime stats not valid JSON: %v", err)
	}
	if stats.TotalSessions != 1 {
		t.Errorf("TotalSessions = %d, want 1", stats.TotalSessions)
	}
	if stats.TotalTimeMs != int64(45*60*1000) {
		t.Errorf("TotalTimeMs = %d, want %d", stats.TotalTimeMs, 45*60*1000)
	}

	current, err := e.GetCurrentStreak(updated)
	if err != nil {
		t.Fatalf("GetCurrentStreak: %v", err)
	}
	longest, err := e.GetLongestStreak(updated)
	if err != nil {
		t.Fatalf("GetLongestStreak: %v", err)
	}
	if current != 1 || longest != 1 {
		t.Errorf("streaks = (%d, %d), want (1, 1)", current, longest)
	}

	aggJSON, err := e.GetDailyAggregates(updated, 7)
	if err != nil {
		t.Fatalf("GetDailyAggregates: %v", err)
	}
	var aggs []profile.DailyAggregate
	if err := json.Unmarshal([]byte(aggJSON), &aggs); err != nil {
		t.Fatalf("aggregates not valid JSON: %v", err)
	}
	if len(aggs) != 1 {
		t.Errorf("aggregates = %d, want 1", len(aggs))
	}

	// Merging an unsealed session must fail.
	h2 := e.InitSession()
	unsealed, err := e.SnapshotSession(h2)
	if err != nil {
		t.Fatalf("SnapshotSession: %v", err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(unsealed), &snap); err != nil {
		t.Fatal(err)
	}
	rawSession, _ := json.Marshal(snap.Session)
	if _, err := e.SaveSessionToProfile(updated, string(rawSession)); !errors.Is(err, profile.ErrSessionNotEnded) {
		t.Errorf("SaveSessionToProfile(unsealed) err = %v, want ErrSessionNotEnded", err)
	}
}

func TestVisualizationBoundary(t *testing.T) {
	e, now := newEngine()

	profileJSON, err := e.CreateEmptyProfile()
	if err != nil {
		t.Fatal(err)
	}
	h := e.InitSession()
	*now = now.Add(time.Hour)
	if err := e.RecordFileEdit(h, "main.go", "go"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.EndSession(h); err != nil {
		t.Fatal(err)
	}
	sessionJSON, _ := e.SerializeSession(h)
	profileJSON, err = e.SaveSessionToProfile(profileJSON, sessionJSON)
	if err != nil {
		t.Fatal(err)
	}

	heatmapJSON, err := e.GenerateHeatmap(profileJSON, 200)
	if err != nil {
		t.Fatalf("GenerateHeatmap: %v", err)
	}
	var heatmap viz.HeatmapData
	if err := json.Unmarshal([]byte(heatmapJSON), &heatmap); err != nil {
		t.Fatalf("heatmap not valid JSON: %v", err)
	}
	if heatmap.Weeks != 52 {
		t.Errorf("Weeks = %d, want clamped 52", heatmap.Weeks)
	}
	if heatmap.TotalMinutes != 60 {
		t.Errorf("TotalMinutes = %d, want 60", heatmap.TotalMinutes)
	}

	hourlyJSON, err := e.GenerateHourlyDistribution(profileJSON)
	if err != nil {
		t.Fatalf("GenerateHourlyDistribution: %v", err)
	}
	var hourly viz.HourlyDistribution
	if err := json.Unmarshal([]byte(hourlyJSON), &hourly); err != nil {
		t.Fatalf("hourly not valid JSON: %v", err)
	}
	if hourly.PeakHour != 9 {
		t.Errorf("PeakHour = %d, want 9", hourly.PeakHour)
	}

	langJSON, err := e.GenerateLanguageBreakdown(profileJSON)
	if err != nil {
		t.Fatalf("GenerateLanguageBreakdown: %v", err)
	}
	var langs []viz.LanguageStat
	if err := json.Unmarshal([]byte(langJSON), &langs); err != nil {
		t.Fatalf("breakdown not valid JSON: %v", err)
	}
	if len(langs) != 1 || langs[0].Language != "go" {
		t.Errorf("breakdown = %+v, want a single go entry", langs)
	}

	badgeURL, err := e.GenerateBadgeURL(profileJSON)
	if err != nil {
		t.Fatalf("GenerateBadgeURL: %v", err)
	}
	if !strings.Contains(badgeURL, "img.shields.io") {
		t.Errorf("BadgeURL = %q, want a shields.io URL", badgeURL)
	}

	svg, err := e.ExportHeatmapSVG(profileJSON, 4)
	if err != nil {
		t.Fatalf("ExportHeatmapSVG: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg") {
		t.Error("ExportHeatmapSVG did not return an SVG document")
	}
}

func TestSnapshotRestoreAcrossEngines(t *testing.T) {
	e1, now := newEngine()
	h := e1.InitSession()
	*now = now.Add(5 * time.Minute)
	if err := e1.RecordKeystroke(h); err != nil {
		t.Fatal(err)
	}
	snapJSON, err := e1.SnapshotSession(h)
	if err != nil {
		t.Fatalf("SnapshotSession: %v", err)
	}

	// A different process: new engine, same persisted snapshot.
	e2 := engine.New()
	e2.Now = e1.Now
	h2, err := e2.RestoreSession(snapJSON)
	if err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	if h2 != h {
		t.Errorf("restored handle = %d, want %d", h2, h)
	}

	*now = now.Add(5 * time.Minute)
	statsJSON, err := e2.EndSession(h2)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	var stats session.SessionStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalDurationMs != int64(10*60*1000) {
		t.Errorf("TotalDurationMs = %d, want %d across the restore", stats.TotalDurationMs, 10*60*1000)
	}
}

func TestResetInvalidatesHandles(t *testing.T) {
	e, _ := newEngine()
	h := e.InitSession()
	e.Reset()
	if err := e.RecordKeystroke(h); !errors.Is(err, session.ErrInvalidHandle) {
		t.Errorf("stale handle err = %v, want ErrInvalidHandle", err)
	}
}

package viz_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/session"
	"github.com/dendro-dev/dendro/internal/viz"
)

var today = profile.Date{Year: 2026, Month: 3, Day: 10}

// profileWithDays builds a profile whose aggregates log activeMs on each
// of the given day offsets before today.
func profileWithDays(t *testing.T, activeMs int64, daysAgo ...int) *profile.GrowthProfile {
	t.Helper()
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	for i, n := range daysAgo {
		start := today.AddDays(-n).Time().Add(9 * time.Hour)
		ended := start.Add(time.Hour)
		s := &session.Session{
			ID:           uint64(i + 1),
			StartedAt:    start,
			EndedAt:      &ended,
			ActiveTimeMs: activeMs,
			FilesEdited:  []string{"main.go"},
			Languages:    map[string]int64{"go": activeMs},
		}
		if err := p.AddSession(s, today); err != nil {
			t.Fatalf("AddSession: %v", err)
		}
	}
	return p
}

func TestHeatmapAnchorsTodayAtLastCell(t *testing.T) {
	p := profileWithDays(t, 30*60*1000, 0) // activity today only
	data := viz.GenerateHeatmap(p, 4, today)

	if data.Weeks != 4 {
		t.Fatalf("Weeks = %d, want 4", data.Weeks)
	}
	if len(data.Cells) != 4*7 {
		t.Fatalf("Cells = %d, want %d", len(data.Cells), 4*7)
	}

	last := data.Cells[len(data.Cells)-1]
	if last.Week != 3 || last.Day != 6 {
		t.Fatalf("last cell = (week %d, day %d), want (3, 6)", last.Week, last.Day)
	}
	if last.RawMinutes != 30 {
		t.Errorf("today RawMinutes = %d, want 30", last.RawMinutes)
	}
	if last.Intensity != 1 {
		t.Errorf("today Intensity = %v, want 1 (busiest cell)", last.Intensity)
	}
	if data.MaxMinutes != 30 || data.TotalMinutes != 30 {
		t.Errorf("MaxMinutes/TotalMinutes = %d/%d, want 30/30", data.MaxMinutes, data.TotalMinutes)
	}

	// Every other cell is empty.
	for _, cell := range data.Cells[:len(data.Cells)-1] {
		if cell.RawMinutes != 0 || cell.Intensity != 0 {
			t.Fatalf("cell (%d,%d) = %d min, want empty", cell.Week, cell.Day, cell.RawMinutes)
		}
	}
}

func TestHeatmapEmptyProfile(t *testing.T) {
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	data := viz.GenerateHeatmap(p, 12, today)
	if data.MaxMinutes != 0 || data.TotalMinutes != 0 {
		t.Errorf("empty profile totals = %d/%d, want 0/0", data.MaxMinutes, data.TotalMinutes)
	}
	for _, cell := range data.Cells {
		if cell.Intensity != 0 {
			t.Fatalf("cell (%d,%d) Intensity = %v, want 0", cell.Week, cell.Day, cell.Intensity)
		}
	}
}

func TestHeatmapClampsWeeks(t *testing.T) {
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := viz.GenerateHeatmap(p, 0, today).Weeks; got != 1 {
		t.Errorf("weeks=0 clamped to %d, want 1", got)
	}
	if got := viz.GenerateHeatmap(p, -5, today).Weeks; got != 1 {
		t.Errorf("weeks=-5 clamped to %d, want 1", got)
	}
	if got := viz.GenerateHeatmap(p, 500, today).Weeks; got != 52 {
		t.Errorf("weeks=500 clamped to %d, want 52", got)
	}
}

// The grid is always complete, intensities stay in [0,1], and the busiest
// cell is exactly 1 whenever any activity exists.
func TestHeatmapGridInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weeks := rapid.IntRange(-10, 80).Draw(t, "weeks")
		daysAgo := rapid.SliceOfNDistinct(rapid.IntRange(0, 400), 0, 20, rapid.ID).
			Draw(t, "days_ago")

		p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		for i, n := range daysAgo {
			start := today.AddDays(-n).Time().Add(12 * time.Hour)
			ended := start.Add(time.Hour)
			activeMs := rapid.Int64Range(60_000, 8*60*60*1000).Draw(t, "active_ms")
			s := &session.Session{
				ID:           uint64(i + 1),
				StartedAt:    start,
				EndedAt:      &ended,
				ActiveTimeMs: activeMs,
				Languages:    map[string]int64{},
			}
			if err := p.AddSession(s, today); err != nil {
				t.Fatalf("AddSession: %v", err)
			}
		}

		data := viz.GenerateHeatmap(p, weeks, today)

		if data.Weeks < 1 || data.Weeks > 52 {
			t.Fatalf("Weeks = %d outside [1,52]", data.Weeks)
		}
		if len(data.Cells) != data.Weeks*7 {
			t.Fatalf("Cells = %d, want %d", len(data.Cells), data.Weeks*7)
		}

		var sawMax bool
		for i, cell := range data.Cells {
			if cell.Week != i/7 || cell.Day != i%7 {
				t.Fatalf("cell %d has coordinates (%d,%d)", i, cell.Week, cell.Day)
			}
			if cell.Intensity < 0 || cell.Intensity > 1 {
				t.Fatalf("Intensity = %v outside [0,1]", cell.Intensity)
			}
			if cell.RawMinutes == 0 && cell.Intensity != 0 {
				t.Fatal("empty cell with nonzero intensity")
			}
			if cell.RawMinutes == data.MaxMinutes && data.MaxMinutes > 0 {
				sawMax = true
			}
		}
		if data.MaxMinutes > 0 && !sawMax {
			t.Fatal("MaxMinutes not present in any cell")
		}
	})
}

func TestHourlyDistribution(t *testing.T) {
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	addAt := func(id uint64, hour int, activeMs int64) {
		start := time.Date(2026, 3, 9, hour, 15, 0, 0, time.UTC)
		ended := start.Add(time.Hour)
		s := &session.Session{
			ID: id, StartedAt: start, EndedAt: &ended,
			ActiveTimeMs: activeMs, Languages: map[string]int64{},
		}
		if err := p.AddSession(s, today); err != nil {
			t.Fatalf("AddSession: %v", err)
		}
	}
	addAt(1, 9, 40*60*1000)
	addAt(2, 9, 20*60*1000)
	addAt(3, 14, 50*60*1000)
	addAt(4, 22, 60*60*1000)

	dist := viz.GenerateHourlyDistribution(p)
	if dist.BucketsMs[9] != 60*60*1000 {
		t.Errorf("BucketsMs[9] = %d, want %d", dist.BucketsMs[9], 60*60*1000)
	}
	// Hours 9 and 22 tie at 60 minutes; the earlier hour wins.
	if dist.PeakHour != 9 {
		t.Errorf("PeakHour = %d, want 9 (tie toward earliest)", dist.PeakHour)
	}
	if want := int64(170 * 60 * 1000); dist.TotalMs != want {
		t.Errorf("TotalMs = %d, want %d", dist.TotalMs, want)
	}
}

func TestLanguageBreakdown(t *testing.T) {
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	start := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	ended := start.Add(time.Hour)
	s := &session.Session{
		ID: 1, StartedAt: start, EndedAt: &ended,
		ActiveTimeMs: 60 * 60 * 1000,
		FilesEdited:  []string{"main.go", "util.go", "notes.txt"},
		Languages: map[string]int64{
			"go":         45 * 60 * 1000,
			"typescript": 15 * 60 * 1000,
		},
	}
	if err := p.AddSession(s, today); err != nil {
		t.Fatal(err)
	}

	stats := viz.GenerateLanguageBreakdown(p)
	if len(stats) != 2 {
		t.Fatalf("breakdown = %d entries, want 2", len(stats))
	}
	if stats[0].Language != "go" || stats[1].Language != "typescript" {
		t.Fatalf("order = [%s, %s], want [go, typescript]", stats[0].Language, stats[1].Language)
	}
	if stats[0].Percentage != 75 || stats[1].Percentage != 25 {
		t.Errorf("percentages = %v/%v, want 75/25", stats[0].Percentage, stats[1].Percentage)
	}
	if stats[0].Color != "#00add8" {
		t.Errorf("go color = %q, want #00add8", stats[0].Color)
	}
	// Primary language of the session is go: its files count there.
	if stats[0].FilesCount != 3 {
		t.Errorf("go FilesCount = %d, want 3", stats[0].FilesCount)
	}
	if stats[1].FilesCount != 0 {
		t.Errorf("typescript FilesCount = %d, want 0", stats[1].FilesCount)
	}
}

func TestLanguageBreakdownEmptyProfile(t *testing.T) {
	p := profile.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if stats := viz.GenerateLanguageBreakdown(p); len(stats) != 0 {
		t.Errorf("breakdown of empty profile = %d entries, want 0", len(stats))
	}
}

func TestLanguageColorFallback(t *testing.T) {
	if c := viz.LanguageColor("Go"); c != "#00add8" {
		t.Errorf("LanguageColor(Go) = %q, want case-insensitive #00add8", c)
	}
	if c := viz.LanguageColor("brainfuck"); c != "#6e7681" {
		t.Errorf("LanguageColor(unknown) = %q, want the fallback color", c)
	}
}

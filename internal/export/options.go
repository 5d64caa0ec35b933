// Package export renders a growth profile into self-contained strings:
// JSON, Markdown (with an embedded payload for lossless round-trip), an
// SVG heatmap, and shields.io-style badges. Every function is a pure,
// deterministic transformation of the profile value.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/session"
)

// Format selects the export renderer.
type Format string

const (
	FormatJSON       Format = "json"
	FormatMarkdown   Format = "markdown"
	FormatSVGHeatmap Format = "svg_heatmap"
	FormatBadgeSVG   Format = "badge_svg"
	FormatBadgeURL   Format = "badge_url"
)

// DateRange restricts which sessions and daily aggregates an export
// includes. Both bounds are inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Options configures the JSON and Markdown exports.
type Options struct {
	Format         Format     `json:"format"`
	DateRange      *DateRange `json:"date_range,omitempty"`
	IncludeCommits bool       `json:"include_commits"`
	IncludeFiles   bool       `json:"include_files"`
}

// DefaultOptions is a full JSON export.
func DefaultOptions() Options {
	return Options{Format: FormatJSON, IncludeCommits: true, IncludeFiles: true}
}

// ParseOptions decodes options JSON over the defaults, so absent fields
// keep their default values. An empty string means all defaults.
func ParseOptions(data string) (Options, error) {
	opts := DefaultOptions()
	if strings.TrimSpace(data) == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return Options{}, fmt.Errorf("parsing export options: %w", err)
	}
	return opts, nil
}

// filterProfile builds the restricted view of p that opts asks for.
// The source profile is never modified.
func filterProfile(p *profile.GrowthProfile, opts Options) *profile.GrowthProfile {
	out := &profile.GrowthProfile{
		ID:              p.ID,
		CreatedAt:       p.CreatedAt,
		Sessions:        []profile.StoredSession{},
		DailyAggregates: []profile.DailyAggregate{},
		LifetimeStats:   p.LifetimeStats,
	}

	for _, stored := range p.Sessions {
		if opts.DateRange != nil && !opts.DateRange.Contains(stored.Session.StartedAt) {
			continue
		}
		copied := stored
		if !opts.IncludeCommits {
			copied.Session.Commits = []session.CommitRef{}
			copied.ComputedStats.CommitCount = 0
		}
		if !opts.IncludeFiles {
			copied.Session.FilesEdited = []string{}
		}
		out.Sessions = append(out.Sessions, copied)
	}

	for _, agg := range p.DailyAggregates {
		if opts.DateRange != nil {
			dayStart := agg.Date.Time()
			dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
			if dayEnd.Before(opts.DateRange.Start) || dayStart.After(opts.DateRange.End) {
				continue
			}
		}
		out.DailyAggregates = append(out.DailyAggregates, agg)
	}

	return out
}

// Package viz derives display-oriented datasets (heatmaps, hourly
// histograms, language breakdowns) from a growth profile. Everything here
// is a pure read over the profile value.
package viz

import (
	"github.com/dendro-dev/dendro/internal/profile"
)

const (
	minWeeks = 1
	maxWeeks = 52
)

// HeatmapCell is one week×day bucket. Intensity is normalized to [0,1]
// against the busiest cell in the window; 0 always means no activity.
type HeatmapCell struct {
	Day        int     `json:"day"`
	Week       int     `json:"week"`
	Hour       int     `json:"hour"`
	Intensity  float64 `json:"intensity"`
	RawMinutes int64   `json:"raw_minutes"`
}

// HeatmapData is the full weeks×7 grid plus its window totals.
type HeatmapData struct {
	Cells        []HeatmapCell `json:"cells"`
	MaxMinutes   int64         `json:"max_minutes"`
	Weeks        int           `json:"weeks"`
	TotalMinutes int64         `json:"total_minutes"`
}

// GenerateHeatmap builds a weeks×7 grid anchored so that today occupies
// the very last cell (week weeks-1, day 6). Weeks outside [1,52] are
// clamped rather than rejected. Every cell of the grid is emitted, with
// raw_minutes 0 for dates that have no aggregate.
func GenerateHeatmap(p *profile.GrowthProfile, weeks int, today profile.Date) HeatmapData {
	weeks = clampWeeks(weeks)

	minutesByDate := make(map[profile.Date]int64, len(p.DailyAggregates))
	for _, agg := range p.DailyAggregates {
		minutesByDate[agg.Date] = agg.TotalTimeMs / 60000
	}

	cells := make([]HeatmapCell, 0, weeks*7)
	var maxMinutes, totalMinutes int64
	for week := 0; week < weeks; week++ {
		for day := 0; day < 7; day++ {
			offset := (weeks-1-week)*7 + (6 - day)
			date := today.AddDays(-offset)
			raw := minutesByDate[date]
			cells = append(cells, HeatmapCell{Day: day, Week: week, RawMinutes: raw})
			totalMinutes += raw
			if raw > maxMinutes {
				maxMinutes = raw
			}
		}
	}

	if maxMinutes > 0 {
		for i := range cells {
			cells[i].Intensity = float64(cells[i].RawMinutes) / float64(maxMinutes)
		}
	}

	return HeatmapData{
		Cells:        cells,
		MaxMinutes:   maxMinutes,
		Weeks:        weeks,
		TotalMinutes: totalMinutes,
	}
}

// ClampWeeks exposes the heatmap window clamping for callers that render
// around the grid (SVG export).
func ClampWeeks(weeks int) int { return clampWeeks(weeks) }

func clampWeeks(weeks int) int {
	if weeks < minWeeks {
		return minWeeks
	}
	if weeks > maxWeeks {
		return maxWeeks
	}
	return weeks
}

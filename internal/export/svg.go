package export

import (
	"fmt"
	"strings"

	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/viz"
)

const (
	svgCellSize = 12
	svgCellGap  = 2
	svgMargin   = 20
)

// HeatmapSVG renders the weeks×7 activity grid as a GitHub-style
// contribution graph. weeks is clamped the same way as the heatmap data.
func HeatmapSVG(p *profile.GrowthProfile, weeks int, today profile.Date) string {
	heatmap := viz.GenerateHeatmap(p, weeks, today)

	step := svgCellSize + svgCellGap
	width := heatmap.Weeks*step + 2*svgMargin
	height := 7*step + 2*svgMargin

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, width, height)
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	for _, cell := range heatmap.Cells {
		x := svgMargin + cell.Week*step
		y := svgMargin + cell.Day*step
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="2"/>`,
			x, y, svgCellSize, svgCellSize, IntensityColor(cell.Intensity))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// BadgeSVG renders a shields.io-style streak badge from the profile's
// current streak.
func BadgeSVG(p *profile.GrowthProfile) string {
	value := fmt.Sprintf("%d days", p.LifetimeStats.CurrentStreak)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="20">
  <linearGradient id="b" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <rect rx="3" width="120" height="20" fill="#555"/>
  <rect rx="3" x="50" width="70" height="20" fill="#4c1"/>
  <path fill="#4c1" d="M50 0h4v20h-4z"/>
  <rect rx="3" width="120" height="20" fill="url(#b)"/>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="25" y="15" fill="#010101" fill-opacity=".3">streak</text>
    <text x="25" y="14">streak</text>
    <text x="85" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="85" y="14">%s</text>
  </g>
</svg>`, value, value)
}

// BadgeURL builds a shields.io badge URL for the current streak.
func BadgeURL(p *profile.GrowthProfile) string {
	return fmt.Sprintf("https://img.shields.io/badge/streak-%d_days-brightgreen",
		p.LifetimeStats.CurrentStreak)
}

// IntensityColor maps a normalized heatmap intensity to the GitHub
// contribution-graph palette. Zero intensity means true absence of
// activity and gets the empty-cell color.
func IntensityColor(intensity float64) string {
	switch {
	case intensity == 0:
		return "#ebedf0"
	case intensity < 0.25:
		return "#9be9a8"
	case intensity < 0.5:
		return "#40c463"
	case intensity < 0.75:
		return "#30a14e"
	default:
		return "#216e39"
	}
}

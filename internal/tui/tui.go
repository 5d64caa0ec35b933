// Package tui provides a Bubble Tea dashboard over a growth profile:
// lifetime stats, the activity heatmap, language breakdown, and commit
// history. Strictly read-only.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dendro-dev/dendro/internal/correlate"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/viz"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("29")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("29")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// heatCellStyles grades heatmap cells from empty to busiest.
var heatCellStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
}

// ── Tab definitions ─────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabHeatmap
	tabLanguages
	tabCommits
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Heatmap", "Languages", "Commits"}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	profile   *profile.GrowthProfile
	today     profile.Date
	weeks     int
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a dashboard model for the given profile. weeks controls the
// heatmap window.
func New(p *profile.GrowthProfile, weeks int, today profile.Date) Model {
	return Model{profile: p, weeks: weeks, today: today}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		default:
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 4 // title + tabs + status bar
		for i := range m.viewports {
			m.viewports[i] = viewport.New(m.width, contentHeight)
		}
		m.viewports[tabOverview].SetContent(m.renderOverview())
		m.viewports[tabHeatmap].SetContent(m.renderHeatmap())
		m.viewports[tabLanguages].SetContent(m.renderLanguages())
		m.viewports[tabCommits].SetContent(m.renderCommits())
		m.ready = true
	}

	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("dendro — growth dashboard"))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")
	sb.WriteString(m.viewports[m.activeTab].View())
	sb.WriteString("\n")
	sb.WriteString(statusBarStyle.Width(m.width).Render(
		hintStyle.Render("tab/1-4 switch · j/k scroll · q quit")))
	return sb.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount*2)
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, tabNames[i])
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			parts = append(parts, tabSepStyle.Render("│"))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// ── Tab content ───────────────────

func (m Model) renderOverview() string {
	ls := m.profile.LifetimeStats
	var sb strings.Builder

	sb.WriteString(sectionHeader.Render("Lifetime"))
	sb.WriteString("\n\n")
	row := func(label, value string) {
		fmt.Fprintf(&sb, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), value)
	}
	row("Active time", timeStyle.Render(formatDuration(ls.TotalTimeMs)))
	row("Sessions", fmt.Sprintf("%d", ls.TotalSessions))
	row("Keystrokes", fmt.Sprintf("%d", ls.TotalKeystrokes))
	row("Commits", fmt.Sprintf("%d", ls.TotalCommits))
	row("Current streak", streakStyle.Render(fmt.Sprintf("%d days", ls.CurrentStreak)))
	row("Longest streak", fmt.Sprintf("%d days", ls.LongestStreak))

	sb.WriteString("\n")
	sb.WriteString(sectionHeader.Render("Busiest hours (UTC)"))
	sb.WriteString("\n\n")
	dist := viz.GenerateHourlyDistribution(m.profile)
	if dist.TotalMs == 0 {
		sb.WriteString(dimStyle.Render("  no session data yet"))
		sb.WriteString("\n")
	} else {
		var peak int64
		for _, ms := range dist.BucketsMs {
			if ms > peak {
				peak = ms
			}
		}
		for hour, ms := range dist.BucketsMs {
			if ms == 0 {
				continue
			}
			bar := strings.Repeat("█", int(ms*24/peak)+1)
			fmt.Fprintf(&sb, "  %02d:00 %s %s\n", hour,
				timeStyle.Render(bar), dimStyle.Render(formatDuration(ms)))
		}
	}
	return sb.String()
}

func (m Model) renderHeatmap() string {
	heatmap := viz.GenerateHeatmap(m.profile, m.weeks, m.today)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n",
		sectionHeader.Render("Activity"),
		dimStyle.Render(fmt.Sprintf("last %d weeks · %s total",
			heatmap.Weeks, formatDuration(heatmap.TotalMinutes*60000))))

	// cells arrive ordered week-major; index them by (day, week) for the
	// row-per-weekday layout.
	grid := make(map[[2]int]viz.HeatmapCell, len(heatmap.Cells))
	for _, cell := range heatmap.Cells {
		grid[[2]int{cell.Day, cell.Week}] = cell
	}
	for day := 0; day < 7; day++ {
		sb.WriteString("  ")
		for week := 0; week < heatmap.Weeks; week++ {
			cell := grid[[2]int{day, week}]
			sb.WriteString(heatStyle(cell.Intensity).Render("■ "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n  ")
	sb.WriteString(dimStyle.Render("less "))
	for _, style := range heatCellStyles {
		sb.WriteString(style.Render("■ "))
	}
	sb.WriteString(dimStyle.Render("more"))
	sb.WriteString("\n")
	return sb.String()
}

func heatStyle(intensity float64) lipgloss.Style {
	switch {
	case intensity == 0:
		return heatCellStyles[0]
	case intensity < 0.25:
		return heatCellStyles[1]
	case intensity < 0.5:
		return heatCellStyles[2]
	case intensity < 0.75:
		return heatCellStyles[3]
	default:
		return heatCellStyles[4]
	}
}

func (m Model) renderLanguages() string {
	breakdown := viz.GenerateLanguageBreakdown(m.profile)

	var sb strings.Builder
	sb.WriteString(sectionHeader.Render("Languages"))
	sb.WriteString("\n\n")
	if len(breakdown) == 0 {
		sb.WriteString(dimStyle.Render("  no language data yet"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, lang := range breakdown {
		bar := strings.Repeat("█", int(lang.Percentage/4)+1)
		fmt.Fprintf(&sb, "  %s %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-12s", lang.Language)),
			lipgloss.NewStyle().Foreground(lipgloss.Color(lang.Color)).Render(bar),
			dimStyle.Render(fmt.Sprintf("%5.1f%% · %s", lang.Percentage, formatDuration(lang.TimeMs))))
	}
	return sb.String()
}

func (m Model) renderCommits() string {
	correlations := correlate.CommitCorrelations(m.profile)

	var sb strings.Builder
	sb.WriteString(sectionHeader.Render("Commits"))
	sb.WriteString("\n\n")
	if len(correlations) == 0 {
		sb.WriteString(dimStyle.Render("  no commits recorded"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, c := range correlations {
		fmt.Fprintf(&sb, "  %s %s\n", timeStyle.Render(c.Commit.ShortHash), firstLine(c.Commit.Message))
		detail := fmt.Sprintf("    %s · session %d · %s",
			c.Commit.Timestamp.UTC().Format("2006-01-02 15:04"),
			c.Session.SessionID,
			formatDuration(c.Session.DurationMs))
		if c.Session.PrimaryLanguage != "" {
			detail += " · " + c.Session.PrimaryLanguage
		}
		sb.WriteString(dimStyle.Render(detail))
		sb.WriteString("\n")
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// Run opens the dashboard in the alternate screen until the user quits.
func Run(p *profile.GrowthProfile, weeks int, today profile.Date) error {
	prog := tea.NewProgram(New(p, weeks, today), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

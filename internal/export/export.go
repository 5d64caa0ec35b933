package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dendro-dev/dendro/internal/correlate"
	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/viz"
)

// markdownCommitLimit bounds the commit list in Markdown reports.
const markdownCommitLimit = 10

// JSON renders the (optionally filtered) profile as indented JSON.
func JSON(p *profile.GrowthProfile, opts Options) (string, error) {
	filtered := filterProfile(p, opts)
	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	return string(data), nil
}

// Markdown renders a human-readable growth report with an embedded base64
// JSON payload so the report can be parsed back losslessly (see
// ParseMarkdownReport). The output is a deterministic function of the
// profile content.
func Markdown(p *profile.GrowthProfile, opts Options) (string, error) {
	filtered := filterProfile(p, opts)

	payload, err := json.Marshal(filtered)
	if err != nil {
		return "", fmt.Errorf("encoding report payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	var sb strings.Builder
	sb.WriteString("<!-- dendro-report-version: 1 -->\n")
	fmt.Fprintf(&sb, "<!-- dendro-profile: %s -->\n\n", encoded)

	sb.WriteString("# Growth Report\n\n")
	fmt.Fprintf(&sb, "**Profile ID:** `%s`\n", filtered.ID)
	fmt.Fprintf(&sb, "**Created:** %s\n\n", filtered.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	ls := filtered.LifetimeStats
	sb.WriteString("## Lifetime Statistics\n\n")
	fmt.Fprintf(&sb, "- **Total Active Time:** %s\n", formatDuration(ls.TotalTimeMs))
	fmt.Fprintf(&sb, "- **Total Sessions:** %d\n", ls.TotalSessions)
	fmt.Fprintf(&sb, "- **Total Keystrokes:** %d\n", ls.TotalKeystrokes)
	fmt.Fprintf(&sb, "- **Total Commits:** %d\n", ls.TotalCommits)
	fmt.Fprintf(&sb, "- **Current Streak:** %d days\n", ls.CurrentStreak)
	fmt.Fprintf(&sb, "- **Longest Streak:** %d days\n\n", ls.LongestStreak)

	sb.WriteString("## Language Breakdown\n\n")
	breakdown := viz.GenerateLanguageBreakdown(filtered)
	if len(breakdown) == 0 {
		sb.WriteString("_No language data recorded._\n")
	} else {
		for _, lang := range breakdown {
			fmt.Fprintf(&sb, "- **%s**: %s (%.1f%%)\n", lang.Language, formatDuration(lang.TimeMs), lang.Percentage)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Daily Activity\n\n")
	if len(filtered.DailyAggregates) == 0 {
		sb.WriteString("_No activity recorded._\n")
	} else {
		sb.WriteString("| Date | Time | Sessions | Keystrokes | Commits |\n")
		sb.WriteString("|------|------|----------|------------|---------|\n")
		for i := len(filtered.DailyAggregates) - 1; i >= 0; i-- {
			agg := filtered.DailyAggregates[i]
			fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d |\n",
				agg.Date, formatDuration(agg.TotalTimeMs), agg.SessionsCount,
				agg.TotalKeystrokes, agg.CommitsCount)
		}
	}
	sb.WriteString("\n")

	if opts.IncludeCommits {
		sb.WriteString("## Recent Commits\n\n")
		correlations := correlate.CommitCorrelations(filtered)
		if len(correlations) == 0 {
			sb.WriteString("_No commits recorded._\n")
		} else {
			if len(correlations) > markdownCommitLimit {
				correlations = correlations[:markdownCommitLimit]
			}
			for _, c := range correlations {
				fmt.Fprintf(&sb, "- `%s` %s (%s)\n",
					c.Commit.ShortHash, firstLine(c.Commit.Message),
					c.Commit.Timestamp.UTC().Format("2006-01-02"))
			}
		}
		sb.WriteString("\n")
	}

	if opts.IncludeFiles {
		sb.WriteString("## Files Touched\n\n")
		files := distinctFiles(filtered)
		if len(files) == 0 {
			sb.WriteString("_No file edits recorded._\n")
		} else {
			for _, f := range files {
				fmt.Fprintf(&sb, "- %s\n", f)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// distinctFiles lists every file edited across the stored sessions,
// first-seen order.
func distinctFiles(p *profile.GrowthProfile) []string {
	seen := map[string]struct{}{}
	files := []string{}
	for _, stored := range p.Sessions {
		for _, f := range stored.Session.FilesEdited {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// formatDuration renders milliseconds as "3h 25m".
func formatDuration(ms int64) string {
	hours := ms / 1000 / 3600
	minutes := ms / 1000 / 60 % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

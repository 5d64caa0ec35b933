package viz

import (
	"sort"
	"strings"

	"github.com/dendro-dev/dendro/internal/profile"
)

// LanguageStat is one language's share of lifetime coding time.
type LanguageStat struct {
	Language   string  `json:"language"`
	TimeMs     int64   `json:"time_ms"`
	FilesCount int     `json:"files_count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// GenerateLanguageBreakdown sums languages across the lifetime stats,
// sorted descending by time (name ascending on ties). Percentages are all
// 0 when no time was recorded at all. The files count attributes each
// session's distinct edited files to that session's primary language,
// which is the finest attribution the profile document carries.
func GenerateLanguageBreakdown(p *profile.GrowthProfile) []LanguageStat {
	var total int64
	for _, ms := range p.LifetimeStats.Languages {
		total += ms
	}

	filesByLang := countFilesByPrimaryLanguage(p)

	stats := make([]LanguageStat, 0, len(p.LifetimeStats.Languages))
	for lang, ms := range p.LifetimeStats.Languages {
		var pct float64
		if total > 0 {
			pct = float64(ms) / float64(total) * 100
		}
		stats = append(stats, LanguageStat{
			Language:   lang,
			TimeMs:     ms,
			FilesCount: filesByLang[lang],
			Percentage: pct,
			Color:      LanguageColor(lang),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TimeMs != stats[j].TimeMs {
			return stats[i].TimeMs > stats[j].TimeMs
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}

func countFilesByPrimaryLanguage(p *profile.GrowthProfile) map[string]int {
	seen := map[string]map[string]struct{}{}
	for _, stored := range p.Sessions {
		lang := stored.Session.PrimaryLanguage()
		if lang == "" {
			continue
		}
		files := seen[lang]
		if files == nil {
			files = map[string]struct{}{}
			seen[lang] = files
		}
		for _, f := range stored.Session.FilesEdited {
			files[f] = struct{}{}
		}
	}
	counts := make(map[string]int, len(seen))
	for lang, files := range seen {
		counts[lang] = len(files)
	}
	return counts
}

// languageColors keys lowercase language names to display colors.
var languageColors = map[string]string{
	"typescript": "#3178c6",
	"javascript": "#f7df1e",
	"python":     "#3776ab",
	"rust":       "#dea584",
	"go":         "#00add8",
	"java":       "#b07219",
	"csharp":     "#239120",
	"c#":         "#239120",
	"cpp":        "#f34b7d",
	"c++":        "#f34b7d",
	"ruby":       "#cc342d",
	"swift":      "#fa7343",
	"kotlin":     "#a97bff",
}

// otherColor is the fallback for languages outside the fixed table.
const otherColor = "#6e7681"

// LanguageColor maps a language name (case-insensitive) to its display
// color, falling back to the "other" color for unknown languages.
func LanguageColor(language string) string {
	if c, ok := languageColors[strings.ToLower(language)]; ok {
		return c
	}
	return otherColor
}

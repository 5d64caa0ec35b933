// Package correlate pairs recorded commits with the sessions they were
// made in. Read-only over a profile value.
package correlate

import (
	"sort"
	"time"

	"github.com/dendro-dev/dendro/internal/profile"
	"github.com/dendro-dev/dendro/internal/session"
)

// SessionSummary is the lightweight session view attached to each
// correlation.
type SessionSummary struct {
	SessionID       uint64     `json:"session_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMs      int64      `json:"duration_ms"`
	PrimaryLanguage string     `json:"primary_language,omitempty"`
}

// Correlation pairs one commit with the session/time window it occurred
// in, plus the files the commit and session touched in common.
type Correlation struct {
	Commit        session.CommitRef `json:"commit"`
	Session       SessionSummary    `json:"session_summary"`
	FilesInCommon []string          `json:"files_in_common"`
}

// CommitCorrelations walks every commit of every stored session, most
// recent commit first (by commit timestamp, stable across equal stamps).
func CommitCorrelations(p *profile.GrowthProfile) []Correlation {
	out := []Correlation{}
	for _, stored := range p.Sessions {
		s := stored.Session
		end := s.StartedAt
		if s.EndedAt != nil {
			end = *s.EndedAt
		}
		summary := SessionSummary{
			SessionID:       s.ID,
			StartedAt:       s.StartedAt,
			EndedAt:         s.EndedAt,
			DurationMs:      s.TotalDurationMs(end),
			PrimaryLanguage: s.PrimaryLanguage(),
		}
		for _, commit := range s.Commits {
			out = append(out, Correlation{
				Commit:        commit,
				Session:       summary,
				FilesInCommon: filesInCommon(s.FilesEdited, commit.FilesChanged),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Commit.Timestamp.After(out[j].Commit.Timestamp)
	})
	return out
}

// filesInCommon preserves the session's edit order.
func filesInCommon(edited, changed []string) []string {
	changedSet := make(map[string]struct{}, len(changed))
	for _, f := range changed {
		changedSet[f] = struct{}{}
	}
	common := []string{}
	for _, f := range edited {
		if _, ok := changedSet[f]; ok {
			common = append(common, f)
		}
	}
	return common
}

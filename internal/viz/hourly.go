package viz

import "github.com/dendro-dev/dendro/internal/profile"

// HourlyDistribution is a 24-bucket histogram of active time keyed by the
// UTC hour each session started in. Sessions carry finer-grained
// timestamps than daily buckets, so this reads the session list rather
// than the aggregates.
type HourlyDistribution struct {
	BucketsMs [24]int64 `json:"buckets_ms"`
	PeakHour  int       `json:"peak_hour"`
	TotalMs   int64     `json:"total_ms"`
}

// GenerateHourlyDistribution buckets every stored session's active time by
// its start hour. The peak hour ties toward the earliest hour.
func GenerateHourlyDistribution(p *profile.GrowthProfile) HourlyDistribution {
	var dist HourlyDistribution
	for _, stored := range p.Sessions {
		hour := stored.Session.StartedAt.UTC().Hour()
		dist.BucketsMs[hour] += stored.Session.ActiveTimeMs
		dist.TotalMs += stored.Session.ActiveTimeMs
	}
	for hour, ms := range dist.BucketsMs {
		if ms > dist.BucketsMs[dist.PeakHour] {
			dist.PeakHour = hour
		}
	}
	return dist
}

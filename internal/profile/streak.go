package profile

// Streaks derives the current and longest consecutive-active-day runs
// from the daily aggregates. A day is active iff it logged any time.
// The current streak is the run ending at the most recent active day,
// counted only when that day is today or yesterday: not having coded yet
// today keeps a streak alive, a gap of two or more days breaks it.
//
// Both values are recomputed in full on every merge; the history is years
// of daily entries at most, so O(n) is the simple and correct choice.
func Streaks(aggregates []DailyAggregate, today Date) (current, longest int) {
	dates := activeDates(aggregates)
	if len(dates) == 0 {
		return 0, 0
	}

	run := 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].DaysUntil(dates[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if longest == 0 {
		longest = 1
	}

	last := dates[len(dates)-1]
	if last.DaysUntil(today) <= 1 {
		current = 1
		for i := len(dates) - 2; i >= 0; i-- {
			if dates[i].DaysUntil(dates[i+1]) != 1 {
				break
			}
			current++
		}
	}

	if current > longest {
		longest = current
	}
	return current, longest
}

// activeDates returns the dates with nonzero activity, ascending.
// DailyAggregates are kept sorted by date, so no re-sort is needed.
func activeDates(aggregates []DailyAggregate) []Date {
	dates := make([]Date, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.TotalTimeMs > 0 {
			dates = append(dates, agg.Date)
		}
	}
	return dates
}

// Package analytics computes derived views over a user's win collection:
// streaks, badges, weekly aggregates, mood distribution and milestones.
//
// Every function is a pure, synchronous computation over the slice it is
// given; nothing is cached between calls. Functions whose result depends on
// the current day come in pairs: a convenience form using time.Now and an
// ...At form taking an explicit now, so callers and tests control the clock.
// Win slices follow the repository convention of newest first.
package analytics

import (
	"sort"
	"time"

	"tiny-wins-bot/internal/model"
)

// midnight normalizes t to the start of its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// uniqueDaysDesc returns the distinct calendar days present in wins,
// normalized to midnight in loc, most recent first.
func uniqueDaysDesc(wins []model.Win, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(wins))
	days := make([]time.Time, 0, len(wins))
	for _, w := range wins {
		d := midnight(w.CreatedAt, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[j].Before(days[i]) })
	return days
}

// CalculateStreak returns the user's current streak as of the wall clock.
func CalculateStreak(wins []model.Win) int {
	return CalculateStreakAt(wins, time.Now())
}

// CalculateStreakAt counts consecutive calendar days with at least one win,
// walking back from the most recent day logged. Multiple wins on the same day
// count once. A streak that was alive as of yesterday still reports as active
// even if nothing has been logged today; anything older means the streak is
// broken and the result is 0.
//
// Days are compared as calendar dates in now's location (AddDate, not
// elapsed-millisecond arithmetic), so DST transitions don't split a run.
func CalculateStreakAt(wins []model.Win, now time.Time) int {
	if len(wins) == 0 {
		return 0
	}

	loc := now.Location()
	days := uniqueDaysDesc(wins, loc)

	today := midnight(now, loc)
	yesterday := today.AddDate(0, 0, -1)
	if days[0].Before(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].AddDate(0, 0, 1).Equal(days[i-1]) {
			break
		}
		streak++
	}
	return streak
}

package analytics

import (
	"math"
	"time"

	"tiny-wins-bot/internal/model"
)

// DayStats describes a single day within the weekly window.
type DayStats struct {
	Date  time.Time // midnight, in the caller's location
	Count int
	Moods []string
}

// TopMood is the most used mood within a window.
type TopMood struct {
	Emoji string
	Count int
}

// WeeklyStats summarizes the trailing seven days ending today.
type WeeklyStats struct {
	Days          []DayStats // oldest first
	TotalWins     int
	TopMood       *TopMood // nil when the window has no wins
	AveragePerDay float64  // rounded to one decimal place
	// Streak counts trailing days with at least one win, walking back from
	// today and stopping at the first empty day. Being bounded by the window
	// it can differ from CalculateStreak, which also grants yesterday grace.
	Streak int
}

// GetWeeklyStats summarizes the trailing week as of the wall clock.
func GetWeeklyStats(wins []model.Win) WeeklyStats {
	return GetWeeklyStatsAt(wins, time.Now())
}

// GetWeeklyStatsAt builds per-day counts for the seven calendar days ending
// today (inclusive), oldest day first. The top mood is scoped to the window,
// with ties broken by first appearance walking the window oldest to newest.
func GetWeeklyStatsAt(wins []model.Win, now time.Time) WeeklyStats {
	loc := now.Location()
	today := midnight(now, loc)

	days := make([]DayStats, 0, 7)
	counts := make(map[string]int)
	var order []string
	total := 0

	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		var dayMoods []string
		for _, w := range wins {
			if !midnight(w.CreatedAt, loc).Equal(date) {
				continue
			}
			if counts[w.Mood] == 0 {
				order = append(order, w.Mood)
			}
			counts[w.Mood]++
			dayMoods = append(dayMoods, w.Mood)
		}
		total += len(dayMoods)
		days = append(days, DayStats{Date: date, Count: len(dayMoods), Moods: dayMoods})
	}

	var top *TopMood
	for _, emoji := range order {
		if top == nil || counts[emoji] > top.Count {
			top = &TopMood{Emoji: emoji, Count: counts[emoji]}
		}
	}

	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count == 0 {
			break
		}
		streak++
	}

	return WeeklyStats{
		Days:          days,
		TotalWins:     total,
		TopMood:       top,
		AveragePerDay: math.Round(float64(total)/7*10) / 10,
		Streak:        streak,
	}
}

// FormatDayLabel renders a day as "Today", "Yesterday" or a short weekday
// name, relative to now.
func FormatDayLabel(date, now time.Time) string {
	loc := now.Location()
	today := midnight(now, loc)
	switch d := midnight(date, loc); {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return d.Weekday().String()[:3]
	}
}

package analytics

import (
	"math"
	"sort"

	"tiny-wins-bot/internal/model"
)

// MoodCount is one row of a mood distribution.
type MoodCount struct {
	Emoji string
	Count int
	// Percentage is count/total rounded to the nearest integer. Rows are
	// rounded independently, so a distribution may sum to 99 or 101.
	Percentage int
}

// GetMoodDistribution tallies mood usage across wins, most used first, with
// ties keeping first-appearance order. The function is agnostic to how the
// slice was capped; callers pass either all wins or a recent slice. An empty
// collection yields an empty result.
func GetMoodDistribution(wins []model.Win) []MoodCount {
	if len(wins) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range wins {
		if counts[w.Mood] == 0 {
			order = append(order, w.Mood)
		}
		counts[w.Mood]++
	}

	total := len(wins)
	dist := make([]MoodCount, 0, len(order))
	for _, emoji := range order {
		dist = append(dist, MoodCount{
			Emoji:      emoji,
			Count:      counts[emoji],
			Percentage: int(math.Round(float64(counts[emoji]) / float64(total) * 100)),
		})
	}

	sort.SliceStable(dist, func(i, j int) bool { return dist[i].Count > dist[j].Count })
	return dist
}

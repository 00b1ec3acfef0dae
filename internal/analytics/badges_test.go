package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiny-wins-bot/internal/model"
)

func badgeIDs(badges []Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

// nWins builds n wins all logged today at noon with the same mood, newest
// first. Noon on a Wednesday earns no time-of-day or weekend badges.
func nWins(n int) []model.Win {
	wins := make([]model.Win, 0, n)
	for i := 0; i < n; i++ {
		wins = append(wins, winAt(0, 12, "😊"))
	}
	return wins
}

func TestEarnedBadgesAt_Empty(t *testing.T) {
	assert.Empty(t, EarnedBadgesAt(nil, testNow))
}

func TestEarnedBadgesAt_SingleWin(t *testing.T) {
	earned := badgeIDs(EarnedBadgesAt(nWins(1), testNow))

	assert.Contains(t, earned, "first_win")
	assert.NotContains(t, earned, "five_wins")
	assert.NotContains(t, earned, "ten_wins")
	assert.NotContains(t, earned, "three_day_streak")
}

func TestEarnedBadgesAt_CountThresholds(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		wantID string
	}{
		{"five wins", 5, "five_wins"},
		{"ten wins", 10, "ten_wins"},
		{"twenty five wins", 25, "twenty_five_wins"},
		{"fifty wins", 50, "fifty_wins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, badgeIDs(EarnedBadgesAt(nWins(tt.count), testNow)), tt.wantID)
			assert.NotContains(t, badgeIDs(EarnedBadgesAt(nWins(tt.count-1), testNow)), tt.wantID)
		})
	}
}

func TestEarnedBadgesAt_MoodVariety(t *testing.T) {
	moods := []string{"😊", "🥳", "😌", "💪", "🌟"}

	var wins []model.Win
	for _, m := range moods[:4] {
		wins = append(wins, winAt(0, 12, m))
	}
	assert.NotContains(t, badgeIDs(EarnedBadgesAt(wins, testNow)), "mood_variety")

	wins = append(wins, winAt(0, 12, moods[4]))
	assert.Contains(t, badgeIDs(EarnedBadgesAt(wins, testNow)), "mood_variety")
}

func TestEarnedBadgesAt_StreakBadges(t *testing.T) {
	var wins []model.Win
	for i := 0; i < 7; i++ {
		wins = append(wins, winAt(i, 12, "😊"))
	}

	earned := badgeIDs(EarnedBadgesAt(wins, testNow))
	assert.Contains(t, earned, "three_day_streak")
	assert.Contains(t, earned, "seven_day_streak")
	assert.NotContains(t, earned, "fourteen_day_streak")
}

func TestEarnedBadgesAt_TimeOfDay(t *testing.T) {
	early := []model.Win{winAt(0, 7, "😊")}
	assert.Contains(t, badgeIDs(EarnedBadgesAt(early, testNow)), "early_bird")
	assert.NotContains(t, badgeIDs(EarnedBadgesAt(early, testNow)), "night_owl")

	late := []model.Win{winAt(0, 23, "😊")}
	assert.Contains(t, badgeIDs(EarnedBadgesAt(late, testNow)), "night_owl")
	assert.NotContains(t, badgeIDs(EarnedBadgesAt(late, testNow)), "early_bird")
}

func TestEarnedBadgesAt_WeekendWarrior(t *testing.T) {
	// testNow is Wednesday 2025-06-18; 4 days ago is Saturday, 3 is Sunday.
	satOnly := []model.Win{winAt(4, 12, "😊")}
	assert.NotContains(t, badgeIDs(EarnedBadgesAt(satOnly, testNow)), "weekend_warrior")

	both := []model.Win{winAt(3, 12, "😊"), winAt(4, 12, "😊")}
	assert.Contains(t, badgeIDs(EarnedBadgesAt(both, testNow)), "weekend_warrior")
}

// Earned badges keep catalog order regardless of which win unlocked what.
func TestEarnedBadgesAt_CatalogOrder(t *testing.T) {
	var wins []model.Win
	for i := 0; i < 10; i++ {
		wins = append(wins, winAt(0, 12, "😊"))
	}

	earned := badgeIDs(EarnedBadgesAt(wins, testNow))

	pos := make(map[string]int)
	for i, b := range Catalog() {
		pos[b.ID] = i
	}
	for i := 1; i < len(earned); i++ {
		assert.Less(t, pos[earned[i-1]], pos[earned[i]])
	}
}

func TestNextBadgesAt(t *testing.T) {
	next := NextBadgesAt(nil, testNow)
	require.Len(t, next, 3)
	assert.Equal(t, []string{"first_win", "five_wins", "ten_wins"}, badgeIDs(next))

	next = NextBadgesAt(nWins(1), testNow)
	require.Len(t, next, 3)
	assert.Equal(t, []string{"five_wins", "ten_wins", "twenty_five_wins"}, badgeIDs(next))
}

func TestNewlyEarnedBadge(t *testing.T) {
	t.Run("fifth win unlocks high five", func(t *testing.T) {
		badge := NewlyEarnedBadge(nWins(4), winAt(0, 12, "😊"), testNow)
		require.NotNil(t, badge)
		assert.Equal(t, "five_wins", badge.ID)
	})

	t.Run("seventh win crosses nothing", func(t *testing.T) {
		assert.Nil(t, NewlyEarnedBadge(nWins(6), winAt(0, 12, "😊"), testNow))
	})

	t.Run("first ever win", func(t *testing.T) {
		badge := NewlyEarnedBadge(nil, winAt(0, 12, "😊"), testNow)
		require.NotNil(t, badge)
		assert.Equal(t, "first_win", badge.ID)
	})

	t.Run("late win can unlock night owl", func(t *testing.T) {
		badge := NewlyEarnedBadge(nWins(1), winAt(0, 23, "😊"), testNow)
		require.NotNil(t, badge)
		assert.Equal(t, "night_owl", badge.ID)
	})
}

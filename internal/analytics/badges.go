package analytics

import (
	"time"

	"tiny-wins-bot/internal/model"
)

// Rarity grades how hard a badge is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is an achievement unlocked when its condition holds over the full
// win collection.
type Badge struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Rarity      Rarity
	Condition   func(wins []model.Win, now time.Time) bool
}

// Catalog returns the badge catalog in display order. Earned and "up next"
// views preserve this order; badges are never re-sorted by rarity or recency.
func Catalog() []Badge {
	return []Badge{
		{
			ID:          "first_win",
			Name:        "First Step",
			Description: "Record your very first tiny win",
			Emoji:       "🌱",
			Rarity:      RarityCommon,
			Condition:   minCount(1),
		},
		{
			ID:          "five_wins",
			Name:        "High Five",
			Description: "Collect 5 tiny wins",
			Emoji:       "✋",
			Rarity:      RarityCommon,
			Condition:   minCount(5),
		},
		{
			ID:          "ten_wins",
			Name:        "Perfect Ten",
			Description: "Collect 10 tiny wins",
			Emoji:       "🔟",
			Rarity:      RarityRare,
			Condition:   minCount(10),
		},
		{
			ID:          "twenty_five_wins",
			Name:        "Quarter Century",
			Description: "Collect 25 tiny wins",
			Emoji:       "🏆",
			Rarity:      RarityEpic,
			Condition:   minCount(25),
		},
		{
			ID:          "fifty_wins",
			Name:        "Half Century",
			Description: "Collect 50 tiny wins",
			Emoji:       "👑",
			Rarity:      RarityLegendary,
			Condition:   minCount(50),
		},
		{
			ID:          "mood_variety",
			Name:        "Mood Master",
			Description: "Use 5 different mood emojis",
			Emoji:       "🎭",
			Rarity:      RarityRare,
			Condition: func(wins []model.Win, _ time.Time) bool {
				moods := make(map[string]struct{})
				for _, w := range wins {
					moods[w.Mood] = struct{}{}
				}
				return len(moods) >= 5
			},
		},
		{
			ID:          "three_day_streak",
			Name:        "On a Roll",
			Description: "Add wins 3 days in a row",
			Emoji:       "🔥",
			Rarity:      RarityCommon,
			Condition:   minStreak(3),
		},
		{
			ID:          "seven_day_streak",
			Name:        "Week Warrior",
			Description: "Add wins 7 days in a row",
			Emoji:       "⚡",
			Rarity:      RarityRare,
			Condition:   minStreak(7),
		},
		{
			ID:          "fourteen_day_streak",
			Name:        "Unstoppable",
			Description: "Add wins 14 days in a row",
			Emoji:       "💫",
			Rarity:      RarityEpic,
			Condition:   minStreak(14),
		},
		{
			ID:          "thirty_day_streak",
			Name:        "Legend",
			Description: "Add wins 30 days in a row",
			Emoji:       "🌟",
			Rarity:      RarityLegendary,
			Condition:   minStreak(30),
		},
		{
			ID:          "early_bird",
			Name:        "Early Bird",
			Description: "Add a win before 8 AM",
			Emoji:       "🐦",
			Rarity:      RarityCommon,
			Condition: func(wins []model.Win, now time.Time) bool {
				loc := now.Location()
				for _, w := range wins {
					if w.CreatedAt.In(loc).Hour() < 8 {
						return true
					}
				}
				return false
			},
		},
		{
			ID:          "night_owl",
			Name:        "Night Owl",
			Description: "Add a win after 10 PM",
			Emoji:       "🦉",
			Rarity:      RarityCommon,
			Condition: func(wins []model.Win, now time.Time) bool {
				loc := now.Location()
				for _, w := range wins {
					if w.CreatedAt.In(loc).Hour() >= 22 {
						return true
					}
				}
				return false
			},
		},
		{
			ID:          "weekend_warrior",
			Name:        "Weekend Warrior",
			Description: "Add wins on both Saturday and Sunday",
			Emoji:       "🎉",
			Rarity:      RarityRare,
			Condition: func(wins []model.Win, now time.Time) bool {
				loc := now.Location()
				var sat, sun bool
				for _, w := range wins {
					switch w.CreatedAt.In(loc).Weekday() {
					case time.Saturday:
						sat = true
					case time.Sunday:
						sun = true
					}
				}
				return sat && sun
			},
		},
	}
}

func minCount(n int) func([]model.Win, time.Time) bool {
	return func(wins []model.Win, _ time.Time) bool {
		return len(wins) >= n
	}
}

func minStreak(n int) func([]model.Win, time.Time) bool {
	return func(wins []model.Win, now time.Time) bool {
		return CalculateStreakAt(wins, now) >= n
	}
}

// EarnedBadges returns the badges currently held, as of the wall clock.
func EarnedBadges(wins []model.Win) []Badge {
	return EarnedBadgesAt(wins, time.Now())
}

// EarnedBadgesAt filters the catalog to badges whose condition holds,
// in catalog order. An empty collection yields an empty result.
func EarnedBadgesAt(wins []model.Win, now time.Time) []Badge {
	var earned []Badge
	for _, b := range Catalog() {
		if b.Condition(wins, now) {
			earned = append(earned, b)
		}
	}
	return earned
}

// NextBadges returns up to the first 3 unearned badges, as of the wall clock.
func NextBadges(wins []model.Win) []Badge {
	return NextBadgesAt(wins, time.Now())
}

// NextBadgesAt returns up to the first 3 unearned badges in catalog order.
// This is a simple preview, not a nearest-to-achieving ranking.
func NextBadgesAt(wins []model.Win, now time.Time) []Badge {
	var next []Badge
	for _, b := range Catalog() {
		if !b.Condition(wins, now) {
			next = append(next, b)
			if len(next) == 3 {
				break
			}
		}
	}
	return next
}

// NewlyEarnedBadge returns the first badge unlocked by adding a single win to
// the previous collection, or nil if the insertion crossed no threshold. It
// compares the earned set before and after exactly one insertion; callers pass
// the collection as it was before the win was saved plus the win itself.
func NewlyEarnedBadge(previous []model.Win, added model.Win, now time.Time) *Badge {
	current := make([]model.Win, 0, len(previous)+1)
	current = append(current, added)
	current = append(current, previous...)

	before := make(map[string]struct{})
	for _, b := range EarnedBadgesAt(previous, now) {
		before[b.ID] = struct{}{}
	}
	for _, b := range EarnedBadgesAt(current, now) {
		if _, ok := before[b.ID]; !ok {
			return &b
		}
	}
	return nil
}

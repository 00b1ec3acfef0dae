package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/analytics"
	"tiny-wins-bot/internal/service"
)

// jarFillWidth is how many cells the /jar progress bar uses.
const jarFillWidth = 10

// StatsHandler handles streak, weekly, mood and badge commands.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// HandleStreak handles the /streak command.
func (h *StatsHandler) HandleStreak(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	streak, err := h.statsService.Streak(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your streak, please try again later")
	}

	switch {
	case streak == 0:
		return c.Reply("🕯 No streak yet. Log a win today with /win <text>")
	case streak == 1:
		return c.Reply("🔥 1 day streak. Come back tomorrow to keep it alive!")
	default:
		return c.Reply(fmt.Sprintf("🔥 %d day streak. Keep it going!", streak))
	}
}

// HandleStats handles the /stats command.
// Shows the trailing seven days as a bar per day plus totals.
func (h *StatsHandler) HandleStats(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	stats, now, err := h.statsService.Weekly(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your stats, please try again later")
	}

	msg := "📈 Your week\n"
	msg += "━━━━━━━━━━━━━━━\n"
	for _, day := range stats.Days {
		label := analytics.FormatDayLabel(day.Date, now)
		bar := strings.Repeat("▰", day.Count)
		if day.Count == 0 {
			bar = "▱"
		}
		msg += fmt.Sprintf("%-9s %s %d\n", label, bar, day.Count)
	}
	msg += "━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("🏺 Total: %d win(s)\n", stats.TotalWins)
	msg += fmt.Sprintf("📊 Average: %.1f per day\n", stats.AveragePerDay)
	if stats.TopMood != nil {
		msg += fmt.Sprintf("%s Top mood: %d time(s)\n", stats.TopMood.Emoji, stats.TopMood.Count)
	}
	msg += fmt.Sprintf("🔥 Streak this week: %d day(s)", stats.Streak)

	return c.Reply(msg)
}

// HandleMoods handles the /moods command.
// Shows how your recent wins split across the mood palette.
func (h *StatsHandler) HandleMoods(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	dist, err := h.statsService.MoodDistribution(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your moods, please try again later")
	}

	if len(dist) == 0 {
		return c.Reply("🏺 No wins yet, so no moods to show. Start with /win <text>")
	}

	msg := "🎭 Your moods\n"
	msg += "━━━━━━━━━━━━━━━\n"
	for _, mc := range dist {
		msg += fmt.Sprintf("%s %3d%%  (%d)\n", mc.Emoji, mc.Percentage, mc.Count)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandleBadges handles the /badges command.
// Lists earned badges and a preview of the next ones to chase.
func (h *StatsHandler) HandleBadges(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	report, err := h.statsService.Badges(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your badges, please try again later")
	}

	msg := fmt.Sprintf("🏅 Badges (%d/%d)\n", len(report.Earned), len(analytics.Catalog()))
	msg += "━━━━━━━━━━━━━━━\n"
	if len(report.Earned) == 0 {
		msg += "None yet. Your first win earns one!\n"
	}
	for _, b := range report.Earned {
		msg += fmt.Sprintf("%s %s — %s\n", b.Emoji, b.Name, b.Description)
	}
	if len(report.Next) > 0 {
		msg += "\n🔜 Up next:\n"
		for _, b := range report.Next {
			msg += fmt.Sprintf("%s %s — %s\n", b.Emoji, b.Name, b.Description)
		}
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandleJar handles the /jar command.
// Shows the jar filling up toward the next milestone.
func (h *StatsHandler) HandleJar(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	summary, err := h.statsService.Summarize(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your jar, please try again later")
	}

	msg := "🏺 Your jar\n"
	msg += "━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("Wins: %d\n", summary.Count)

	if summary.NextMilestone != nil {
		next := summary.NextMilestone
		filled := summary.Count * jarFillWidth / next.Count
		if filled > jarFillWidth {
			filled = jarFillWidth
		}
		bar := strings.Repeat("▰", filled) + strings.Repeat("▱", jarFillWidth-filled)
		msg += fmt.Sprintf("%s %s %d/%d\n", next.Emoji, bar, summary.Count, next.Count)
		msg += fmt.Sprintf("%d more win(s) to your next milestone!", next.Count-summary.Count)
	} else {
		msg += "👑 Every milestone reached. Legendary!"
	}

	return c.Reply(msg)
}

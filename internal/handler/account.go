// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService *service.AccountService
	statsService   *service.StatsService
	winService     *service.WinService
	jarService     *service.JarService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accountService *service.AccountService,
	statsService *service.StatsService,
	winService *service.WinService,
	jarService *service.JarService,
) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		statsService:   statsService,
		winService:     winService,
		jarService:     jarService,
	}
}

// HandleStart handles the /start command.
// Creates a free-tier account if the user doesn't exist yet.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	user, created, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Reply("❌ Could not set up your account, please try again later")
	}

	if created {
		return c.Reply(fmt.Sprintf(
			"🎉 Welcome, @%s!\n\n"+
				"This is your tiny wins jar. Log one small good thing a day and "+
				"watch your streak grow.\n\n"+
				"Commands:\n"+
				"/win <text> - log a tiny win\n"+
				"/wins - recent wins\n"+
				"/streak - current streak\n"+
				"/stats - weekly summary\n"+
				"/moods - mood distribution\n"+
				"/badges - earned badges\n"+
				"/jar - jar progress\n"+
				"/jars - manage jars\n"+
				"/undo - remove your last win\n\n"+
				"Free accounts can hold %d wins and %d jar.",
			username, h.winService.FreeWinLimit(), h.jarService.FreeJarLimit(),
		))
	}

	return c.Reply(fmt.Sprintf(
		"👋 Welcome back, @%s!\n\n"+
			"Log today's win with /win <text>",
		user.Username,
	))
}

// HandleMe handles the /me command.
// Displays the account overview: tier, win count, streak, next milestone.
func (h *AccountHandler) HandleMe(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		username := sender.Username
		if username == "" {
			username = sender.FirstName
		}
		user, _, err = h.accountService.EnsureUser(ctx, sender.ID, username)
		if err != nil {
			return c.Reply("❌ Could not load your account, please try again later")
		}
	}

	summary, err := h.statsService.Summarize(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your stats, please try again later")
	}

	tier := "Free"
	if user.IsPro {
		tier = "Pro ✨"
	}

	msg := "📊 Your jar\n"
	msg += "━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("👤 User: @%s\n", user.Username)
	msg += fmt.Sprintf("💎 Tier: %s\n", tier)
	msg += fmt.Sprintf("🏺 Wins: %d", summary.Count)
	if !user.IsPro {
		msg += fmt.Sprintf(" / %d", h.winService.FreeWinLimit())
	}
	msg += "\n"
	msg += fmt.Sprintf("🔥 Streak: %d day(s)\n", summary.Streak)
	if summary.NextMilestone != nil {
		msg += fmt.Sprintf("%s Next milestone: %d wins\n",
			summary.NextMilestone.Emoji, summary.NextMilestone.Count)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandlePro handles the /pro command.
// Explains the pro tier; upgrades happen through an admin.
func (h *AccountHandler) HandlePro(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err == nil && user.IsPro {
		return c.Reply("✨ You are already on Pro. Unlimited wins, unlimited jars!")
	}

	return c.Reply(fmt.Sprintf(
		"✨ Tiny Wins Pro\n"+
			"━━━━━━━━━━━━━━━\n"+
			"Free accounts hold up to %d wins and %d jar.\n\n"+
			"Pro removes both limits:\n"+
			"• Unlimited wins\n"+
			"• Unlimited jars\n\n"+
			"Ask an admin to upgrade your account.",
		h.winService.FreeWinLimit(), h.jarService.FreeJarLimit(),
	))
}

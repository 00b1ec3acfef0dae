package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/service"
)

// AdminHandler handles admin-only commands.
type AdminHandler struct {
	accountService *service.AccountService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

// parseTargetID extracts the target Telegram user ID from command arguments.
func parseTargetID(c tele.Context) (int64, error) {
	args := c.Args()
	if len(args) < 1 {
		return 0, fmt.Errorf("missing user ID argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %s", args[0])
	}
	return id, nil
}

// HandleAdminPro handles the /admin_pro command.
// Format: /admin_pro <telegram_id>. Upgrades the account to Pro.
func (h *AdminHandler) HandleAdminPro(c tele.Context) error {
	return h.setTier(c, true)
}

// HandleAdminFree handles the /admin_free command.
// Format: /admin_free <telegram_id>. Downgrades the account to the free tier.
func (h *AdminHandler) HandleAdminFree(c tele.Context) error {
	return h.setTier(c, false)
}

func (h *AdminHandler) setTier(c tele.Context, isPro bool) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	targetID, err := parseTargetID(c)
	if err != nil {
		return c.Reply("❌ " + err.Error())
	}

	user, err := h.accountService.SetPro(ctx, targetID, isPro)
	if err != nil {
		return c.Reply("❌ Operation failed, the user may not exist")
	}

	tier := "Free"
	if isPro {
		tier = "Pro"
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", targetID).
		Str("tier", tier).
		Msg("Admin changed account tier")

	return c.Reply(fmt.Sprintf(
		"✅ @%s (ID: %d) is now on %s",
		user.Username, targetID, tier,
	))
}

// HandleAdminStats handles the /admin_stats command.
// Shows global totals.
func (h *AdminHandler) HandleAdminStats(c tele.Context) error {
	ctx := context.Background()

	users, wins, err := h.accountService.Totals(ctx)
	if err != nil {
		return c.Reply("❌ Could not load totals, please try again later")
	}

	return c.Reply(fmt.Sprintf(
		"📊 Totals\n"+
			"━━━━━━━━━━━━━━━\n"+
			"👥 Users: %d\n"+
			"🏺 Wins: %d\n"+
			"━━━━━━━━━━━━━━━",
		users, wins,
	))
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/model"
	"tiny-wins-bot/internal/pkg/lock"
	"tiny-wins-bot/internal/repository"
	"tiny-wins-bot/internal/service"
)

// JarCallbackPrefix prefixes all jar management callback data. The full
// format is jar_<action>_<jarID> with actions use, del, delok and keep.
const JarCallbackPrefix = "jar_"

// JarHandler handles jar management commands.
type JarHandler struct {
	accountService *service.AccountService
	jarService     *service.JarService
	winService     *service.WinService
	userLock       *lock.UserLock
}

// NewJarHandler creates a new JarHandler.
func NewJarHandler(
	accountService *service.AccountService,
	jarService *service.JarService,
	winService *service.WinService,
	userLock *lock.UserLock,
) *JarHandler {
	return &JarHandler{
		accountService: accountService,
		jarService:     jarService,
		winService:     winService,
		userLock:       userLock,
	}
}

// HandleJars handles the /jars command.
// Lists the user's jars with buttons to switch the active one.
func (h *JarHandler) HandleJars(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your jars, please try again later")
	}

	jars, err := h.jarService.ListJars(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Could not load your jars, please try again later")
	}

	if len(jars) == 0 {
		return c.Reply("🏺 No jars yet. Create one with /newjar <name>")
	}

	msg := "🏺 Your jars\n"
	msg += "━━━━━━━━━━━━━━━\n"
	markup := &tele.ReplyMarkup{}
	for _, jar := range jars {
		marker := "  "
		if user.ActiveJarID != nil && *user.ActiveJarID == jar.ID {
			marker = "▶ "
		}
		msg += fmt.Sprintf("%s%s\n", marker, jar.Name)
		markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{
			{Text: "Use " + jar.Name, Data: JarCallbackPrefix + "use_" + jar.ID},
			{Text: "🗑", Data: JarCallbackPrefix + "del_" + jar.ID},
		})
	}
	msg += "━━━━━━━━━━━━━━━\n"
	msg += "New wins land in the jar marked ▶"

	return c.Reply(msg, markup)
}

// HandleNewJar handles the /newjar command.
// Format: /newjar <name>. An empty name falls back to the default.
func (h *JarHandler) HandleNewJar(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	name := strings.TrimSpace(c.Message().Payload)

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	// Lock so the free-tier jar count check and the insert stay atomic.
	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, username); err != nil {
		return c.Reply("❌ Could not create the jar, please try again later")
	}

	jar, err := h.jarService.CreateJar(ctx, sender.ID, name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFreeJarLimit):
			return c.Reply(fmt.Sprintf(
				"🏺 Free accounts have %d jar. Ask an admin about Pro ✨ for more",
				h.jarService.FreeJarLimit(),
			))
		case errors.Is(err, service.ErrJarNameTooLong):
			return c.Reply("❌ That name is too long, keep it under 100 characters")
		}
		return c.Reply("❌ Could not create the jar, please try again later")
	}

	return c.Reply(fmt.Sprintf("🏺 Jar \"%s\" created. Select it from /jars", jar.Name))
}

// HandleRenameJar handles the /renamejar command.
// Format: /renamejar <new name>. Renames the active jar.
func (h *JarHandler) HandleRenameJar(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return c.Reply("✏️ What's the new name? Use: /renamejar <name>")
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil || user.ActiveJarID == nil {
		return c.Reply("🏺 No active jar. Pick one from /jars first")
	}

	if err := h.jarService.RenameJar(ctx, *user.ActiveJarID, sender.ID, name); err != nil {
		if errors.Is(err, service.ErrJarNameTooLong) {
			return c.Reply("❌ That name is too long, keep it under 100 characters")
		}
		return c.Reply("❌ Could not rename the jar, please try again later")
	}

	return c.Reply(fmt.Sprintf("🏺 Renamed to \"%s\"", name))
}

// findJarByName resolves one of the user's jars by its exact name.
func (h *JarHandler) findJarByName(ctx context.Context, userID int64, name string) (*model.Jar, error) {
	jars, err := h.jarService.ListJars(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, jar := range jars {
		if jar.Name == name {
			return jar, nil
		}
	}
	return nil, repository.ErrJarNotFound
}

// HandleUseJar handles the /usejar command.
// Format: /usejar <name>. Without a name, falls back to the /jars picker.
func (h *JarHandler) HandleUseJar(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return h.HandleJars(c)
	}

	jar, err := h.findJarByName(ctx, sender.ID, name)
	if err != nil {
		if errors.Is(err, repository.ErrJarNotFound) {
			return c.Reply(fmt.Sprintf("❌ No jar named \"%s\". See /jars", name))
		}
		return c.Reply("❌ Could not switch jars, please try again later")
	}

	if _, err := h.jarService.SetActiveJar(ctx, jar.ID, sender.ID); err != nil {
		return c.Reply("❌ Could not switch jars, please try again later")
	}

	return c.Reply(fmt.Sprintf("▶ New wins now land in \"%s\"", jar.Name))
}

// HandleDelJar handles the /deljar command.
// Format: /deljar <name>. Confirmation happens through the jar_ callbacks.
func (h *JarHandler) HandleDelJar(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	name := strings.TrimSpace(c.Message().Payload)
	if name == "" {
		return c.Reply("✏️ Which jar? Use: /deljar <name>, or pick 🗑 from /jars")
	}

	jar, err := h.findJarByName(ctx, sender.ID, name)
	if err != nil {
		if errors.Is(err, repository.ErrJarNotFound) {
			return c.Reply(fmt.Sprintf("❌ No jar named \"%s\". See /jars", name))
		}
		return c.Reply("❌ Could not load the jar, please try again later")
	}

	wins, err := h.winService.ListByJar(ctx, sender.ID, jar.ID)
	if err != nil {
		return c.Reply("❌ Could not load the jar, please try again later")
	}

	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "Yes, delete it", Data: JarCallbackPrefix + "delok_" + jar.ID},
		{Text: "Cancel", Data: JarCallbackPrefix + "keep_" + jar.ID},
	}}

	return c.Reply(fmt.Sprintf(
		"⚠️ Deleting \"%s\" also deletes the %d win(s) inside it, permanently.\n\n"+
			"Are you sure?",
		jar.Name, len(wins),
	), markup)
}

// HandleJarCallback routes jar_ callbacks: switching the active jar and the
// two-step delete.
func (h *JarHandler) HandleJarCallback(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	callback := c.Callback()
	if sender == nil || callback == nil {
		return nil
	}

	data := strings.TrimPrefix(strings.TrimPrefix(callback.Data, "\f"), JarCallbackPrefix)
	action, jarID, ok := strings.Cut(data, "_")
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown action"})
	}

	switch action {
	case "use":
		jar, err := h.jarService.SetActiveJar(ctx, jarID, sender.ID)
		if err != nil {
			if errors.Is(err, repository.ErrJarNotFound) {
				return c.Edit("❌ That jar no longer exists")
			}
			return c.Edit("❌ Could not switch jars, please try again later")
		}
		if err := c.Respond(&tele.CallbackResponse{Text: "Jar selected"}); err != nil {
			return err
		}
		return c.Edit(fmt.Sprintf("▶ New wins now land in \"%s\"", jar.Name))

	case "del":
		jar, err := h.jarService.GetJar(ctx, jarID, sender.ID)
		if err != nil {
			if errors.Is(err, repository.ErrJarNotFound) {
				return c.Edit("❌ That jar no longer exists")
			}
			return c.Edit("❌ Could not load the jar, please try again later")
		}
		wins, err := h.winService.ListByJar(ctx, sender.ID, jarID)
		if err != nil {
			return c.Edit("❌ Could not load the jar, please try again later")
		}
		markup := &tele.ReplyMarkup{}
		markup.InlineKeyboard = [][]tele.InlineButton{{
			{Text: "Yes, delete it", Data: JarCallbackPrefix + "delok_" + jarID},
			{Text: "Cancel", Data: JarCallbackPrefix + "use_" + jarID},
		}}
		return c.Edit(fmt.Sprintf(
			"⚠️ Deleting \"%s\" also deletes the %d win(s) inside it, permanently.\n\n"+
				"Are you sure?",
			jar.Name, len(wins),
		), markup)

	case "keep":
		return c.Edit("👍 Jar kept")

	case "delok":
		if err := h.jarService.DeleteJar(ctx, jarID, sender.ID); err != nil {
			if errors.Is(err, repository.ErrJarNotFound) {
				return c.Edit("❌ That jar no longer exists")
			}
			return c.Edit("❌ Could not delete the jar, please try again later")
		}
		if err := c.Respond(&tele.CallbackResponse{Text: "Jar deleted"}); err != nil {
			return err
		}
		return c.Edit("🗑 Jar deleted")

	default:
		return c.Respond(&tele.CallbackResponse{Text: "Unknown action"})
	}
}

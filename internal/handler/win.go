package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/analytics"
	"tiny-wins-bot/internal/model"
	"tiny-wins-bot/internal/pkg/lock"
	"tiny-wins-bot/internal/repository"
	"tiny-wins-bot/internal/service"
)

const (
	// WinMoodCallbackPrefix prefixes mood-picker callback data.
	WinMoodCallbackPrefix = "win_mood_"
	// ResetCallbackPrefix prefixes the /reset confirmation callbacks.
	ResetCallbackPrefix = "reset_"

	// pendingWinTTL bounds how long a typed win waits for its mood pick.
	pendingWinTTL = 10 * time.Minute

	recentWinsLimit = 10
)

// pendingWin is a typed win text waiting for the user to pick a mood.
type pendingWin struct {
	Text      string
	CreatedAt time.Time
}

// WinHandler handles win logging and listing commands.
type WinHandler struct {
	accountService *service.AccountService
	winService     *service.WinService
	statsService   *service.StatsService
	userLock       *lock.UserLock

	mu      sync.Mutex
	pending map[int64]pendingWin
}

// NewWinHandler creates a new WinHandler.
func NewWinHandler(
	accountService *service.AccountService,
	winService *service.WinService,
	statsService *service.StatsService,
	userLock *lock.UserLock,
) *WinHandler {
	return &WinHandler{
		accountService: accountService,
		winService:     winService,
		statsService:   statsService,
		userLock:       userLock,
		pending:        make(map[int64]pendingWin),
	}
}

// moodKeyboard builds the inline mood picker, two moods per row.
func moodKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	moods := model.Moods()

	var rows [][]tele.InlineButton
	for i := 0; i < len(moods); i += 2 {
		row := []tele.InlineButton{{
			Text: fmt.Sprintf("%s %s", moods[i].Emoji, moods[i].Label),
			Data: WinMoodCallbackPrefix + moods[i].Emoji,
		}}
		if i+1 < len(moods) {
			row = append(row, tele.InlineButton{
				Text: fmt.Sprintf("%s %s", moods[i+1].Emoji, moods[i+1].Label),
				Data: WinMoodCallbackPrefix + moods[i+1].Emoji,
			})
		}
		rows = append(rows, row)
	}

	markup.InlineKeyboard = rows
	return markup
}

// HandleWin handles the /win command.
// Format: /win <text>. Stores the text and asks for a mood via inline keyboard.
func (h *WinHandler) HandleWin(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Reply("✏️ What's your win? Use: /win <text>")
	}
	if utf8.RuneCountInString(text) > model.MaxWinTextLen {
		return c.Reply(fmt.Sprintf("❌ That's a bit long, keep it under %d characters", model.MaxWinTextLen))
	}

	h.mu.Lock()
	h.pending[sender.ID] = pendingWin{Text: text, CreatedAt: time.Now()}
	h.mu.Unlock()

	return c.Reply("How did it feel?", moodKeyboard())
}

// HandleMoodCallback finishes a pending /win once a mood button is pressed.
// The callback data carries the emoji after the win_mood_ prefix.
func (h *WinHandler) HandleMoodCallback(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	callback := c.Callback()
	if sender == nil || callback == nil {
		return nil
	}

	mood := strings.TrimPrefix(strings.TrimPrefix(callback.Data, "\f"), WinMoodCallbackPrefix)
	if !model.IsValidMood(mood) {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown mood"})
	}

	h.mu.Lock()
	pend, ok := h.pending[sender.ID]
	if ok {
		delete(h.pending, sender.ID)
	}
	h.mu.Unlock()

	if !ok || time.Since(pend.CreatedAt) > pendingWinTTL {
		if err := c.Respond(&tele.CallbackResponse{Text: "That win expired"}); err != nil {
			return err
		}
		return c.Edit("⌛ That one expired. Log it again with /win <text>")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	// Lock so the free-tier count check and the insert stay atomic.
	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	user, _, err := h.accountService.EnsureUser(ctx, sender.ID, username)
	if err != nil {
		return c.Edit("❌ Could not save your win, please try again later")
	}

	result, err := h.winService.AddWin(ctx, sender.ID, pend.Text, mood, user.ActiveJarID)
	if err != nil {
		if errors.Is(err, service.ErrFreeWinLimit) {
			return c.Edit(fmt.Sprintf(
				"🏺 Your jar is full! Free accounts hold %d wins.\n"+
					"Free a slot with /undo or /reset, or ask an admin about Pro ✨",
				h.winService.FreeWinLimit(),
			))
		}
		return c.Edit("❌ Could not save your win, please try again later")
	}

	if err := c.Respond(&tele.CallbackResponse{Text: "Win saved!"}); err != nil {
		return err
	}

	return c.Edit(h.formatCelebration(pend.Text, mood, result))
}

// formatCelebration builds the reply for a freshly saved win: affirmation,
// count, and any badge or milestone it unlocked.
func (h *WinHandler) formatCelebration(text, mood string, result *service.AddWinResult) string {
	msg := fmt.Sprintf("%s %s\n\n", mood, text)
	msg += fmt.Sprintf("✨ %s\n", result.Affirmation)
	msg += fmt.Sprintf("🏺 Win #%d in your jar\n", result.Count)

	if result.Milestone != nil {
		msg += fmt.Sprintf("\n%s %s\n", result.Milestone.Emoji, result.Milestone.Message)
	}
	if result.NewBadge != nil {
		msg += fmt.Sprintf("\n🏅 New badge: %s %s\n%s\n",
			result.NewBadge.Emoji, result.NewBadge.Name, result.NewBadge.Description)
	}
	if result.Milestone == nil && result.NextMilestone != nil {
		remaining := result.NextMilestone.Count - result.Count
		msg += fmt.Sprintf("%s %d more to your next milestone\n",
			result.NextMilestone.Emoji, remaining)
	}

	return strings.TrimRight(msg, "\n")
}

// HandleWins handles the /wins command.
// Lists the most recent wins grouped under day labels, newest first.
func (h *WinHandler) HandleWins(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	wins, err := h.winService.ListRecent(ctx, sender.ID, recentWinsLimit)
	if err != nil {
		return c.Reply("❌ Could not load your wins, please try again later")
	}

	if len(wins) == 0 {
		return c.Reply("🏺 Your jar is empty. Log your first win with /win <text>")
	}

	now := h.statsService.Now()

	msg := "🏺 Recent wins\n"
	msg += "━━━━━━━━━━━━━━━\n"
	var lastLabel string
	for _, w := range wins {
		label := analytics.FormatDayLabel(w.CreatedAt.In(now.Location()), now)
		if label != lastLabel {
			msg += fmt.Sprintf("📅 %s\n", label)
			lastLabel = label
		}
		msg += fmt.Sprintf("  %s %s\n", w.Mood, w.Text)
	}
	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}

// HandleUndo handles the /undo command.
// Permanently removes the most recent win.
func (h *WinHandler) HandleUndo(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	win, err := h.winService.UndoLatest(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, repository.ErrWinNotFound) {
			return c.Reply("🏺 Nothing to undo, your jar is empty")
		}
		return c.Reply("❌ Could not undo, please try again later")
	}

	return c.Reply(fmt.Sprintf("🗑 Removed: %s %s", win.Mood, win.Text))
}

// HandleReset handles the /reset command.
// Asks for confirmation before emptying the jar; deletion is permanent.
func (h *WinHandler) HandleReset(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "Yes, empty it", Data: ResetCallbackPrefix + "yes"},
		{Text: "Keep my wins", Data: ResetCallbackPrefix + "no"},
	}}

	return c.Reply(
		"⚠️ This permanently deletes every win in your jar. There is no way back.\n\n"+
			"Are you sure?",
		markup,
	)
}

// HandleResetCallback finishes the /reset confirmation.
func (h *WinHandler) HandleResetCallback(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	callback := c.Callback()
	if sender == nil || callback == nil {
		return nil
	}

	choice := strings.TrimPrefix(strings.TrimPrefix(callback.Data, "\f"), ResetCallbackPrefix)
	if choice != "yes" {
		return c.Edit("👍 Your wins are safe")
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	removed, err := h.winService.ClearAll(ctx, sender.ID)
	if err != nil {
		return c.Edit("❌ Could not reset, please try again later")
	}

	return c.Edit(fmt.Sprintf("🧹 Jar emptied, %d win(s) removed. Fresh start!", removed))
}

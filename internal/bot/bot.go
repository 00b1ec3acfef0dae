// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"tiny-wins-bot/internal/config"
	"tiny-wins-bot/internal/handler"
	"tiny-wins-bot/internal/pkg/lock"
	"tiny-wins-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	// Handlers
	accountHandler *handler.AccountHandler
	winHandler     *handler.WinHandler
	statsHandler   *handler.StatsHandler
	jarHandler     *handler.JarHandler
	adminHandler   *handler.AdminHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	WinService     *service.WinService
	JarService     *service.JarService
	StatsService   *service.StatsService
	UserLock       *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot: teleBot,
		cfg: deps.Config,
	}

	// Initialize handlers
	b.accountHandler = handler.NewAccountHandler(deps.AccountService, deps.StatsService, deps.WinService, deps.JarService)
	b.winHandler = handler.NewWinHandler(deps.AccountService, deps.WinService, deps.StatsService, deps.UserLock)
	b.statsHandler = handler.NewStatsHandler(deps.StatsService)
	b.jarHandler = handler.NewJarHandler(deps.AccountService, deps.JarService, deps.WinService, deps.UserLock)
	b.adminHandler = handler.NewAdminHandler(deps.AccountService)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/me", b.accountHandler.HandleMe)
	b.bot.Handle("/pro", b.accountHandler.HandlePro)

	// Win handlers
	b.bot.Handle("/win", b.winHandler.HandleWin)
	b.bot.Handle("/wins", b.winHandler.HandleWins)
	b.bot.Handle("/undo", b.winHandler.HandleUndo)
	b.bot.Handle("/reset", b.winHandler.HandleReset)

	// Stats handlers
	b.bot.Handle("/streak", b.statsHandler.HandleStreak)
	b.bot.Handle("/stats", b.statsHandler.HandleStats)
	b.bot.Handle("/moods", b.statsHandler.HandleMoods)
	b.bot.Handle("/badges", b.statsHandler.HandleBadges)
	b.bot.Handle("/jar", b.statsHandler.HandleJar)

	// Jar handlers
	b.bot.Handle("/jars", b.jarHandler.HandleJars)
	b.bot.Handle("/newjar", b.jarHandler.HandleNewJar)
	b.bot.Handle("/usejar", b.jarHandler.HandleUseJar)
	b.bot.Handle("/deljar", b.jarHandler.HandleDelJar)
	b.bot.Handle("/renamejar", b.jarHandler.HandleRenameJar)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_pro", b.adminHandler.HandleAdminPro)
	adminGroup.Handle("/admin_free", b.adminHandler.HandleAdminFree)
	adminGroup.Handle("/admin_stats", b.adminHandler.HandleAdminStats)

	// Generic callback handler for mood, jar and reset buttons
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes callbacks to appropriate handlers
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := callback.Data
	// Telebot v3 may add a \f prefix to callback data
	data = strings.TrimPrefix(data, "\f")

	log.Debug().Str("data", data).Msg("Callback received")

	switch {
	case strings.HasPrefix(data, handler.WinMoodCallbackPrefix):
		return b.winHandler.HandleMoodCallback(c)
	case strings.HasPrefix(data, handler.ResetCallbackPrefix):
		return b.winHandler.HandleResetCallback(c)
	case strings.HasPrefix(data, handler.JarCallbackPrefix):
		return b.jarHandler.HandleJarCallback(c)
	}

	log.Debug().Str("data", data).Msg("Unroutable callback ignored")
	return nil
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}

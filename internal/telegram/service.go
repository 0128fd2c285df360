// Package telegram wires the wizard, the store and the scheduler to the
// Telegram transport: command handlers, wizard effect rendering and the
// notification dispatcher.
package telegram

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/makxca/monitorzd/internal/match"
	"github.com/makxca/monitorzd/internal/model"
	"github.com/makxca/monitorzd/internal/store"
	"github.com/makxca/monitorzd/internal/wizard"
)

// Checker runs one on-demand evaluation for /check. The polling scheduler
// implements it.
type Checker interface {
	Evaluate(ctx context.Context, sub model.Subscription) (match.Result, error)
}

type Service struct {
	Sessions *wizard.Sessions
	Wizard   *wizard.Wizard
	Store    *store.Store
	Checker  Checker
	Logger   *slog.Logger

	mu            sync.Mutex
	selectionMsgs map[int64]int
}

func NewService(sessions *wizard.Sessions, wiz *wizard.Wizard, st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		Sessions:      sessions,
		Wizard:        wiz,
		Store:         st,
		Logger:        logger,
		selectionMsgs: make(map[int64]int),
	}
}

// Options returns the bot options that must be set at construction time.
func (s *Service) Options() []bot.Option {
	return []bot.Option{bot.WithDefaultHandler(s.handleMessage)}
}

// Register installs the command and callback handlers.
func (s *Service) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, s.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, s.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/subscribe", bot.MatchTypeExact, s.handleSubscribe)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, s.handleCancel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/back", bot.MatchTypeExact, s.handleBack)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypeExact, s.handleList)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/unsubscribe", bot.MatchTypeExact, s.handleUnsubscribe)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/check", bot.MatchTypeExact, s.handleCheck)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/whoisthis", bot.MatchTypeExact, s.handleWhoisthis)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, cbPrefix, bot.MatchTypePrefix, s.handleWizardCallback)
}

// SetCommands publishes the command menu.
func (s *Service) SetCommands(ctx context.Context, b *bot.Bot) {
	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "subscribe", Description: "Подписаться на рассылку. Проверки проводятся каждые 10 минут"},
			{Command: "list", Description: "Показать активную подписку"},
			{Command: "check", Description: "Проверить билеты прямо сейчас"},
			{Command: "unsubscribe", Description: "Отписаться от рассылки"},
		},
	})
	if err != nil {
		s.Logger.Warn("set bot commands failed", "err", err)
	}
}

func (s *Service) selectionMessage(chatID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selectionMsgs[chatID]
	return id, ok
}

func (s *Service) rememberSelectionMessage(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectionMsgs[chatID] = messageID
}

func (s *Service) forgetSelectionMessage(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selectionMsgs, chatID)
}

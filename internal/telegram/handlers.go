package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/go-telegram/ui/keyboard/inline"

	"github.com/makxca/monitorzd/internal/store"
	"github.com/makxca/monitorzd/internal/wizard"
)

// handleMessage receives everything without a registered handler. Free text
// belongs to the active wizard session; without one we only show usage.
func (s *Service) handleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session, ok := s.Sessions.Get(chatID)
	if !ok {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgUsage})
		return
	}

	effects := s.Wizard.Handle(ctx, session, wizard.TextInput{Text: update.Message.Text})
	s.render(ctx, b, chatID, effects)
}

func (s *Service) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	s.send(ctx, b, &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: msgUsage})
}

// handleSubscribe starts (or restarts) the wizard for this chat.
func (s *Service) handleSubscribe(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	s.forgetSelectionMessage(chatID)
	session := s.Sessions.Create(chatID)
	s.render(ctx, b, chatID, s.Wizard.Begin(session))
}

func (s *Service) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	session, ok := s.Sessions.Get(chatID)
	if !ok {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNothingToStop})
		return
	}
	s.render(ctx, b, chatID, s.Wizard.Handle(ctx, session, wizard.Cancel{}))
}

func (s *Service) handleBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	session, ok := s.Sessions.Get(chatID)
	if !ok {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNothingToStop})
		return
	}
	s.render(ctx, b, chatID, s.Wizard.Handle(ctx, session, wizard.Back{}))
}

// handleList shows the active subscription with unsubscribe and exit
// buttons.
func (s *Service) handleList(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	sub, err := s.Store.Get(strconv.FormatInt(chatID, 10))
	if errors.Is(err, store.ErrNotFound) {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNoSubscription})
		return
	}
	if err != nil {
		s.Logger.Error("load subscription failed", "chat_id", chatID, "err", err)
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgListFailed})
		return
	}

	kb := inline.New(b, inline.NoDeleteAfterClick()).
		Row().Button("❌ Отписаться", []byte("unsubscribe"), s.onListUnsubscribe).
		Row().Button("⬅️ Выйти", []byte("exit"), s.onListExit)

	s.send(ctx, b, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        msgListHeader + "\n\n" + sub.Filter.Summary(),
		ReplyMarkup: kb,
	})
}

func (s *Service) onListUnsubscribe(ctx context.Context, b *bot.Bot, mes models.MaybeInaccessibleMessage, _ []byte) {
	if mes.Message == nil {
		return
	}
	chatID := mes.Message.Chat.ID
	s.unsubscribe(ctx, b, chatID)
}

func (s *Service) onListExit(ctx context.Context, b *bot.Bot, mes models.MaybeInaccessibleMessage, _ []byte) {
	if mes.Message == nil {
		return
	}
	s.send(ctx, b, &bot.SendMessageParams{ChatID: mes.Message.Chat.ID, Text: msgExited})
}

func (s *Service) handleUnsubscribe(ctx context.Context, b *bot.Bot, update *models.Update) {
	s.unsubscribe(ctx, b, update.Message.Chat.ID)
}

func (s *Service) unsubscribe(ctx context.Context, b *bot.Bot, chatID int64) {
	err := s.Store.Delete(strconv.FormatInt(chatID, 10))
	if errors.Is(err, store.ErrNotFound) {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNotSubscribed})
		return
	}
	if err != nil {
		s.Logger.Error("delete subscription failed", "chat_id", chatID, "err", err)
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgListFailed})
		return
	}
	s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgUnsubscribed})
}

// handleCheck runs the subscription's evaluation once, outside the polling
// schedule.
func (s *Service) handleCheck(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	sub, err := s.Store.Get(strconv.FormatInt(chatID, 10))
	if errors.Is(err, store.ErrNotFound) {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNoSubscription})
		return
	}
	if err != nil {
		s.Logger.Error("load subscription failed", "chat_id", chatID, "err", err)
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgListFailed})
		return
	}

	res, err := s.Checker.Evaluate(ctx, sub)
	if err != nil {
		s.Logger.Warn("on-demand check failed", "chat_id", chatID, "err", err)
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgCheckFailed})
		return
	}
	if !res.Matched {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgNothingFound})
		return
	}
	s.send(ctx, b, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      msgFoundTickets + "\n\n" + res.Report,
		ParseMode: models.ParseModeMarkdown,
	})
}

func (s *Service) handleWhoisthis(ctx context.Context, b *bot.Bot, update *models.Update) {
	me, err := b.GetMe(ctx)
	if err != nil {
		s.Logger.Warn("getMe failed", "err", err)
		return
	}
	from := update.Message.From
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	s.send(ctx, b, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("This is %s. And you are %s", me.Username, name),
	})
}

// handleWizardCallback receives every wizard button press.
func (s *Service) handleWizardCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	// acknowledge first so the button stops spinning even on a dead session
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		s.Logger.Warn("answer callback failed", "err", err)
	}
	if cq.Message.Message == nil {
		return
	}
	chatID := cq.Message.Message.Chat.ID

	event, ok := parseCallback(cq.Data)
	if !ok {
		return
	}

	session, ok := s.Sessions.Get(chatID)
	if !ok {
		s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgSessionGone})
		return
	}

	s.render(ctx, b, chatID, s.Wizard.Handle(ctx, session, event))
}

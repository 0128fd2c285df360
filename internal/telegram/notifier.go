package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Notifier delivers scheduler reports to a telegram id. Fire and forget:
// the scheduler logs failures, nothing is retried within a cycle.
type Notifier struct {
	b *bot.Bot
}

func NewNotifier(b *bot.Bot) *Notifier {
	return &Notifier{b: b}
}

func (n *Notifier) Notify(ctx context.Context, telegramID, text string) error {
	_, err := n.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    telegramID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	return err
}

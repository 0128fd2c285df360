package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/go-telegram/ui/datepicker"

	"github.com/makxca/monitorzd/internal/model"
	"github.com/makxca/monitorzd/internal/wizard"
)

// render maps wizard effects onto Telegram messages and keyboards.
func (s *Service) render(ctx context.Context, b *bot.Bot, chatID int64, effects []wizard.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case wizard.PromptText:
			params := &bot.SendMessageParams{ChatID: chatID, Text: e.Text}
			if e.WithDatePicker {
				params.ReplyMarkup = datepicker.New(b, s.onDatePicked)
			}
			s.send(ctx, b, params)

		case wizard.PromptStations:
			s.renderStations(ctx, b, chatID, e)

		case wizard.PromptSeatClass:
			s.send(ctx, b, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        msgChooseSeat,
				ReplyMarkup: seatClassKeyboard(),
			})

		case wizard.ShowSummary:
			s.send(ctx, b, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        msgSummaryHeader + "\n\n" + e.Filter.Summary(),
				ReplyMarkup: summaryKeyboard(),
			})

		case wizard.Notice:
			s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: e.Text})

		case wizard.Saved:
			s.send(ctx, b, &bot.SendMessageParams{ChatID: chatID, Text: msgSaved})

		case wizard.Left:
			s.Sessions.Destroy(chatID)
			s.forgetSelectionMessage(chatID)
		}
	}
}

// renderStations sends the multi-select keyboard, or updates the marks on
// the already shown one when only the chosen set changed.
func (s *Service) renderStations(ctx context.Context, b *bot.Bot, chatID int64, e wizard.PromptStations) {
	markup := stationKeyboard(e)

	if e.Refresh {
		if messageID, ok := s.selectionMessage(chatID); ok {
			_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
				ChatID:      chatID,
				MessageID:   messageID,
				ReplyMarkup: markup,
			})
			if err == nil {
				return
			}
			s.Logger.Warn("edit station keyboard failed", "chat_id", chatID, "err", err)
		}
	}

	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("Результаты для %q:", e.Query),
		ReplyMarkup: markup,
	})
	if err != nil {
		s.Logger.Warn("send message failed", "chat_id", chatID, "err", err)
		return
	}
	s.rememberSelectionMessage(chatID, msg.ID)
}

func (s *Service) send(ctx context.Context, b *bot.Bot, params *bot.SendMessageParams) {
	if _, err := b.SendMessage(ctx, params); err != nil {
		s.Logger.Warn("send message failed", "chat_id", params.ChatID, "err", err)
	}
}

// onDatePicked feeds a calendar pick into the wizard as canonical text
// input, so the validation path is the same as for a typed date.
func (s *Service) onDatePicked(ctx context.Context, b *bot.Bot, mes models.MaybeInaccessibleMessage, date time.Time) {
	if mes.Message == nil {
		return
	}
	chatID := mes.Message.Chat.ID
	session, ok := s.Sessions.Get(chatID)
	if !ok {
		return
	}
	effects := s.Wizard.Handle(ctx, session, wizard.TextInput{Text: date.Format(model.DateLayout)})
	s.render(ctx, b, chatID, effects)
}

func stationKeyboard(e wizard.PromptStations) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton

	for _, station := range e.Candidates {
		label := station.Name
		if model.ContainsStation(e.Chosen, station.ExpressCode) {
			label = "✅ " + label
		}
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: label, CallbackData: cbStation + station.ExpressCode},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Выбрать все", CallbackData: cbStationAll},
		{Text: "Готово", CallbackData: cbStationDone},
	})
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Назад", CallbackData: cbBack},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func seatClassKeyboard() models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton

	var row []models.InlineKeyboardButton
	for _, class := range model.SeatClasses {
		row = append(row, models.InlineKeyboardButton{
			Text:         class.DisplayName(),
			CallbackData: cbSeat + string(class),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: model.SeatClassAny.DisplayName(), CallbackData: cbSeat},
	})
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Назад", CallbackData: cbBack},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func summaryKeyboard() models.ReplyMarkup {
	steps := []wizard.Step{wizard.StepDate, wizard.StepOrigin, wizard.StepDestination, wizard.StepPrice, wizard.StepSeat}

	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, step := range steps {
		row = append(row, models.InlineKeyboardButton{
			Text:         "✏️ " + step.Title(),
			CallbackData: fmt.Sprintf("%s%d", cbEdit, int(step)),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "💾 Сохранить", CallbackData: cbSave},
	})
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "❌ Отменить", CallbackData: cbCancel},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

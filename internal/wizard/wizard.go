// Package wizard is the subscription creation state machine. One session
// per chat walks the linear question sequence (date, origin stations,
// destination stations, price ceiling, seat class), supports back
// navigation and field-level editing from the summary, and persists the
// finished filter through the store on save.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/makxca/monitorzd/internal/model"
)

const (
	msgAskDate         = "Введите дату отправления (в формате YYYY-MM-DD):"
	msgBadDate         = "❌ Неверный формат даты. Попробуйте ещё раз (например: 2001-05-17)"
	msgAskOrigin       = "Введите станцию отправления"
	msgAskDestination  = "Введите станцию назначения"
	msgAskPrice        = "Введите максимальную допустимую стоимость билетов"
	msgBadPrice        = "❌ Введите корректную сумму в рублях (например: 1500)"
	msgStationNotFound = "❌ Станция не найдена. Попробуйте уточнить название."
	msgStationLookup   = "🚨 Не удалось проверить станцию. Попробуйте еще раз."
	msgChooseStation   = "Выберите хотя бы одну станцию."
	msgSaveFailed      = "❌ Ошибка при сохранении подписки. Попробуйте позже."
	msgCancelled       = "Создание подписки отменено."
	msgUseButtons      = "Выберите вариант кнопкой."
	msgDraftIncomplete = "Заполнены не все поля."
)

// keyboard size cap for station candidates
const maxStationCandidates = 8

// StationResolver is the suggest API contract the wizard depends on.
type StationResolver interface {
	SuggestStations(ctx context.Context, query string) ([]model.Station, error)
}

// SubscriptionStore is the single write the wizard performs.
type SubscriptionStore interface {
	Upsert(telegramID string, filter model.Filter) error
}

type Wizard struct {
	Resolver StationResolver
	Store    SubscriptionStore
	Logger   *slog.Logger
}

// Begin issues the first prompt for a freshly created session.
func (w *Wizard) Begin(s *Session) []Effect {
	return w.prompt(s)
}

// Handle applies one event to the session and returns the effects to
// render. Invalid events for the current state produce a notice or are
// dropped; they never corrupt the session.
func (w *Wizard) Handle(ctx context.Context, s *Session, ev Event) []Effect {
	switch ev := ev.(type) {
	case Cancel:
		s.Phase = PhaseCancelled
		return []Effect{Notice{msgCancelled}, Left{}}
	case Back:
		return w.back(s)
	case TextInput:
		return w.textInput(ctx, s, ev.Text)
	case ToggleStation:
		if s.Phase != PhaseSelectingStations || s.Selection == nil {
			return nil
		}
		s.Selection.Toggle(ev.Code)
		return []Effect{w.stationsPrompt(s, true)}
	case SelectAllStations:
		if s.Phase != PhaseSelectingStations || s.Selection == nil {
			return nil
		}
		s.Selection.Chosen = append([]model.Station(nil), s.Selection.Candidates...)
		return []Effect{w.stationsPrompt(s, true)}
	case ConfirmStations:
		return w.confirmStations(s)
	case ChooseSeatClass:
		if s.Phase != PhaseAsking || s.Step != StepSeat {
			return nil
		}
		s.Draft.SeatClass = ev.Class
		return append([]Effect{Notice{fmt.Sprintf("✅ Тип места: %s", ev.Class.DisplayName())}}, w.advance(s)...)
	case EditField:
		if s.Phase != PhaseSummary {
			return nil
		}
		step := ev.Step
		s.Editing = &step
		s.Step = step
		s.Phase = PhaseAsking
		return w.prompt(s)
	case Save:
		return w.save(s)
	}
	return nil
}

func (w *Wizard) textInput(ctx context.Context, s *Session, text string) []Effect {
	text = strings.TrimSpace(text)

	// typing during an open multi-select re-queries the same field
	if s.Phase == PhaseSelectingStations {
		return w.resolveStations(ctx, s, text)
	}
	if s.Phase != PhaseAsking {
		return []Effect{Notice{msgUseButtons}}
	}

	switch s.Step {
	case StepDate:
		date, err := model.ParseDepartureDate(text)
		if err != nil {
			return []Effect{Notice{msgBadDate}}
		}
		s.Draft.DepartureDate = date.Format(model.DateLayout)
		accepted := Notice{fmt.Sprintf("✅ Дата принята: %s", s.Draft.DepartureDate)}
		return append([]Effect{accepted}, w.advance(s)...)

	case StepPrice:
		price, err := model.ParsePrice(text)
		if err != nil {
			return []Effect{Notice{msgBadPrice}}
		}
		s.Draft.MaxPrice = price
		accepted := Notice{fmt.Sprintf("✅ Максимальная стоимость установлена: %d руб.", price)}
		return append([]Effect{accepted}, w.advance(s)...)

	case StepOrigin, StepDestination:
		return w.resolveStations(ctx, s, text)

	case StepSeat:
		return []Effect{Notice{msgUseButtons}, PromptSeatClass{}}
	}
	return nil
}

// resolveStations queries the suggest API and opens the multi-select. Both
// failure modes re-prompt without advancing: "nothing found" and "could not
// ask" get distinct messages.
func (w *Wizard) resolveStations(ctx context.Context, s *Session, query string) []Effect {
	field := s.Step
	if s.Selection != nil {
		field = s.Selection.Field
	}
	if query == "" {
		return []Effect{Notice{msgStationNotFound}}
	}

	stations, err := w.Resolver.SuggestStations(ctx, query)
	if err != nil {
		w.Logger.Warn("station lookup failed", "chat_id", s.ChatID, "query", query, "err", err)
		return []Effect{Notice{msgStationLookup}}
	}
	if len(stations) == 0 {
		return []Effect{Notice{msgStationNotFound}}
	}
	if len(stations) > maxStationCandidates {
		stations = stations[:maxStationCandidates]
	}

	s.Phase = PhaseSelectingStations
	s.Selection = &StationSelection{Field: field, Query: query, Candidates: stations}
	return []Effect{w.stationsPrompt(s, false)}
}

func (w *Wizard) confirmStations(s *Session) []Effect {
	if s.Phase != PhaseSelectingStations || s.Selection == nil {
		return nil
	}
	if len(s.Selection.Chosen) == 0 {
		return []Effect{Notice{msgChooseStation}}
	}

	chosen := s.Selection.Chosen
	if s.Selection.Field == StepOrigin {
		s.Draft.Origin = chosen
	} else {
		s.Draft.Destination = chosen
	}
	s.Step = s.Selection.Field
	s.Selection = nil
	s.Phase = PhaseAsking

	accepted := Notice{fmt.Sprintf("✅ Станции выбраны: %s", model.StationNames(chosen))}
	return append([]Effect{accepted}, w.advance(s)...)
}

func (w *Wizard) save(s *Session) []Effect {
	if s.Phase != PhaseSummary {
		return nil
	}
	if !s.Draft.Complete() {
		// unreachable through normal transitions; summary requires a full draft
		return []Effect{Notice{msgDraftIncomplete}}
	}

	telegramID := strconv.FormatInt(s.ChatID, 10)
	if err := w.Store.Upsert(telegramID, s.Draft); err != nil {
		w.Logger.Error("save subscription failed", "chat_id", s.ChatID, "err", err)
		// session and draft stay intact so the user can retry save
		return []Effect{Notice{msgSaveFailed}}
	}

	s.Phase = PhaseSaved
	return []Effect{Saved{}, Left{}}
}

func (w *Wizard) back(s *Session) []Effect {
	switch s.Phase {
	case PhaseSelectingStations:
		s.Selection = nil
		if s.Editing != nil {
			s.Editing = nil
			s.Phase = PhaseSummary
			return []Effect{ShowSummary{s.Draft}}
		}
		s.Phase = PhaseAsking
		if s.Step > StepDate {
			s.Step--
		}
		return w.prompt(s)

	case PhaseAsking:
		if s.Editing != nil {
			s.Editing = nil
			s.Phase = PhaseSummary
			return []Effect{ShowSummary{s.Draft}}
		}
		if s.Step > StepDate {
			s.Step--
		}
		return w.prompt(s)

	case PhaseSummary:
		return []Effect{ShowSummary{s.Draft}}
	}
	return nil
}

// advance moves past the just-answered step: back to the summary when the
// answer was a field edit, to the summary after the last step, otherwise to
// the next prompt.
func (w *Wizard) advance(s *Session) []Effect {
	if s.Editing != nil {
		s.Editing = nil
		s.Phase = PhaseSummary
		return []Effect{ShowSummary{s.Draft}}
	}
	if s.Step == StepSeat {
		s.Phase = PhaseSummary
		return []Effect{ShowSummary{s.Draft}}
	}
	s.Step++
	return w.prompt(s)
}

func (w *Wizard) prompt(s *Session) []Effect {
	switch s.Step {
	case StepDate:
		return []Effect{PromptText{Text: msgAskDate, WithDatePicker: true}}
	case StepOrigin:
		return []Effect{PromptText{Text: msgAskOrigin}}
	case StepDestination:
		return []Effect{PromptText{Text: msgAskDestination}}
	case StepPrice:
		return []Effect{PromptText{Text: msgAskPrice}}
	case StepSeat:
		return []Effect{PromptSeatClass{}}
	}
	return nil
}

func (w *Wizard) stationsPrompt(s *Session, refresh bool) Effect {
	return PromptStations{
		Query:      s.Selection.Query,
		Field:      s.Selection.Field,
		Candidates: s.Selection.Candidates,
		Chosen:     s.Selection.Chosen,
		Refresh:    refresh,
	}
}

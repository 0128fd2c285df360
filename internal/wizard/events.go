package wizard

import "github.com/makxca/monitorzd/internal/model"

// Event is one user action fed into the state machine. The transport turns
// messages and button presses into events; the machine never sees Telegram
// types.
type Event interface{ isEvent() }

type TextInput struct{ Text string }

type ToggleStation struct{ Code string }

type SelectAllStations struct{}

type ConfirmStations struct{}

type ChooseSeatClass struct{ Class model.SeatClass }

type Back struct{}

type Cancel struct{}

type EditField struct{ Step Step }

type Save struct{}

func (TextInput) isEvent()         {}
func (ToggleStation) isEvent()     {}
func (SelectAllStations) isEvent() {}
func (ConfirmStations) isEvent()   {}
func (ChooseSeatClass) isEvent()   {}
func (Back) isEvent()              {}
func (Cancel) isEvent()            {}
func (EditField) isEvent()         {}
func (Save) isEvent()              {}

// Effect is one render instruction returned by Handle. The transport maps
// effects onto messages and keyboards.
type Effect interface{ isEffect() }

// PromptText asks for free-text input. WithDatePicker additionally offers
// the calendar widget; typed text stays the canonical input.
type PromptText struct {
	Text           string
	WithDatePicker bool
}

// PromptStations shows the multi-select over resolver candidates. Refresh
// means only the chosen marks changed and the existing keyboard should be
// updated in place.
type PromptStations struct {
	Query      string
	Field      Step
	Candidates []model.Station
	Chosen     []model.Station
	Refresh    bool
}

type PromptSeatClass struct{}

type ShowSummary struct{ Filter model.Filter }

type Notice struct{ Text string }

// Saved reports successful persistence; the transport shows the
// confirmation and destroys the session on the accompanying Left.
type Saved struct{}

// Left means the session reached a terminal state and must be destroyed.
type Left struct{}

func (PromptText) isEffect()      {}
func (PromptStations) isEffect()  {}
func (PromptSeatClass) isEffect() {}
func (ShowSummary) isEffect()     {}
func (Notice) isEffect()          {}
func (Saved) isEffect()           {}
func (Left) isEffect()            {}

package wizard

import (
	"sync"

	"github.com/makxca/monitorzd/internal/model"
)

// Step indexes the linear question sequence. The order is the flow order.
type Step int

const (
	StepDate Step = iota
	StepOrigin
	StepDestination
	StepPrice
	StepSeat
)

func (s Step) Title() string {
	switch s {
	case StepDate:
		return "Дата"
	case StepOrigin:
		return "Отправление"
	case StepDestination:
		return "Назначение"
	case StepPrice:
		return "Цена"
	case StepSeat:
		return "Тип места"
	}
	return "?"
}

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseAsking Phase = iota
	PhaseSelectingStations
	PhaseSummary
	// terminal
	PhaseSaved
	PhaseCancelled
)

// StationSelection is an open multi-select over resolver candidates for one
// station field (StepOrigin or StepDestination).
type StationSelection struct {
	Field      Step
	Query      string
	Candidates []model.Station
	Chosen     []model.Station
}

// Toggle flips a candidate in or out of the chosen set. Unknown codes (stale
// callbacks) are ignored.
func (sel *StationSelection) Toggle(code string) {
	if !model.ContainsStation(sel.Candidates, code) {
		return
	}
	for i, s := range sel.Chosen {
		if s.ExpressCode == code {
			sel.Chosen = append(sel.Chosen[:i], sel.Chosen[i+1:]...)
			return
		}
	}
	for _, s := range sel.Candidates {
		if s.ExpressCode == code {
			sel.Chosen = append(sel.Chosen, s)
			return
		}
	}
}

// Session is the ephemeral wizard state for one chat. It exclusively owns
// its draft; nothing outside the session may touch it before save.
type Session struct {
	ChatID    int64
	Phase     Phase
	Step      Step
	Draft     model.Filter
	Editing   *Step
	Selection *StationSelection
}

// Sessions is the arena of live wizard sessions, keyed by chat id. Telegram
// serializes updates per chat, so one mutex over the map is enough.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Create replaces any existing session for the chat with a fresh one.
func (a *Sessions) Create(chatID int64) *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := &Session{ChatID: chatID, Phase: PhaseAsking, Step: StepDate}
	a.m[chatID] = s
	return s
}

func (a *Sessions) Get(chatID int64) (*Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.m[chatID]
	return s, ok
}

func (a *Sessions) Destroy(chatID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.m, chatID)
}

// Package model holds the persisted and transient data shapes shared by the
// wizard, the store and the polling scheduler.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical departure date format, both in user input and
// in the persisted filter record.
const DateLayout = "2006-01-02"

// MoscowTime is the display zone for feed timestamps. The feed returns local
// times without an offset, so both parsing and rendering pin to MSK.
var MoscowTime = time.FixedZone("MSK", 3*60*60)

// Station as returned by the suggest API. Stations are compared by
// ExpressCode; NodeID only exists to build trip deep links.
type Station struct {
	Name        string `json:"name"`
	ExpressCode string `json:"expressCode"`
	NodeID      string `json:"nodeId"`
}

// StationNames joins station names for display.
func StationNames(stations []Station) string {
	names := make([]string, 0, len(stations))
	for _, s := range stations {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// ContainsStation reports whether the set has a station with the same
// express code.
func ContainsStation(stations []Station, code string) bool {
	for _, s := range stations {
		if s.ExpressCode == code {
			return true
		}
	}
	return false
}

// Filter is the unit a subscription matches against. Field names are the
// persisted compatibility surface.
type Filter struct {
	DepartureDate string    `json:"departureDate"`
	Origin        []Station `json:"origin"`
	Destination   []Station `json:"destination"`
	SeatClass     SeatClass `json:"carType"`
	MaxPrice      int       `json:"maxPrice"`
}

// Complete reports whether every required field is set. SeatClassAny is a
// valid final value, so the seat class is not required here.
func (f Filter) Complete() bool {
	return f.DepartureDate != "" &&
		len(f.Origin) > 0 &&
		len(f.Destination) > 0 &&
		f.MaxPrice > 0
}

// Summary renders the filter for the wizard summary and /list.
func (f Filter) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Дата: %s\n", f.DepartureDate)
	fmt.Fprintf(&b, "Отправление: %s\n", StationNames(f.Origin))
	fmt.Fprintf(&b, "Назначение: %s\n", StationNames(f.Destination))
	fmt.Fprintf(&b, "Максимальная цена: %d ₽\n", f.MaxPrice)
	fmt.Fprintf(&b, "Тип места: %s", f.SeatClass.DisplayName())
	return b.String()
}

// Subscription is one persisted filter keyed by the owner's telegram id.
// DeletedAt is the soft-delete tombstone: tombstoned records are kept in the
// store but excluded from polling and listings.
type Subscription struct {
	TelegramID string     `json:"telegramId"`
	Filter     Filter     `json:"filter"`
	CreatedAt  time.Time  `json:"createdAt"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// CarGroup is a class-homogeneous bucket of seats within an offer.
type CarGroup struct {
	TypeName     string
	Count        int
	MinPrice     int
	DisabledOnly bool
}

// TrainOffer is one scheduled run returned by the feed. Never persisted.
type TrainOffer struct {
	TrainNumber     string
	OriginName      string
	DestinationName string
	OriginCode      string
	DestinationCode string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	CarGroups       []CarGroup
	Link            string
}

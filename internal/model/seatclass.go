package model

import "strings"

// SeatClass is the internal car type code. The codes are the persisted
// values; the feed is matched through lower-cased car type name fragments.
type SeatClass string

const (
	SeatClassAny     SeatClass = ""
	SeatClassPlaz    SeatClass = "plaz"
	SeatClassCoop    SeatClass = "coop"
	SeatClassSV      SeatClass = "SV"
	SeatClassSitting SeatClass = "sitting"
)

// SeatClasses lists the selectable classes in wizard button order.
var SeatClasses = []SeatClass{SeatClassPlaz, SeatClassCoop, SeatClassSV, SeatClassSitting}

// fragment of the feed's car type name that identifies the class.
var seatClassFragments = map[SeatClass]string{
	SeatClassPlaz:    "плац",
	SeatClassCoop:    "куп",
	SeatClassSV:      "св",
	SeatClassSitting: "сид",
}

var seatClassNames = map[SeatClass]string{
	SeatClassAny:     "Любой",
	SeatClassPlaz:    "Плацкарт",
	SeatClassCoop:    "Купе",
	SeatClassSV:      "СВ",
	SeatClassSitting: "Сидячий",
}

// ParseSeatClass maps a stored code back to a class.
func ParseSeatClass(code string) (SeatClass, bool) {
	switch SeatClass(code) {
	case SeatClassAny, SeatClassPlaz, SeatClassCoop, SeatClassSV, SeatClassSitting:
		return SeatClass(code), true
	}
	return SeatClassAny, false
}

func (c SeatClass) DisplayName() string {
	if name, ok := seatClassNames[c]; ok {
		return name
	}
	return string(c)
}

// MatchesCarType reports whether a feed car type name (e.g. "Плацкартный")
// belongs to this class. SeatClassAny matches everything.
func (c SeatClass) MatchesCarType(typeName string) bool {
	if c == SeatClassAny {
		return true
	}
	fragment, ok := seatClassFragments[c]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(typeName), fragment)
}

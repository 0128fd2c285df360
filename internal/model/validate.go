package model

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadDate  = errors.New("bad departure date")
	ErrBadPrice = errors.New("bad price")
)

// ParseDepartureDate accepts strict YYYY-MM-DD strings naming a real
// calendar day. time.Parse both enforces the literal layout (no "2025-1-7")
// and rejects days that would normalize to a different date ("2025-02-30").
func ParseDepartureDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if len(s) != len(DateLayout) {
		return time.Time{}, ErrBadDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// ParsePrice accepts positive integers only: no sign, no decimals, no junk.
func ParsePrice(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrBadPrice
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrBadPrice
		}
	}
	price, err := strconv.Atoi(s)
	if err != nil || price <= 0 {
		return 0, ErrBadPrice
	}
	return price, nil
}

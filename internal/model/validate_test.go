package model

import "testing"

func TestParseDepartureDate(t *testing.T) {
	valid := []string{
		"2025-12-30",
		"2024-02-29", // leap day
		"2001-05-17",
		" 2025-01-01 ", // surrounding whitespace is tolerated
	}
	for _, input := range valid {
		if _, err := ParseDepartureDate(input); err != nil {
			t.Errorf("ParseDepartureDate(%q) = %v, want nil", input, err)
		}
	}

	invalid := []string{
		"",
		"2025-02-30", // not a real day
		"2025-13-01", // not a real month
		"2023-02-29", // not a leap year
		"2025-1-07",  // layout violation
		"2025-01-7",
		"30-12-2025",
		"2025/12/30",
		"2025-12-30T00:00:00",
		"tomorrow",
	}
	for _, input := range invalid {
		if _, err := ParseDepartureDate(input); err == nil {
			t.Errorf("ParseDepartureDate(%q) = nil, want error", input)
		}
	}
}

func TestParsePrice(t *testing.T) {
	for input, want := range map[string]int{
		"1500":   1500,
		"1":      1,
		" 3000 ": 3000,
	} {
		got, err := ParsePrice(input)
		if err != nil {
			t.Errorf("ParsePrice(%q) = %v, want nil", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePrice(%q) = %d, want %d", input, got, want)
		}
	}

	invalid := []string{"", "0", "-100", "+100", "15.5", "15,5", "1e3", "дорого", "100р"}
	for _, input := range invalid {
		if _, err := ParsePrice(input); err == nil {
			t.Errorf("ParsePrice(%q) = nil, want error", input)
		}
	}
}

func TestSeatClassMatchesCarType(t *testing.T) {
	cases := []struct {
		class    SeatClass
		typeName string
		want     bool
	}{
		{SeatClassPlaz, "Плацкартный", true},
		{SeatClassPlaz, "плац", true},
		{SeatClassPlaz, "Купе", false},
		{SeatClassCoop, "Купе", true},
		{SeatClassSV, "СВ", true},
		{SeatClassSitting, "Сидячий", true},
		{SeatClassSitting, "СВ", false},
		{SeatClassAny, "Плацкартный", true},
		{SeatClassAny, "что угодно", true},
	}
	for _, c := range cases {
		if got := c.class.MatchesCarType(c.typeName); got != c.want {
			t.Errorf("%q.MatchesCarType(%q) = %v, want %v", c.class, c.typeName, got, c.want)
		}
	}
}

func TestFilterComplete(t *testing.T) {
	spb := Station{Name: "САНКТ-ПЕТЕРБУРГ", ExpressCode: "2004000"}
	msk := Station{Name: "МОСКВА", ExpressCode: "2000000"}

	full := Filter{
		DepartureDate: "2025-12-30",
		Origin:        []Station{msk},
		Destination:   []Station{spb},
		SeatClass:     SeatClassAny, // any class is a valid final value
		MaxPrice:      3000,
	}
	if !full.Complete() {
		t.Error("full filter reported incomplete")
	}

	partials := []Filter{
		{},
		{DepartureDate: "2025-12-30", Origin: []Station{msk}, Destination: []Station{spb}},
		{DepartureDate: "2025-12-30", Origin: []Station{msk}, MaxPrice: 3000},
		{DepartureDate: "2025-12-30", Destination: []Station{spb}, MaxPrice: 3000},
		{Origin: []Station{msk}, Destination: []Station{spb}, MaxPrice: 3000},
	}
	for i, f := range partials {
		if f.Complete() {
			t.Errorf("partial filter %d reported complete", i)
		}
	}
}

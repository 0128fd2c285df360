package rzd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/makxca/monitorzd/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(5 * time.Second)
	c.BaseURL = srv.URL
	return c
}

func TestSuggestStations(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/suggests" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("Query"); got != "бологое" {
			t.Errorf("Query = %q, want бологое", got)
		}
		if got := r.URL.Query().Get("TransportType"); got != "rail" {
			t.Errorf("TransportType = %q, want rail", got)
		}
		w.Write([]byte(`{
			"train": [{"name": "БОЛОГОЕ", "expressCode": "2004600", "nodeId": "9602179"}],
			"suburban": [{"name": "БОЛОГОЕ-2", "expressCode": "2004601", "nodeId": "9602180"}]
		}`))
	})

	stations, err := c.SuggestStations(context.Background(), "бологое")
	if err != nil {
		t.Fatalf("SuggestStations: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	// train group comes before suburban
	if stations[0].ExpressCode != "2004600" || stations[1].ExpressCode != "2004601" {
		t.Errorf("wrong group order: %+v", stations)
	}
	if stations[0].NodeID != "9602179" {
		t.Errorf("NodeID = %q, want 9602179", stations[0].NodeID)
	}
}

func TestSuggestStationsEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	stations, err := c.SuggestStations(context.Background(), "нет такой")
	if err != nil {
		t.Fatalf("SuggestStations: %v", err)
	}
	if len(stations) != 0 {
		t.Errorf("got %d stations, want 0", len(stations))
	}
}

func TestSuggestStationsServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.SuggestStations(context.Background(), "москва")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusBadGateway {
		t.Errorf("Code = %d, want 502", statusErr.Code)
	}
}

func TestFindTrains(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/trains" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("Origin"); got != "2000000" {
			t.Errorf("Origin = %q, want 2000000", got)
		}
		if got := r.URL.Query().Get("DepartureDate"); got != "2025-12-30" {
			t.Errorf("DepartureDate = %q, want 2025-12-30", got)
		}
		w.Write([]byte(`{"Trains": [{
			"TrainNumber": "016А",
			"OriginName": "МОСКВА ОКТ",
			"DestinationName": "САНКТ-ПЕТЕРБУРГ-ГЛАВН.",
			"OriginStationCode": "2000000",
			"DestinationStationCode": "2004000",
			"DepartureDateTime": "2025-12-30T00:41:00",
			"ArrivalDateTime": "2025-12-30T09:13:00",
			"CarGroups": [
				{"CarTypeName": "Плацкартный", "TotalPlaceQuantity": 2, "MinPrice": 2500, "OnlyDisabledPlaces": false}
			]
		}]}`))
	})

	origin := model.Station{Name: "МОСКВА", ExpressCode: "2000000", NodeID: "2000000"}
	dest := model.Station{Name: "САНКТ-ПЕТЕРБУРГ", ExpressCode: "2004000", NodeID: "2004000"}

	offers, err := c.FindTrains(context.Background(), origin, dest, "2025-12-30")
	if err != nil {
		t.Fatalf("FindTrains: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}

	offer := offers[0]
	if offer.TrainNumber != "016А" {
		t.Errorf("TrainNumber = %q", offer.TrainNumber)
	}
	if got := offer.DepartureTime.Format("15:04"); got != "00:41" {
		t.Errorf("DepartureTime = %s, want 00:41", got)
	}
	if offer.DepartureTime.Location() != model.MoscowTime {
		t.Error("departure time not pinned to MSK")
	}
	if len(offer.CarGroups) != 1 || offer.CarGroups[0].MinPrice != 2500 {
		t.Errorf("CarGroups = %+v", offer.CarGroups)
	}
	wantLink := TripURL(origin, dest, "2025-12-30")
	if offer.Link != wantLink {
		t.Errorf("Link = %q, want %q", offer.Link, wantLink)
	}
}

func TestFindTrainsEmptyIsNotAnError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Trains": []}`))
	})

	offers, err := c.FindTrains(context.Background(), model.Station{}, model.Station{}, "2025-12-30")
	if err != nil {
		t.Fatalf("FindTrains: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("got %d offers, want 0", len(offers))
	}
}

func TestFindTrainsMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>маинтенанце</html>`))
	})

	if _, err := c.FindTrains(context.Background(), model.Station{}, model.Station{}, "2025-12-30"); err == nil {
		t.Fatal("malformed body must surface as an error, not an empty result")
	}
}

// Package rzd talks to the two external ticket.rzd.ru endpoints: the station
// suggest API and the train pricing feed. Both are JSON; a non-2xx status or
// an undecodable body is always an error, never an empty result.
package rzd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/makxca/monitorzd/internal/model"
)

const DefaultBaseURL = "https://ticket.rzd.ru"

const userAgent = "Mozilla/5.0"

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rzd: %s returned status %d", e.Endpoint, e.Code)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type suggestStation struct {
	Name        string `json:"name"`
	ExpressCode string `json:"expressCode"`
	NodeID      string `json:"nodeId"`
}

type suggestResponse struct {
	Train    []suggestStation `json:"train"`
	Avia     []suggestStation `json:"avia"`
	Bus      []suggestStation `json:"bus"`
	Suburban []suggestStation `json:"suburban"`
}

// SuggestStations resolves a free-text query to candidate stations. Zero
// results is a valid answer and comes back as an empty slice with nil error.
func (c *Client) SuggestStations(ctx context.Context, query string) ([]model.Station, error) {
	u, err := url.Parse(c.BaseURL + "/api/v1/suggests")
	if err != nil {
		return nil, fmt.Errorf("rzd: bad suggest url: %w", err)
	}
	q := u.Query()
	q.Set("Query", query)
	q.Set("TransportType", "rail")
	q.Set("GroupResults", "true")
	q.Set("RailwaySortPriority", "true")
	q.Set("SynonymOn", "1")
	q.Set("Language", "ru")
	u.RawQuery = q.Encode()

	var decoded suggestResponse
	if err := c.getJSON(ctx, u.String(), "suggests", &decoded); err != nil {
		return nil, err
	}

	var stations []model.Station
	for _, group := range [][]suggestStation{decoded.Train, decoded.Avia, decoded.Bus, decoded.Suburban} {
		for _, s := range group {
			stations = append(stations, model.Station{
				Name:        s.Name,
				ExpressCode: s.ExpressCode,
				NodeID:      s.NodeID,
			})
		}
	}
	return stations, nil
}

type feedCarGroup struct {
	CarTypeName        string `json:"CarTypeName"`
	TotalPlaceQuantity int    `json:"TotalPlaceQuantity"`
	MinPrice           int    `json:"MinPrice"`
	OnlyDisabledPlaces bool   `json:"OnlyDisabledPlaces"`
}

type feedTrain struct {
	TrainNumber            string         `json:"TrainNumber"`
	OriginName             string         `json:"OriginName"`
	DestinationName        string         `json:"DestinationName"`
	OriginStationCode      string         `json:"OriginStationCode"`
	DestinationStationCode string         `json:"DestinationStationCode"`
	DepartureDateTime      string         `json:"DepartureDateTime"`
	ArrivalDateTime        string         `json:"ArrivalDateTime"`
	CarGroups              []feedCarGroup `json:"CarGroups"`
}

type feedResponse struct {
	Trains []feedTrain `json:"Trains"`
}

const feedTimeLayout = "2006-01-02T15:04:05"

// FindTrains fetches the availability snapshot for one station pair and
// date. An empty Trains list means "no trains", not a failure. Offer order
// is the feed's own chronological order and is preserved.
func (c *Client) FindTrains(ctx context.Context, origin, dest model.Station, date string) ([]model.TrainOffer, error) {
	u, err := url.Parse(c.BaseURL + "/api/v1/trains")
	if err != nil {
		return nil, fmt.Errorf("rzd: bad feed url: %w", err)
	}
	q := u.Query()
	q.Set("Origin", origin.ExpressCode)
	q.Set("Destination", dest.ExpressCode)
	q.Set("DepartureDate", date)
	u.RawQuery = q.Encode()

	var decoded feedResponse
	if err := c.getJSON(ctx, u.String(), "trains", &decoded); err != nil {
		return nil, err
	}

	link := TripURL(origin, dest, date)
	offers := make([]model.TrainOffer, 0, len(decoded.Trains))
	for _, t := range decoded.Trains {
		departure, err := time.ParseInLocation(feedTimeLayout, t.DepartureDateTime, model.MoscowTime)
		if err != nil {
			return nil, fmt.Errorf("rzd: bad departure time %q: %w", t.DepartureDateTime, err)
		}
		arrival, err := time.ParseInLocation(feedTimeLayout, t.ArrivalDateTime, model.MoscowTime)
		if err != nil {
			return nil, fmt.Errorf("rzd: bad arrival time %q: %w", t.ArrivalDateTime, err)
		}

		groups := make([]model.CarGroup, 0, len(t.CarGroups))
		for _, g := range t.CarGroups {
			groups = append(groups, model.CarGroup{
				TypeName:     g.CarTypeName,
				Count:        g.TotalPlaceQuantity,
				MinPrice:     g.MinPrice,
				DisabledOnly: g.OnlyDisabledPlaces,
			})
		}

		offers = append(offers, model.TrainOffer{
			TrainNumber:     t.TrainNumber,
			OriginName:      t.OriginName,
			DestinationName: t.DestinationName,
			OriginCode:      t.OriginStationCode,
			DestinationCode: t.DestinationStationCode,
			DepartureTime:   departure,
			ArrivalTime:     arrival,
			CarGroups:       groups,
			Link:            link,
		})
	}
	return offers, nil
}

// TripURL builds the search page deep link for a station pair and date.
func TripURL(origin, dest model.Station, date string) string {
	return fmt.Sprintf("%s/searchresults/v/1/%s/%s/%s", DefaultBaseURL, origin.NodeID, dest.NodeID, date)
}

func (c *Client) getJSON(ctx context.Context, rawURL, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("rzd: build %s request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("rzd: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rzd: decode %s response: %w", endpoint, err)
	}
	return nil
}

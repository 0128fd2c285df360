// Package match decides which offers satisfy a filter and renders the
// notification report. Evaluate is pure: no clock, no I/O, no mutation of
// its arguments.
package match

import (
	"fmt"
	"strings"

	"github.com/makxca/monitorzd/internal/model"
)

const reportTimeLayout = "02.01.2006 15:04"

// Result of one evaluation. Matched false with an empty report means "no
// trains fit", which is a normal outcome, not a failure.
type Result struct {
	Matched bool
	Report  string
}

type survivingOffer struct {
	offer model.TrainOffer
	seats int
}

// Evaluate filters offers against f and renders the report. Offer order is
// preserved from the feed.
func Evaluate(f model.Filter, offers []model.TrainOffer) Result {
	var surviving []survivingOffer

	for _, offer := range offers {
		if !routeMatches(f, offer) {
			continue
		}

		seats := 0
		qualifying := false
		for _, g := range offer.CarGroups {
			if g.MinPrice > f.MaxPrice {
				continue
			}
			if g.DisabledOnly {
				continue
			}
			if !f.SeatClass.MatchesCarType(g.TypeName) {
				continue
			}
			qualifying = true
			seats += g.Count
		}
		if !qualifying {
			continue
		}

		surviving = append(surviving, survivingOffer{offer: offer, seats: seats})
	}

	if len(surviving) == 0 {
		return Result{}
	}
	return Result{Matched: true, Report: renderReport(f, surviving)}
}

// routeMatches guards against offers outside the filter's station sets.
// When the feed was queried per exact pair this always passes; it matters
// for feeds that answer per city group.
func routeMatches(f model.Filter, offer model.TrainOffer) bool {
	if offer.OriginCode != "" && !model.ContainsStation(f.Origin, offer.OriginCode) {
		return false
	}
	if offer.DestinationCode != "" && !model.ContainsStation(f.Destination, offer.DestinationCode) {
		return false
	}
	return true
}

func renderReport(f model.Filter, surviving []survivingOffer) string {
	var b strings.Builder

	first := surviving[0].offer
	fmt.Fprintf(&b, "%s - %s:\n", first.OriginName, first.DestinationName)

	for _, s := range surviving {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s - %s\n",
			s.offer.DepartureTime.In(model.MoscowTime).Format(reportTimeLayout),
			s.offer.ArrivalTime.In(model.MoscowTime).Format(reportTimeLayout))
		if f.SeatClass == model.SeatClassAny {
			fmt.Fprintf(&b, "Мест: %d\n", s.seats)
		} else {
			fmt.Fprintf(&b, "Мест (%s): %d\n", f.SeatClass.DisplayName(), s.seats)
		}
		if s.offer.Link != "" {
			fmt.Fprintf(&b, "[Ссылка](%s)\n", s.offer.Link)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

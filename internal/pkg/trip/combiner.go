// Package trip combines one-way search results into priced round trips and
// ranks them across routes and departure dates.
package trip

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jwlin/tigerfare/internal/pkg/flight"
)

// Route is a scrapeable city pair. Code is the "FROM_TO" identifier used in
// requests and result keys.
type Route struct {
	From string `json:"from"`
	To   string `json:"to"`
	Name string `json:"name"`
}

func (r Route) Code() string {
	return r.From + "_" + r.To
}

// ParseRoute splits a "FROM_TO" code into a Route.
func ParseRoute(code string) (Route, error) {
	from, to, ok := strings.Cut(code, "_")
	if !ok || from == "" || to == "" {
		return Route{}, fmt.Errorf("invalid route code %q, want FROM_TO", code)
	}

	return Route{From: from, To: to}, nil
}

// Searcher runs one one-way search. Implementations never return an error;
// failures surface as error strings on the result.
type Searcher interface {
	SearchFlights(ctx context.Context, departure, arrival, departureDate, returnDate string) flight.SearchResult
}

// Trip is a priced round trip: the cheapest available outbound leg paired
// with the cheapest available inbound leg.
type Trip struct {
	Route         Route         `json:"route"`
	RouteName     string        `json:"route_name"`
	DepartureDate string        `json:"departure_date"`
	ReturnDate    string        `json:"return_date"`
	Outbound      flight.Record `json:"outbound"`
	Inbound       flight.Record `json:"inbound"`
	TotalPrice    float64       `json:"total_price"`
	PricePerDay   float64       `json:"price_per_day"`
}

// ReturnDate derives the inbound date for a trip spanning durationDays
// calendar days including both travel days.
func ReturnDate(departureDate string, durationDays int) (string, error) {
	if durationDays < 1 {
		return "", fmt.Errorf("trip duration must be at least 1 day, got %d", durationDays)
	}

	parsed, err := time.Parse("2006-01-02", departureDate)
	if err != nil {
		return "", fmt.Errorf("parse departure date %q: %w", departureDate, err)
	}

	return parsed.AddDate(0, 0, durationDays-1).Format("2006-01-02"), nil
}

// Combiner builds round trips from two one-way searches.
type Combiner struct {
	searcher     Searcher
	durationDays int
}

func NewCombiner(searcher Searcher, durationDays int) *Combiner {
	return &Combiner{
		searcher:     searcher,
		durationDays: durationDays,
	}
}

// Combine searches both legs of the route and pairs the cheapest available
// flight of each. It returns nil with no error when either leg has no
// available priced flight, so absence is not a failure.
func (c *Combiner) Combine(ctx context.Context, route Route, departureDate string) (*Trip, error) {
	returnDate, err := ReturnDate(departureDate, c.durationDays)
	if err != nil {
		return nil, err
	}

	outbound := c.searcher.SearchFlights(ctx, route.From, route.To, departureDate, returnDate)

	cheapestOut := outbound.CheapestFlights(1)
	if len(cheapestOut) == 0 {
		return nil, nil
	}

	inbound := c.searcher.SearchFlights(ctx, route.To, route.From, returnDate, "")

	cheapestIn := inbound.CheapestFlights(1)
	if len(cheapestIn) == 0 {
		return nil, nil
	}

	total := *cheapestOut[0].Price + *cheapestIn[0].Price

	return &Trip{
		Route:         route,
		RouteName:     route.Name,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Outbound:      cheapestOut[0],
		Inbound:       cheapestIn[0],
		TotalPrice:    total,
		PricePerDay:   total / float64(c.durationDays),
	}, nil
}

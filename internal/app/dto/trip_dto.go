package dto

import (
	"fmt"
	"net/http"

	"github.com/jwlin/tigerfare/internal/pkg/exception"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
	"github.com/jwlin/tigerfare/internal/pkg/utils"
)

// CheapestTripsRequest asks for ranked round trips. Routes and Dates are
// optional; the configured route table and upcoming dates are used when
// they are omitted.
type CheapestTripsRequest struct {
	Routes     []string `json:"routes" validate:"omitempty,dive,min=7"`
	Dates      []string `json:"dates" validate:"omitempty,dive,datetime=2006-01-02"`
	MaxResults int      `json:"max_results" validate:"omitempty,min=1,max=100"`
}

func (c *CheapestTripsRequest) Bind(r *http.Request) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (c *CheapestTripsRequest) Validate() error {
	if err := ValidateSingleError(c); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

type Trip struct {
	Route               string  `json:"route"`
	RouteName           string  `json:"route_name"`
	DepartureDate       string  `json:"departure_date"`
	ReturnDate          string  `json:"return_date"`
	Outbound            Flight  `json:"outbound"`
	Inbound             Flight  `json:"inbound"`
	TotalPrice          float64 `json:"total_price"`
	TotalPriceFormatted string  `json:"total_price_formatted"`
	PricePerDay         float64 `json:"price_per_day"`
}

func TripFromDomain(t trip.Trip) Trip {
	return Trip{
		Route:               t.Route.Code(),
		RouteName:           t.RouteName,
		DepartureDate:       t.DepartureDate,
		ReturnDate:          t.ReturnDate,
		Outbound:            FlightFromRecord(t.Outbound),
		Inbound:             FlightFromRecord(t.Inbound),
		TotalPrice:          t.TotalPrice,
		TotalPriceFormatted: utils.FormatTWD(int64(t.TotalPrice)),
		PricePerDay:         t.PricePerDay,
	}
}

func TripsFromDomain(trips []trip.Trip) []Trip {
	results := make([]Trip, 0, len(trips))
	for _, t := range trips {
		results = append(results, TripFromDomain(t))
	}

	return results
}

type CheapestTripsResponse struct {
	Trips    []Trip   `json:"trips"`
	Metadata Metadata `json:"metadata"`
}

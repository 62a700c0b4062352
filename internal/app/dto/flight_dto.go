package dto

import (
	"fmt"
	"net/http"

	"github.com/jwlin/tigerfare/internal/pkg/exception"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/utils"
)

type Flight struct {
	FlightNumber     string   `json:"flight_number"`
	Airline          string   `json:"airline"`
	DepartureAirport string   `json:"departure_airport"`
	ArrivalAirport   string   `json:"arrival_airport"`
	DepartureTime    string   `json:"departure_time"`
	ArrivalTime      string   `json:"arrival_time"`
	DepartureDate    string   `json:"departure_date"`
	Price            *float64 `json:"price"`
	PriceFormatted   string   `json:"price_formatted,omitempty"`
	Currency         string   `json:"currency"`
	SeatsAvailable   *bool    `json:"seats_available"`
	TimeSlot         string   `json:"time_slot"`
	SourceURL        string   `json:"source_url"`
}

// FlightFromRecord maps a scraped record to its API shape.
func FlightFromRecord(rec flight.Record) Flight {
	f := Flight{
		FlightNumber:     rec.FlightNumber,
		Airline:          rec.Airline,
		DepartureAirport: rec.DepartureAirport,
		ArrivalAirport:   rec.ArrivalAirport,
		DepartureTime:    rec.DepartureTime,
		ArrivalTime:      rec.ArrivalTime,
		DepartureDate:    rec.DepartureDate,
		Price:            rec.Price,
		Currency:         rec.Currency,
		SeatsAvailable:   rec.SeatsAvailable,
		TimeSlot:         string(rec.TimeSlot),
		SourceURL:        rec.SourceURL,
	}

	if rec.Price != nil {
		f.PriceFormatted = utils.FormatTWD(int64(*rec.Price))
	}

	return f
}

func FlightsFromRecords(records []flight.Record) []Flight {
	flights := make([]Flight, 0, len(records))
	for _, rec := range records {
		flights = append(flights, FlightFromRecord(rec))
	}

	return flights
}

type SearchFlightRequest struct {
	Departure     string `json:"departure" validate:"required,len=3,alpha"`
	Arrival       string `json:"arrival" validate:"required,len=3,alpha"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *SearchFlightRequest) Bind(r *http.Request) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (s *SearchFlightRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

type Metadata struct {
	TotalResults int      `json:"total_results"`
	SearchTimeMs int      `json:"search_time_ms"`
	CacheHit     bool     `json:"cache_hit"`
	Errors       []string `json:"errors,omitempty"`
}

type SearchFlightResponse struct {
	Flights      []Flight          `json:"flights"`
	SearchParams map[string]string `json:"search_params"`
	Metadata     Metadata          `json:"metadata"`
}

// MultiSearchRequest sweeps several routes across several dates in one call.
type MultiSearchRequest struct {
	Routes []string `json:"routes" validate:"required,min=1,dive,min=7"`
	Dates  []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

func (m *MultiSearchRequest) Bind(r *http.Request) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (m *MultiSearchRequest) Validate() error {
	if err := ValidateSingleError(m); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

type MultiSearchResponse struct {
	Results  map[string]SearchFlightResponse `json:"results"`
	Metadata Metadata                        `json:"metadata"`
}

type RouteInfo struct {
	Code string `json:"code"`
	From string `json:"from"`
	To   string `json:"to"`
	Name string `json:"name"`
}

type RoutesResponse struct {
	Routes []RouteInfo `json:"routes"`
}

// Package export writes search results and ranked trips to timestamped CSV
// and JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
)

// Exporter writes output files under a single directory, creating it on
// first use.
type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// tripRow flattens a round trip for CSV output.
type tripRow struct {
	Route          string  `csv:"route"`
	RouteName      string  `csv:"route_name"`
	DepartureDate  string  `csv:"departure_date"`
	ReturnDate     string  `csv:"return_date"`
	OutboundFlight string  `csv:"outbound_flight"`
	OutboundTime   string  `csv:"outbound_time"`
	InboundFlight  string  `csv:"inbound_flight"`
	InboundTime    string  `csv:"inbound_time"`
	TotalPrice     float64 `csv:"total_price"`
	PricePerDay    float64 `csv:"price_per_day"`
	Currency       string  `csv:"currency"`
}

// WriteFlightsCSV writes the records of one search to a timestamped CSV
// file and returns its path.
func (e *Exporter) WriteFlightsCSV(result flight.SearchResult) (string, error) {
	path, file, err := e.create("flights", "csv")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&result.Flights, file); err != nil {
		return "", fmt.Errorf("write flights csv: %w", err)
	}

	return path, nil
}

// WriteTripsCSV writes ranked trips to a timestamped CSV file and returns
// its path.
func (e *Exporter) WriteTripsCSV(trips []trip.Trip) (string, error) {
	rows := make([]tripRow, 0, len(trips))

	for _, t := range trips {
		rows = append(rows, tripRow{
			Route:          t.Route.Code(),
			RouteName:      t.RouteName,
			DepartureDate:  t.DepartureDate,
			ReturnDate:     t.ReturnDate,
			OutboundFlight: t.Outbound.FlightNumber,
			OutboundTime:   t.Outbound.DepartureTime,
			InboundFlight:  t.Inbound.FlightNumber,
			InboundTime:    t.Inbound.DepartureTime,
			TotalPrice:     t.TotalPrice,
			PricePerDay:    t.PricePerDay,
			Currency:       t.Outbound.Currency,
		})
	}

	path, file, err := e.create("trips", "csv")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("write trips csv: %w", err)
	}

	return path, nil
}

// WriteJSON writes any payload as indented JSON to a timestamped file with
// the given name prefix and returns its path.
func (e *Exporter) WriteJSON(prefix string, payload any) (string, error) {
	path, file, err := e.create(prefix, "json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(payload); err != nil {
		return "", fmt.Errorf("write %s json: %w", prefix, err)
	}

	return path, nil
}

func (e *Exporter) create(prefix, ext string) (string, *os.File, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create output dir %s: %w", e.dir, err)
	}

	name := fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(e.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create %s: %w", path, err)
	}

	return path, file, nil
}

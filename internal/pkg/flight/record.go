package flight

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAirline is the carrier every scraped record belongs to.
	DefaultAirline = "Tigerair Taiwan"
	// DefaultCurrency is the currency fares are quoted in on the booking site.
	DefaultCurrency = "TWD"
)

// TimeSlot buckets a departure time into a coarse part of the day.
type TimeSlot string

const (
	TimeSlotEarlyMorning TimeSlot = "early_morning" // [00:00, 06:00)
	TimeSlotMorning      TimeSlot = "morning"       // [06:00, 12:00)
	TimeSlotAfternoon    TimeSlot = "afternoon"     // [12:00, 18:00)
	TimeSlotEvening      TimeSlot = "evening"       // [18:00, 24:00)
	TimeSlotUnknown      TimeSlot = "unknown"
)

// TimeSlotOf buckets an "HH:MM" departure time. Anything unparsable,
// including the empty string, maps to TimeSlotUnknown.
func TimeSlotOf(departureTime string) TimeSlot {
	hourStr, _, ok := strings.Cut(departureTime, ":")
	if !ok {
		return TimeSlotUnknown
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil || hour < 0 || hour > 23 {
		return TimeSlotUnknown
	}

	switch {
	case hour < 6:
		return TimeSlotEarlyMorning
	case hour < 12:
		return TimeSlotMorning
	case hour < 18:
		return TimeSlotAfternoon
	default:
		return TimeSlotEvening
	}
}

// Record is one scraped flight. Price and SeatsAvailable are pointers
// because "unknown" is a distinct state from zero/false.
type Record struct {
	FlightNumber     string    `json:"flight_number" csv:"flight_number"`
	Airline          string    `json:"airline" csv:"airline"`
	DepartureAirport string    `json:"departure_airport" csv:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport" csv:"arrival_airport"`
	DepartureTime    string    `json:"departure_time" csv:"departure_time"`
	ArrivalTime      string    `json:"arrival_time" csv:"arrival_time"`
	DepartureDate    string    `json:"departure_date" csv:"departure_date"`
	ArrivalDate      string    `json:"arrival_date" csv:"arrival_date"`
	Price            *float64  `json:"price" csv:"price"`
	Currency         string    `json:"currency" csv:"currency"`
	SeatsAvailable   *bool     `json:"seats_available" csv:"seats_available"`
	TimeSlot         TimeSlot  `json:"time_slot" csv:"time_slot"`
	CrawlTimestamp   time.Time `json:"crawl_timestamp" csv:"crawl_timestamp"`
	SourceURL        string    `json:"source_url" csv:"source_url"`
}

// NewRecord builds a record with carrier defaults and the crawl timestamp
// fixed at construction time. The flight number must already be validated
// by the caller; extractors never emit a record without one.
func NewRecord(flightNumber string) Record {
	return Record{
		FlightNumber:   flightNumber,
		Airline:        DefaultAirline,
		Currency:       DefaultCurrency,
		TimeSlot:       TimeSlotUnknown,
		CrawlTimestamp: time.Now(),
	}
}

// Available reports whether the record is bookable: seats confirmed
// available and a price was extracted.
func (r Record) Available() bool {
	return r.SeatsAvailable != nil && *r.SeatsAvailable && r.Price != nil
}

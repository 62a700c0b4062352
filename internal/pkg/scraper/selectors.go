package scraper

import (
	"time"

	"github.com/jwlin/tigerfare/internal/pkg/browser"
)

// Selector candidates for the booking form, in priority order. The site's
// markup is unversioned, so every logical target carries several ways of
// finding it; the first visible hit wins.

const fieldProbeTimeout = 5 * time.Second

// resultsRegionSelector covers the containers the results page renders
// under any of its known layouts.
const resultsRegionSelector = ".flight-card, .flight-result, .flight-item, .price, [class*='flight'], [class*='itinerary']"

// airportSearchTerms maps an IATA code to the localized names the
// autocomplete accepts. The code itself is always tried first.
var airportSearchTerms = map[string][]string{
	"TPE": {"台北", "桃園", "台北(桃園)"},
	"TSA": {"台北松山", "松山"},
	"KHH": {"高雄"},
	"NRT": {"東京", "成田", "東京成田"},
	"KIX": {"大阪", "關西"},
	"FUK": {"福岡"},
	"OKA": {"沖繩", "那霸", "沖繩(那霸)"},
	"NGO": {"名古屋", "中部"},
}

func searchTerms(code string) []string {
	return append([]string{code}, airportSearchTerms[code]...)
}

func originTarget() browser.Target {
	return browser.Target{
		Name:    "origin",
		Timeout: fieldProbeTimeout,
		Matchers: []browser.Matcher{
			{Selector: "input[placeholder*='出發地']"},
			{Selector: "input[placeholder*='出發']"},
			{Selector: "input[name*='departure']"},
			{Selector: "input[id*='departure']"},
			{Selector: ".departure-input"},
			{Selector: "#departure"},
			{Selector: "[data-testid*='origin']"},
		},
	}
}

func destinationTarget() browser.Target {
	return browser.Target{
		Name:    "destination",
		Timeout: fieldProbeTimeout,
		Matchers: []browser.Matcher{
			{Selector: "input[placeholder*='目的地']"},
			{Selector: "input[placeholder*='抵達']"},
			{Selector: "input[name*='arrival']"},
			{Selector: "input[id*='arrival']"},
			{Selector: ".arrival-input"},
			{Selector: "#arrival"},
			{Selector: "[data-testid*='destination']"},
		},
	}
}

// suggestionTarget locates an autocomplete entry for the airport after a
// search term has been typed.
func suggestionTarget(code, term string) browser.Target {
	return browser.Target{
		Name:    "airport-suggestion",
		Timeout: 2 * time.Second,
		Matchers: []browser.Matcher{
			{Selector: "[data-code='" + code + "']"},
			{Selector: "[data-iata='" + code + "']"},
			{Selector: "li", Text: code},
			{Selector: "div", Text: code},
			{Selector: "li", Text: term},
		},
	}
}

func departureDateTarget() browser.Target {
	return browser.Target{
		Name:    "departure-date",
		Timeout: fieldProbeTimeout,
		Matchers: []browser.Matcher{
			{Selector: "input[placeholder*='去程']"},
			{Selector: "input[placeholder*='出發日期']"},
			{Selector: "input[name*='departure']"},
			{Selector: "input[name*='outbound']"},
			{Selector: "#departure-date"},
			{Selector: "#departureDate"},
			{Selector: ".departure-date"},
			{Selector: "input[type='date']"},
		},
	}
}

func returnDateTarget() browser.Target {
	return browser.Target{
		Name:    "return-date",
		Timeout: fieldProbeTimeout,
		Matchers: []browser.Matcher{
			{Selector: "input[placeholder*='回程']"},
			{Selector: "input[placeholder*='回程日期']"},
			{Selector: "input[name*='return']"},
			{Selector: "input[name*='inbound']"},
			{Selector: "#return-date"},
			{Selector: "#returnDate"},
			{Selector: ".return-date"},
		},
	}
}

func submitTarget() browser.Target {
	return browser.Target{
		Name:    "submit",
		Timeout: 3 * time.Second,
		Matchers: []browser.Matcher{
			{Selector: ".search-btn"},
			{Selector: ".btn-search"},
			{Selector: "#search-btn"},
			{Selector: "#searchBtn"},
			{Selector: "button[type='submit']"},
			{Selector: "input[type='submit']"},
			{Selector: ".btn-primary"},
			{Selector: ".search-button"},
			{Selector: ".btn-orange"},
			{Selector: "[data-testid*='search']"},
			{Selector: "button[class*='search']"},
			{Selector: "button[class*='submit']"},
			{Selector: "button", Text: "搜尋"},
			{Selector: "button", Text: "搜索"},
			{Selector: "button", Text: "Search"},
		},
	}
}

// dateFormats returns the date renderings the picker is known to accept,
// most likely first. The input is always ISO "YYYY-MM-DD"; if it cannot be
// parsed it is passed through as-is.
func dateFormats(isoDate string) []string {
	parsed, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return []string{isoDate}
	}

	return []string{
		isoDate,
		parsed.Format("2006/01/02"),
		parsed.Format("01/02/2006"),
		parsed.Format("02/01/2006"),
		parsed.Format("2006年01月02日"),
	}
}

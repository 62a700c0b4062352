// Package extract turns blocks of text and HTML documents from the booking
// site's results page into flight records. All field extractors are pure
// functions over a text blob; the strategies in strategy.go decide which
// blobs to feed them.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Sanity bound for a plausible one-way fare in TWD. Numbers outside this
// range are never accepted as a price.
const (
	PriceMin = 1000
	PriceMax = 50000
)

var flightNumberPattern = regexp.MustCompile(`(?:IT|TT)\s*\d+`)

// FlightNumber finds the first IT/TT flight number in text, with internal
// whitespace removed. No match means the fragment yields no record.
func FlightNumber(text string) (string, bool) {
	match := flightNumberPattern.FindString(text)
	if match == "" {
		return "", false
	}

	return strings.Join(strings.Fields(match), ""), true
}

// Time patterns in priority order: bare HH:MM first, then the labeled
// variants the site renders next to departure/arrival blocks.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}:\d{2})`),
	regexp.MustCompile(`起飛[：:]?\s*(\d{1,2}:\d{2})`),
	regexp.MustCompile(`降落[：:]?\s*(\d{1,2}:\d{2})`),
	regexp.MustCompile(`(?i)departure[：:]?\s*(\d{1,2}:\d{2})`),
	regexp.MustCompile(`(?i)arrival[：:]?\s*(\d{1,2}:\d{2})`),
}

// Times collects every HH:MM occurrence, deduplicated in first-seen order.
// The caller treats the first value as the departure time and the second
// distinct value as the arrival time.
func Times(text string) []string {
	var times []string
	seen := make(map[string]bool)

	for _, pattern := range timePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			value := match[1]
			if seen[value] {
				continue
			}
			seen[value] = true
			times = append(times, value)
		}
	}

	return times
}

// Price patterns in priority order: currency-prefixed forms first, labeled
// forms next, bare grouped-digit numbers last.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`TWD\s*([0-9,]+)`),
	regexp.MustCompile(`NT\$\s*([0-9,]+)`),
	regexp.MustCompile(`([0-9]{1,5}(?:,[0-9]{3})*)\s*元`),
	regexp.MustCompile(`價格[：:]\s*([0-9,]+)`),
	regexp.MustCompile(`\b([1-9][0-9]{3}(?:,[0-9]{3})*)\b`),
}

// Price returns the first matched number within the sanity bound, walking
// patterns and matches in order. Out-of-range matches are skipped, not
// errors. nil means no plausible fare was found.
func Price(text string) *float64 {
	for _, pattern := range pricePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
			if err != nil {
				continue
			}

			if value >= PriceMin && value <= PriceMax {
				return &value
			}
		}
	}

	return nil
}

// Sold-out markers in the site's own wording plus the English variants it
// shows on the bilingual pages.
var soldOutKeywords = []string{
	"售完",
	"已滿",
	"sold out",
	"unavailable",
	"無座位",
	"額滿",
}

// SeatsAvailable defaults to true and flips to false when any sold-out
// keyword appears, matched case-insensitively.
func SeatsAvailable(text string) bool {
	lower := strings.ToLower(text)

	for _, keyword := range soldOutKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}

	return true
}

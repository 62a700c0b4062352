package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jwlin/tigerfare/internal/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="flight-card">
  <span>IT202</span><span>07:00</span><span>11:25</span><span>TWD 3,999</span>
</div>
</body></html>`

// scriptedSession is a page-fetcher fake: matchers listed in visible are
// found, everything else is not; the page markup is canned.
type scriptedSession struct {
	visible     map[browser.Matcher]bool
	navigateErr error
	htmlErr     error
	page        string
	url         string

	typed  []string
	clicks []browser.Matcher
	keys   []string
	closed bool
}

func (f *scriptedSession) Navigate(context.Context, string) error { return f.navigateErr }

func (f *scriptedSession) WaitReady(context.Context, string, time.Duration) error { return nil }

func (f *scriptedSession) Visible(_ context.Context, m browser.Matcher, _ time.Duration) (bool, error) {
	return f.visible[m], nil
}

func (f *scriptedSession) Click(_ context.Context, m browser.Matcher) error {
	f.clicks = append(f.clicks, m)

	return nil
}

func (f *scriptedSession) SetText(_ context.Context, _ browser.Matcher, text string) error {
	f.typed = append(f.typed, text)

	return nil
}

func (f *scriptedSession) SendKeys(_ context.Context, _ browser.Matcher, keys string) error {
	f.keys = append(f.keys, keys)

	return nil
}

func (f *scriptedSession) HTML(context.Context) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}

	return f.page, nil
}

func (f *scriptedSession) CurrentURL(context.Context) (string, error) { return f.url, nil }

func (f *scriptedSession) Close(context.Context) error {
	f.closed = true

	return nil
}

func factoryFor(session browser.Session, err error) browser.Factory {
	return func(context.Context) (browser.Session, error) {
		return session, err
	}
}

func testConfig() Config {
	return Config{
		BaseURL:       "https://www.tigerairtw.com",
		StepTimeout:   time.Second,
		ResultTimeout: time.Second,
	}
}

func cooperativeSession() *scriptedSession {
	return &scriptedSession{
		page: resultsPage,
		url:  "https://www.tigerairtw.com/zh-tw/book/select-flight",
		visible: map[browser.Matcher]bool{
			{Selector: "input[placeholder*='出發地']"}: true,
			{Selector: "input[placeholder*='目的地']"}: true,
			{Selector: "[data-code='TPE']"}:          true,
			{Selector: "[data-code='NRT']"}:          true,
			{Selector: "input[placeholder*='去程']"}:   true,
			{Selector: "input[placeholder*='回程']"}:   true,
			{Selector: ".search-btn"}:                true,
		},
	}
}

func TestSearchFlights_Success(t *testing.T) {
	session := cooperativeSession()
	s := New(testConfig(), factoryFor(session, nil), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "")

	assert.Empty(t, result.Errors)
	require.Equal(t, 1, result.SuccessCount)

	rec := result.Flights[0]
	assert.Equal(t, "IT202", rec.FlightNumber)
	assert.Equal(t, "TPE", rec.DepartureAirport)
	assert.Equal(t, "NRT", rec.ArrivalAirport)
	assert.Equal(t, "2025-06-02", rec.DepartureDate)
	assert.Equal(t, "https://www.tigerairtw.com/zh-tw/book/select-flight", rec.SourceURL)

	assert.True(t, session.closed)
	// code typed before localized aliases
	require.NotEmpty(t, session.typed)
	assert.Equal(t, "TPE", session.typed[0])
}

func TestSearchFlights_ReturnDateFilled(t *testing.T) {
	session := cooperativeSession()
	s := New(testConfig(), factoryFor(session, nil), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "2025-06-06")

	assert.Empty(t, result.Errors)
	assert.Contains(t, session.typed, "2025-06-06")
}

func TestSearchFlights_FormFillFailuresAreNonFatal(t *testing.T) {
	session := &scriptedSession{
		page:    "<html><body><p>loading</p></body></html>",
		url:     "https://www.tigerairtw.com/",
		visible: map[browser.Matcher]bool{},
	}
	s := New(testConfig(), factoryFor(session, nil), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "")

	assert.Equal(t, 0, result.SuccessCount)
	// origin, destination, departure date recorded; submit fell back to the
	// enter key and succeeded
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, session.keys, browser.KeyEnter)
	assert.True(t, session.closed)
}

func TestSearchFlights_SessionFailure(t *testing.T) {
	s := New(testConfig(), factoryFor(nil, errors.New("chrome not found")), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "")

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "browser session")
}

func TestSearchFlights_NavigationFailureStillClosesSession(t *testing.T) {
	session := cooperativeSession()
	session.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	s := New(testConfig(), factoryFor(session, nil), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "")

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "search TPE-NRT on 2025-06-02")
	assert.True(t, session.closed)
}

func TestSearchFlights_SourceURLFallsBackToBaseURL(t *testing.T) {
	session := cooperativeSession()
	session.url = "about:blank"
	s := New(testConfig(), factoryFor(session, nil), nil, nil)

	result := s.SearchFlights(context.Background(), "TPE", "NRT", "2025-06-02", "")

	require.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, "https://www.tigerairtw.com", result.Flights[0].SourceURL)
}

func TestDateFormats(t *testing.T) {
	formats := dateFormats("2025-06-02")

	assert.Equal(t, []string{
		"2025-06-02",
		"2025/06/02",
		"06/02/2025",
		"02/06/2025",
		"2025年06月02日",
	}, formats)

	assert.Equal(t, []string{"not-a-date"}, dateFormats("not-a-date"))
}

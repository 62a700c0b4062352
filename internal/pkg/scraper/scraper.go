// Package scraper drives one flight search against the booking site:
// navigate, fill the form through selector fallbacks, submit, and hand the
// resulting page to the extraction chain.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jwlin/tigerfare/internal/pkg/browser"
	"github.com/jwlin/tigerfare/internal/pkg/extract"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
)

// Config holds the per-search tuning knobs. MaxRetries and RetryDelay are
// loaded for the orchestrator's caller; the search flow itself never
// retries.
type Config struct {
	BaseURL        string
	NavigateSettle time.Duration
	SubmitSettle   time.Duration
	ResultSettle   time.Duration
	StepTimeout    time.Duration
	ResultTimeout  time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Scraper owns no session state of its own: each SearchFlights call opens
// a fresh session via the factory and always closes it before returning.
type Scraper struct {
	cfg     Config
	session browser.Factory
	chain   *extract.Chain
	logger  *slog.Logger
}

func New(cfg Config, session browser.Factory, chain *extract.Chain, logger *slog.Logger) *Scraper {
	if chain == nil {
		chain = extract.NewChain(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scraper{
		cfg:     cfg,
		session: session,
		chain:   chain,
		logger:  logger,
	}
}

// SearchFlights runs one search. It never returns an error: every failure
// mode degrades into error strings on the result, so a caller can always
// distinguish "ran fine, nothing found" (no errors) from "execution
// failed" (errors present).
func (s *Scraper) SearchFlights(ctx context.Context,
	departure, arrival, departureDate, returnDate string,
) flight.SearchResult {
	result := flight.NewSearchResult(map[string]string{
		"departure":      departure,
		"arrival":        arrival,
		"departure_date": departureDate,
		"return_date":    returnDate,
	})

	session, err := s.session(ctx)
	if err != nil {
		result.AddError(fmt.Sprintf("browser session: %v", err))

		return *result
	}

	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to close browser session",
				slog.String("error", err.Error()))
		}
	}()

	s.logger.InfoContext(ctx, "searching flights",
		slog.String("departure", departure),
		slog.String("arrival", arrival),
		slog.String("date", departureDate))

	if err := s.runSearch(ctx, session, result, departure, arrival, departureDate, returnDate); err != nil {
		result.AddError(fmt.Sprintf("search %s-%s on %s: %v", departure, arrival, departureDate, err))
	}

	return *result
}

func (s *Scraper) runSearch(ctx context.Context, session browser.Session,
	result *flight.SearchResult, departure, arrival, departureDate, returnDate string,
) error {
	if err := session.Navigate(ctx, s.cfg.BaseURL); err != nil {
		return err
	}

	if err := session.WaitReady(ctx, "body", s.cfg.StepTimeout); err != nil {
		s.logger.WarnContext(ctx, "page body not ready, continuing",
			slog.String("error", err.Error()))
	}

	if err := sleep(ctx, s.cfg.NavigateSettle); err != nil {
		return err
	}

	// Form fill failures are non-fatal: the search proceeds with whatever
	// was set and the failure is recorded on the result.
	if !s.fillAirport(ctx, session, departure, originTarget()) {
		result.AddError(fmt.Sprintf("form fill: origin %s not set", departure))
	}

	if !s.fillAirport(ctx, session, arrival, destinationTarget()) {
		result.AddError(fmt.Sprintf("form fill: destination %s not set", arrival))
	}

	if !s.fillDate(ctx, session, departureDate, departureDateTarget()) {
		result.AddError(fmt.Sprintf("form fill: departure date %s not set", departureDate))
	}

	if returnDate != "" && !s.fillDate(ctx, session, returnDate, returnDateTarget()) {
		result.AddError(fmt.Sprintf("form fill: return date %s not set", returnDate))
	}

	if err := sleep(ctx, s.cfg.SubmitSettle); err != nil {
		return err
	}

	if !s.submit(ctx, session) {
		result.AddError("form fill: search not submitted")
	}

	// The chain runs against whatever markup is present even when the
	// results region never appears.
	if err := session.WaitReady(ctx, resultsRegionSelector, s.cfg.ResultTimeout); err != nil {
		s.logger.WarnContext(ctx, "results region did not appear, parsing current page",
			slog.String("error", err.Error()))
	}

	if err := sleep(ctx, s.cfg.ResultSettle); err != nil {
		return err
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return err
	}

	sourceURL, err := session.CurrentURL(ctx)
	if err != nil || !strings.Contains(sourceURL, "tigerair") {
		sourceURL = s.cfg.BaseURL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse results page: %w", err)
	}

	for _, rec := range s.chain.Run(doc, sourceURL) {
		rec.DepartureAirport = departure
		rec.ArrivalAirport = arrival
		rec.DepartureDate = departureDate
		result.AddFlight(rec)
	}

	s.logger.InfoContext(ctx, "search finished",
		slog.Int("flights", result.SuccessCount),
		slog.Int("errors", result.ErrorCount))

	return nil
}

// fillAirport activates the first matching input candidate and tries each
// search term until an autocomplete suggestion can be clicked.
func (s *Scraper) fillAirport(ctx context.Context, session browser.Session,
	code string, target browser.Target,
) bool {
	for _, m := range target.Matchers {
		if ctx.Err() != nil {
			return false
		}

		visible, err := session.Visible(ctx, m, target.Timeout)
		if err != nil || !visible {
			continue
		}

		if err := session.Click(ctx, m); err != nil {
			continue
		}

		for _, term := range searchTerms(code) {
			if err := session.SetText(ctx, m, term); err != nil {
				continue
			}

			if s.clickSuggestion(ctx, session, code, term) {
				s.logger.DebugContext(ctx, "airport set",
					slog.String("target", target.Name),
					slog.String("code", code),
					slog.String("term", term))

				return true
			}
		}
	}

	return false
}

func (s *Scraper) clickSuggestion(ctx context.Context, session browser.Session, code, term string) bool {
	m, ok := browser.Resolve(ctx, session, suggestionTarget(code, term))
	if !ok {
		return false
	}

	return session.Click(ctx, m) == nil
}

// fillDate tries each input candidate and, per candidate, each known date
// rendering. A Tab keypress commits the value as the picker expects.
func (s *Scraper) fillDate(ctx context.Context, session browser.Session,
	isoDate string, target browser.Target,
) bool {
	for _, m := range target.Matchers {
		if ctx.Err() != nil {
			return false
		}

		visible, err := session.Visible(ctx, m, target.Timeout)
		if err != nil || !visible {
			continue
		}

		if err := session.Click(ctx, m); err != nil {
			continue
		}

		for _, format := range dateFormats(isoDate) {
			if err := session.SetText(ctx, m, format); err != nil {
				continue
			}

			if err := session.SendKeys(ctx, m, browser.KeyTab); err != nil {
				continue
			}

			s.logger.DebugContext(ctx, "date set",
				slog.String("target", target.Name),
				slog.String("value", format))

			return true
		}
	}

	return false
}

// submit clicks the first matching search control; when every candidate
// fails it falls back to an Enter keypress on the page body.
func (s *Scraper) submit(ctx context.Context, session browser.Session) bool {
	if m, ok := browser.Resolve(ctx, session, submitTarget()); ok {
		if err := session.Click(ctx, m); err == nil {
			return true
		}
	}

	if err := session.SendKeys(ctx, browser.Matcher{Selector: "body"}, browser.KeyEnter); err == nil {
		s.logger.DebugContext(ctx, "search triggered via enter key")

		return true
	}

	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

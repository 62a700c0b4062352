package trip

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jwlin/tigerfare/internal/pkg/flight"
)

// Finder sweeps the route/date grid sequentially. Searches run one at a
// time with a politeness delay between them so the site sees a human-like
// request rate.
type Finder struct {
	combiner *Combiner
	searcher Searcher
	delay    time.Duration
	logger   *slog.Logger
}

func NewFinder(combiner *Combiner, searcher Searcher, delay time.Duration, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Finder{
		combiner: combiner,
		searcher: searcher,
		delay:    delay,
		logger:   logger,
	}
}

// FindCheapestTrips combines every route with every departure date and
// returns up to maxResults trips ranked by total price ascending. A
// cancelled context stops the sweep early; whatever was collected so far is
// still ranked and returned.
func (f *Finder) FindCheapestTrips(ctx context.Context, routes []Route, dates []string, maxResults int) []Trip {
	trips := make([]Trip, 0, len(routes)*len(dates))

sweep:
	for _, route := range routes {
		for _, date := range dates {
			if ctx.Err() != nil {
				f.logger.InfoContext(ctx, "trip sweep cancelled, ranking partial results",
					slog.Int("collected", len(trips)))

				break sweep
			}

			trip, err := f.combiner.Combine(ctx, route, date)
			if err != nil {
				f.logger.WarnContext(ctx, "trip combination failed",
					slog.String("route", route.Code()),
					slog.String("date", date),
					slog.String("error", err.Error()))
			} else if trip != nil {
				trips = append(trips, *trip)
			}

			f.pause(ctx)
		}
	}

	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].TotalPrice < trips[j].TotalPrice
	})

	if maxResults > 0 && len(trips) > maxResults {
		trips = trips[:maxResults]
	}

	return trips
}

// SearchRoutes runs a one-way search for every route/date combination and
// returns the results keyed by "FROM_TO_DATE".
func (f *Finder) SearchRoutes(ctx context.Context, routes []Route, dates []string) map[string]flight.SearchResult {
	results := make(map[string]flight.SearchResult, len(routes)*len(dates))

	for _, route := range routes {
		for _, date := range dates {
			if ctx.Err() != nil {
				return results
			}

			results[route.Code()+"_"+date] = f.searcher.SearchFlights(ctx, route.From, route.To, date, "")

			f.pause(ctx)
		}
	}

	return results
}

// SearchDates returns the next daysAhead departure dates starting tomorrow.
func SearchDates(daysAhead int) []string {
	dates := make([]string, 0, daysAhead)

	for i := 1; i <= daysAhead; i++ {
		dates = append(dates, time.Now().AddDate(0, 0, i).Format("2006-01-02"))
	}

	return dates
}

func (f *Finder) pause(ctx context.Context) {
	if f.delay <= 0 {
		return
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

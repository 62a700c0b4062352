package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/jwlin/tigerfare/internal/app/dto"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
)

type Searcher interface {
	SearchFlights(ctx context.Context, departure, arrival, departureDate, returnDate string) flight.SearchResult
}

type FlightCacher interface {
	GetLockKey(departure, arrival, departureDate string) string
	GetCacheKey(departure, arrival, departureDate string) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetResult(ctx context.Context, key string) (flight.SearchResult, error)
	SetResult(ctx context.Context, key string, result flight.SearchResult, expiration time.Duration) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RouteSweeper runs the sequential multi-route sweep with its politeness
// delay between searches.
type RouteSweeper interface {
	SearchRoutes(ctx context.Context, routes []trip.Route, dates []string) map[string]flight.SearchResult
}

// ResultExporter persists raw search results to the output directory.
type ResultExporter interface {
	WriteFlightsCSV(result flight.SearchResult) (string, error)
	WriteJSON(prefix string, payload any) (string, error)
}

const scraperRateLimitKey = "scraper:search"

func allowScrape(ctx context.Context, limiter RateLimiter, rpm int) error {
	if limiter == nil || rpm <= 0 {
		return nil
	}

	res, err := limiter.Allow(ctx, scraperRateLimitKey, redis_rate.PerMinute(rpm))
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}

	if res.Allowed == 0 {
		return ErrTooManyRequests
	}

	return nil
}

// CachedSearcher is the cache-through searcher the sweep runs on: hits are
// served from Redis, misses are rate limited, scraped, and stored best
// effort. It never returns an error; a denied scrape degrades into an
// error string on the result, like every other search failure.
type CachedSearcher struct {
	Scraper         Searcher
	Cache           FlightCacher
	Limiter         RateLimiter
	RateLimitRPM    int
	CacheExpiration time.Duration
}

func NewCachedSearcher(scraper Searcher, cache FlightCacher, limiter RateLimiter,
	rateLimitRPM int, cacheExpiration time.Duration,
) *CachedSearcher {
	return &CachedSearcher{
		Scraper:         scraper,
		Cache:           cache,
		Limiter:         limiter,
		RateLimitRPM:    rateLimitRPM,
		CacheExpiration: cacheExpiration,
	}
}

func (c *CachedSearcher) SearchFlights(ctx context.Context,
	departure, arrival, departureDate, returnDate string,
) flight.SearchResult {
	cacheKey := c.Cache.GetCacheKey(departure, arrival, departureDate)

	if result, err := c.Cache.GetResult(ctx, cacheKey); err == nil {
		return result
	}

	if err := allowScrape(ctx, c.Limiter, c.RateLimitRPM); err != nil {
		result := flight.NewSearchResult(map[string]string{
			"departure":      departure,
			"arrival":        arrival,
			"departure_date": departureDate,
		})
		result.AddError(fmt.Sprintf("search %s-%s on %s: %v", departure, arrival, departureDate, err))

		return *result
	}

	result := c.Scraper.SearchFlights(ctx, departure, arrival, departureDate, returnDate)

	if err := c.Cache.SetResult(ctx, cacheKey, result, c.CacheExpiration); err != nil {
		slog.WarnContext(ctx, "failed to cache sweep result",
			slog.String("key", cacheKey),
			slog.String("error", err.Error()))
	}

	return result
}

type SearchService struct {
	Scraper         Searcher
	Cache           FlightCacher
	Limiter         RateLimiter
	Sweeper         RouteSweeper
	Exporter        ResultExporter
	RateLimitRPM    int
	CacheExpiration time.Duration
	LockTimeout     time.Duration
}

func NewSearchService(scraper Searcher, cache FlightCacher, limiter RateLimiter,
	sweeper RouteSweeper, exporter ResultExporter,
	rateLimitRPM int, cacheExpiration, lockTimeout time.Duration,
) *SearchService {
	return &SearchService{
		Scraper:         scraper,
		Cache:           cache,
		Limiter:         limiter,
		Sweeper:         sweeper,
		Exporter:        exporter,
		RateLimitRPM:    rateLimitRPM,
		CacheExpiration: cacheExpiration,
		LockTimeout:     lockTimeout,
	}
}

// SearchFlights runs one cached search. A cache hit skips the browser
// entirely; a miss is rate limited so the booking site never sees bursts.
// SearchFlights godoc
// @Summary      Search flights
// @Tags         Flights
// @Description  Search one route and date on the booking site
// @Param        request  body      dto.SearchFlightRequest  true  "Search Request"
// @Success      200      {object}  dto.SearchFlightResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      429      {object}  dto.ErrorResponse
// @Failure      502      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/v1/flights/search [post]
func (s *SearchService) SearchFlights(
	ctx context.Context,
	req dto.SearchFlightRequest,
) (dto.SearchFlightResponse, error) {
	startTime := time.Now()
	cacheHit := false

	cacheKey := s.Cache.GetCacheKey(req.Departure, req.Arrival, req.DepartureDate)
	lockKey := s.Cache.GetLockKey(req.Departure, req.Arrival, req.DepartureDate)

	result, err := s.Cache.GetResult(ctx, cacheKey)
	if err == nil {
		cacheHit = true
	} else {
		slog.DebugContext(ctx, "search cache miss", slog.String("key", cacheKey))
	}

	if !cacheHit {
		if err := allowScrape(ctx, s.Limiter, s.RateLimitRPM); err != nil {
			return dto.SearchFlightResponse{}, err
		}

		result = s.Scraper.SearchFlights(ctx, req.Departure, req.Arrival, req.DepartureDate, req.ReturnDate)

		// only one concurrent request with the same criteria writes the
		// cache; the others already have their own scrape result
		acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.LockTimeout)
		if err != nil {
			return dto.SearchFlightResponse{}, fmt.Errorf("failed to acquire lock: %w", err)
		}
		defer s.Cache.ReleaseLock(ctx, lockKey)

		if acquired {
			if err := s.Cache.SetResult(ctx, cacheKey, result, s.CacheExpiration); err != nil {
				return dto.SearchFlightResponse{}, fmt.Errorf("failed to set search result to cache: %w", err)
			}
		}
	}

	// an empty result with error strings means the search itself broke,
	// which must not masquerade as a clean "no flights found"
	if result.SuccessCount == 0 {
		if result.ErrorCount > 0 {
			return dto.SearchFlightResponse{}, searchFailed(result.Errors)
		}

		return dto.SearchFlightResponse{}, ErrNoFlightsFound
	}

	return dto.SearchFlightResponse{
		Flights:      dto.FlightsFromRecords(result.Flights),
		SearchParams: result.SearchParams,
		Metadata: dto.Metadata{
			TotalResults: result.SuccessCount,
			SearchTimeMs: int(time.Since(startTime).Milliseconds()),
			CacheHit:     cacheHit,
			Errors:       result.Errors,
		},
	}, nil
}

// SearchMultiple sweeps several routes and dates through the sequential
// sweeper and returns the results keyed by "FROM_TO_DATE". The sweep
// results are also persisted to the output directory when an exporter is
// configured.
// SearchMultiple godoc
// @Summary      Search multiple routes
// @Tags         Flights
// @Description  Search every route and date combination sequentially
// @Param        request  body      dto.MultiSearchRequest  true  "Multi Search Request"
// @Success      200      {object}  dto.MultiSearchResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/v1/flights/search/multiple [post]
func (s *SearchService) SearchMultiple(
	ctx context.Context,
	req dto.MultiSearchRequest,
) (dto.MultiSearchResponse, error) {
	startTime := time.Now()

	routes := make([]trip.Route, 0, len(req.Routes))

	for _, code := range req.Routes {
		route, err := trip.ParseRoute(code)
		if err != nil {
			return dto.MultiSearchResponse{}, badRequest(err)
		}

		routes = append(routes, route)
	}

	sweep := s.Sweeper.SearchRoutes(ctx, routes, req.Dates)

	results := make(map[string]dto.SearchFlightResponse, len(sweep))
	total := 0

	for key, result := range sweep {
		total += result.SuccessCount

		results[key] = dto.SearchFlightResponse{
			Flights:      dto.FlightsFromRecords(result.Flights),
			SearchParams: result.SearchParams,
			Metadata: dto.Metadata{
				TotalResults: result.SuccessCount,
				Errors:       result.Errors,
			},
		}
	}

	s.exportSweep(ctx, sweep)

	return dto.MultiSearchResponse{
		Results: results,
		Metadata: dto.Metadata{
			TotalResults: total,
			SearchTimeMs: int(time.Since(startTime).Milliseconds()),
		},
	}, nil
}

// exportSweep persists the sweep as one merged flights CSV plus a per-key
// JSON document. Export failures do not fail the request.
func (s *SearchService) exportSweep(ctx context.Context, sweep map[string]flight.SearchResult) {
	if s.Exporter == nil || len(sweep) == 0 {
		return
	}

	merged := flight.NewSearchResult(nil)
	for _, result := range sweep {
		for _, rec := range result.Flights {
			merged.AddFlight(rec)
		}
	}

	if path, err := s.Exporter.WriteFlightsCSV(*merged); err != nil {
		slog.WarnContext(ctx, "failed to export sweep csv", slog.String("error", err.Error()))
	} else {
		slog.InfoContext(ctx, "sweep exported", slog.String("path", path))
	}

	if path, err := s.Exporter.WriteJSON("flights", sweep); err != nil {
		slog.WarnContext(ctx, "failed to export sweep json", slog.String("error", err.Error()))
	} else {
		slog.InfoContext(ctx, "sweep exported", slog.String("path", path))
	}
}

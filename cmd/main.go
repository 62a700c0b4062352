package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/jwlin/tigerfare/internal/app/config"
	"github.com/jwlin/tigerfare/internal/app/dto"
	"github.com/jwlin/tigerfare/internal/app/endpoints"
	"github.com/jwlin/tigerfare/internal/app/service"
	"github.com/jwlin/tigerfare/internal/app/transport"
	"github.com/jwlin/tigerfare/internal/pkg/browser"
	"github.com/jwlin/tigerfare/internal/pkg/export"
	"github.com/jwlin/tigerfare/internal/pkg/extract"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/logger"
	"github.com/jwlin/tigerfare/internal/pkg/scraper"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
	"github.com/redis/go-redis/v9"
)

// @title           Tigerair Taiwan Fare Search API
// @version         0.0.1
// @description     tigerfare
// @host      localhost:8080
// @BasePath  /
func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel)

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	endpts := makeEndpoints(ctx, &cfg)
	router := transport.MakeHTTPRouter(&cfg, endpts)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config) endpoints.Endpoints {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	siteScraper := makeScraper(cfg)

	var exporter *export.Exporter
	if cfg.Output.Dir != "" {
		exporter = export.New(cfg.Output.Dir)
	}

	return endpoints.Endpoints{
		FlightEndpoint: makeFlightEndpoint(siteScraper, redisClient, exporter, cfg),
		TripEndpoint:   makeTripEndpoint(siteScraper, exporter, cfg),
	}
}

func makeScraper(cfg *config.Config) *scraper.Scraper {
	chain := extract.NewChain(slog.Default())
	factory := browser.NewChromeFactory(cfg.Scraper.Headless)

	return scraper.New(scraper.Config{
		BaseURL:        cfg.Scraper.BaseURL,
		NavigateSettle: cfg.Scraper.NavigateSettle,
		SubmitSettle:   cfg.Scraper.SubmitSettle,
		ResultSettle:   cfg.Scraper.ResultSettle,
		StepTimeout:    cfg.Scraper.StepTimeout,
		ResultTimeout:  cfg.Scraper.ResultTimeout,
		MaxRetries:     cfg.Scraper.MaxRetries,
		RetryDelay:     cfg.Scraper.RetryDelay,
	}, factory, chain, slog.Default())
}

func makeFlightEndpoint(siteScraper *scraper.Scraper,
	redisClient *redis.Client, exporter *export.Exporter, cfg *config.Config,
) endpoints.FlightEndpoint {
	searchCache := flight.NewSearchCache(redisClient)
	limiter := redis_rate.NewLimiter(redisClient)

	// the multi-route sweep runs on a cache-through searcher so the
	// politeness delay and rate limit apply between live scrapes only
	cachedSearcher := service.NewCachedSearcher(siteScraper, searchCache, limiter,
		cfg.Scraper.RateLimitRPM, cfg.Search.CacheExpiration)
	sweepCombiner := trip.NewCombiner(cachedSearcher, cfg.Search.TripDurationDays)
	sweeper := trip.NewFinder(sweepCombiner, cachedSearcher, cfg.Search.RequestDelay, slog.Default())

	var resultExporter service.ResultExporter
	if exporter != nil {
		resultExporter = exporter
	}

	searchService := service.NewSearchService(siteScraper, searchCache, limiter,
		sweeper, resultExporter,
		cfg.Scraper.RateLimitRPM, cfg.Search.CacheExpiration, cfg.Search.LockTimeout)

	return endpoints.MakeFlightEndpoint(searchService)
}

func makeTripEndpoint(siteScraper *scraper.Scraper, exporter *export.Exporter,
	cfg *config.Config,
) endpoints.TripEndpoint {
	routes := cfg.Search.Routes
	if len(routes) == 0 {
		routes = config.DefaultRoutes()
	}

	combiner := trip.NewCombiner(siteScraper, cfg.Search.TripDurationDays)
	finder := trip.NewFinder(combiner, siteScraper, cfg.Search.RequestDelay, slog.Default())

	var tripExporter service.TripExporter
	if exporter != nil {
		tripExporter = exporter
	}

	tripService := service.NewTripService(finder, tripExporter, routes,
		cfg.Search.DaysAhead, cfg.Search.MaxResults)

	return endpoints.MakeTripEndpoint(tripService)
}

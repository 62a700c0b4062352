package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jwlin/tigerfare/internal/app/config"
	"github.com/jwlin/tigerfare/internal/app/dto"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
)

type TripFinder interface {
	FindCheapestTrips(ctx context.Context, routes []trip.Route, dates []string, maxResults int) []trip.Trip
}

type TripExporter interface {
	WriteTripsCSV(trips []trip.Trip) (string, error)
	WriteJSON(prefix string, payload any) (string, error)
}

type TripService struct {
	Finder        TripFinder
	Exporter      TripExporter
	DefaultRoutes []config.RouteConfig
	DaysAhead     int
	MaxResults    int
}

func NewTripService(finder TripFinder, exporter TripExporter,
	defaultRoutes []config.RouteConfig, daysAhead, maxResults int,
) *TripService {
	return &TripService{
		Finder:        finder,
		Exporter:      exporter,
		DefaultRoutes: defaultRoutes,
		DaysAhead:     daysAhead,
		MaxResults:    maxResults,
	}
}

// CheapestTrips sweeps the requested routes and dates, falling back to the
// configured route table and the upcoming departure window when the request
// leaves them empty.
// CheapestTrips godoc
// @Summary      Find cheapest round trips
// @Tags         Trips
// @Description  Rank round trips by total price across routes and dates
// @Param        request  body      dto.CheapestTripsRequest  true  "Trip Request"
// @Success      200      {object}  dto.CheapestTripsResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/v1/trips/cheapest [post]
func (s *TripService) CheapestTrips(
	ctx context.Context,
	req dto.CheapestTripsRequest,
) (dto.CheapestTripsResponse, error) {
	startTime := time.Now()

	routes, err := s.resolveRoutes(req.Routes)
	if err != nil {
		return dto.CheapestTripsResponse{}, err
	}

	dates := req.Dates
	if len(dates) == 0 {
		dates = trip.SearchDates(s.DaysAhead)
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = s.MaxResults
	}

	trips := s.Finder.FindCheapestTrips(ctx, routes, dates, maxResults)
	if len(trips) == 0 {
		return dto.CheapestTripsResponse{}, ErrNoTripsFound
	}

	// export failures do not fail the request; the CSV and JSON writes
	// are independent of each other
	if s.Exporter != nil {
		if path, err := s.Exporter.WriteTripsCSV(trips); err != nil {
			slog.WarnContext(ctx, "failed to export trips csv", slog.String("error", err.Error()))
		} else {
			slog.InfoContext(ctx, "trips exported", slog.String("path", path))
		}

		if path, err := s.Exporter.WriteJSON("trips", trips); err != nil {
			slog.WarnContext(ctx, "failed to export trips json", slog.String("error", err.Error()))
		} else {
			slog.InfoContext(ctx, "trips exported", slog.String("path", path))
		}
	}

	return dto.CheapestTripsResponse{
		Trips: dto.TripsFromDomain(trips),
		Metadata: dto.Metadata{
			TotalResults: len(trips),
			SearchTimeMs: int(time.Since(startTime).Milliseconds()),
		},
	}, nil
}

// Routes lists the configured route table.
// Routes godoc
// @Summary      List configured routes
// @Tags         Routes
// @Success      200  {object}  dto.RoutesResponse
// @Router       /api/v1/routes [get]
func (s *TripService) Routes(_ context.Context) (dto.RoutesResponse, error) {
	routes := make([]dto.RouteInfo, 0, len(s.DefaultRoutes))

	for _, r := range s.DefaultRoutes {
		routes = append(routes, dto.RouteInfo{
			Code: r.From + "_" + r.To,
			From: r.From,
			To:   r.To,
			Name: r.Name,
		})
	}

	return dto.RoutesResponse{Routes: routes}, nil
}

func (s *TripService) resolveRoutes(codes []string) ([]trip.Route, error) {
	if len(codes) == 0 {
		routes := make([]trip.Route, 0, len(s.DefaultRoutes))
		for _, r := range s.DefaultRoutes {
			routes = append(routes, trip.Route{From: r.From, To: r.To, Name: r.Name})
		}

		return routes, nil
	}

	routes := make([]trip.Route, 0, len(codes))

	for _, code := range codes {
		route, err := trip.ParseRoute(code)
		if err != nil {
			return nil, badRequest(err)
		}

		routes = append(routes, route)
	}

	return routes, nil
}

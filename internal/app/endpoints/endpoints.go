package endpoints

import (
	"context"

	"github.com/jwlin/tigerfare/internal/app/dto"
)

type SearchService interface {
	SearchFlights(ctx context.Context, req dto.SearchFlightRequest) (dto.SearchFlightResponse, error)
	SearchMultiple(ctx context.Context, req dto.MultiSearchRequest) (dto.MultiSearchResponse, error)
}

type TripService interface {
	CheapestTrips(ctx context.Context, req dto.CheapestTripsRequest) (dto.CheapestTripsResponse, error)
	Routes(ctx context.Context) (dto.RoutesResponse, error)
}

type Endpoints struct {
	FlightEndpoint FlightEndpoint
	TripEndpoint   TripEndpoint
}

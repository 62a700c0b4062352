package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/jwlin/tigerfare/internal/app/dto"
)

type TripEndpoint struct {
	CheapestTrips endpoint.Endpoint
	Routes        endpoint.Endpoint
}

func MakeTripEndpoint(service TripService) TripEndpoint {
	return TripEndpoint{
		CheapestTrips: makeCheapestTripsEndpoint(service),
		Routes:        makeRoutesEndpoint(service),
	}
}

func makeCheapestTripsEndpoint(service TripService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.CheapestTripsRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.CheapestTrips(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("trip service: %w", err)
		}

		return response, nil
	}
}

func makeRoutesEndpoint(service TripService) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		response, err := service.Routes(ctx)
		if err != nil {
			return nil, fmt.Errorf("trip service: %w", err)
		}

		return response, nil
	}
}

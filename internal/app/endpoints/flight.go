package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/jwlin/tigerfare/internal/app/dto"
)

type FlightEndpoint struct {
	SearchFlights  endpoint.Endpoint
	SearchMultiple endpoint.Endpoint
}

func MakeFlightEndpoint(service SearchService) FlightEndpoint {
	return FlightEndpoint{
		SearchFlights:  makeSearchFlightsEndpoint(service),
		SearchMultiple: makeSearchMultipleEndpoint(service),
	}
}

func makeSearchFlightsEndpoint(service SearchService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchFlightRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.SearchFlights(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("search service: %w", err)
		}

		return response, nil
	}
}

func makeSearchMultipleEndpoint(service SearchService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.MultiSearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.SearchMultiple(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("search service: %w", err)
		}

		return response, nil
	}
}

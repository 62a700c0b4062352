package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jwlin/tigerfare/internal/app/config"
	"github.com/jwlin/tigerfare/internal/app/dto"
	"github.com/jwlin/tigerfare/internal/app/endpoints"
	httptransport "github.com/jwlin/tigerfare/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/flights/search", httptransport.MakeHandlerFunc(
			endpts.FlightEndpoint.SearchFlights,
			httptransport.DecodeRequest[dto.SearchFlightRequest],
			httptransport.ResponseWithBody,
		))

		router.Post("/flights/search/multiple", httptransport.MakeHandlerFunc(
			endpts.FlightEndpoint.SearchMultiple,
			httptransport.DecodeRequest[dto.MultiSearchRequest],
			httptransport.ResponseWithBody,
		))

		router.Post("/trips/cheapest", httptransport.MakeHandlerFunc(
			endpts.TripEndpoint.CheapestTrips,
			httptransport.DecodeRequest[dto.CheapestTripsRequest],
			httptransport.ResponseWithBody,
		))

		router.Get("/routes", httptransport.MakeHandlerFunc(
			endpts.TripEndpoint.Routes,
			httptransport.DecodeNothing,
			httptransport.ResponseWithBody,
		))
	})

	return router
}

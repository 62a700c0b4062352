package service

import (
	"net/http"
	"strings"

	"github.com/jwlin/tigerfare/internal/pkg/exception"
)

var ErrNoFlightsFound = exception.ApplicationError{
	Message:    "no flights found",
	StatusCode: http.StatusNotFound,
}

var ErrNoTripsFound = exception.ApplicationError{
	Message:    "no bookable trips found",
	StatusCode: http.StatusNotFound,
}

var ErrTooManyRequests = exception.ApplicationError{
	Message:    "search rate limit reached, try again later",
	StatusCode: http.StatusTooManyRequests,
}

// searchFailed distinguishes "the search ran but broke" from a clean
// empty result: the scraper's error strings travel to the client instead
// of collapsing into a 404.
func searchFailed(errs []string) error {
	return exception.ApplicationError{
		Message:    "search failed: " + strings.Join(errs, "; "),
		StatusCode: http.StatusBadGateway,
	}
}

func badRequest(err error) error {
	return exception.ApplicationError{
		Message:    err.Error(),
		StatusCode: http.StatusBadRequest,
	}
}

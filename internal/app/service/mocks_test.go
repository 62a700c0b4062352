//go:build unit

package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
	"github.com/stretchr/testify/mock"
)

type MockSearcher struct {
	mock.Mock
}

func NewMockSearcher(t *testing.T) *MockSearcher {
	m := &MockSearcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSearcher) SearchFlights(ctx context.Context,
	departure, arrival, departureDate, returnDate string,
) flight.SearchResult {
	args := m.Called(ctx, departure, arrival, departureDate, returnDate)

	return args.Get(0).(flight.SearchResult)
}

type MockFlightCacher struct {
	mock.Mock
}

func NewMockFlightCacher(t *testing.T) *MockFlightCacher {
	m := &MockFlightCacher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFlightCacher) GetLockKey(departure, arrival, departureDate string) string {
	args := m.Called(departure, arrival, departureDate)

	return args.String(0)
}

func (m *MockFlightCacher) GetCacheKey(departure, arrival, departureDate string) string {
	args := m.Called(departure, arrival, departureDate)

	return args.String(0)
}

func (m *MockFlightCacher) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	args := m.Called(ctx, key, timeout)

	return args.Bool(0), args.Error(1)
}

func (m *MockFlightCacher) ReleaseLock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *MockFlightCacher) GetResult(ctx context.Context, key string) (flight.SearchResult, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(flight.SearchResult), args.Error(1)
}

func (m *MockFlightCacher) SetResult(ctx context.Context, key string,
	result flight.SearchResult, expiration time.Duration,
) error {
	args := m.Called(ctx, key, result, expiration)

	return args.Error(0)
}

type MockRateLimiter struct {
	mock.Mock
}

func NewMockRateLimiter(t *testing.T) *MockRateLimiter {
	m := &MockRateLimiter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	args := m.Called(ctx, key, limit)

	var res *redis_rate.Result
	if args.Get(0) != nil {
		res = args.Get(0).(*redis_rate.Result)
	}

	return res, args.Error(1)
}

type MockTripFinder struct {
	mock.Mock
}

func NewMockTripFinder(t *testing.T) *MockTripFinder {
	m := &MockTripFinder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTripFinder) FindCheapestTrips(ctx context.Context,
	routes []trip.Route, dates []string, maxResults int,
) []trip.Trip {
	args := m.Called(ctx, routes, dates, maxResults)

	var trips []trip.Trip
	if args.Get(0) != nil {
		trips = args.Get(0).([]trip.Trip)
	}

	return trips
}

type MockTripExporter struct {
	mock.Mock
}

func NewMockTripExporter(t *testing.T) *MockTripExporter {
	m := &MockTripExporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTripExporter) WriteTripsCSV(trips []trip.Trip) (string, error) {
	args := m.Called(trips)

	return args.String(0), args.Error(1)
}

func (m *MockTripExporter) WriteJSON(prefix string, payload any) (string, error) {
	args := m.Called(prefix, payload)

	return args.String(0), args.Error(1)
}

type MockRouteSweeper struct {
	mock.Mock
}

func NewMockRouteSweeper(t *testing.T) *MockRouteSweeper {
	m := &MockRouteSweeper{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRouteSweeper) SearchRoutes(ctx context.Context,
	routes []trip.Route, dates []string,
) map[string]flight.SearchResult {
	args := m.Called(ctx, routes, dates)

	var results map[string]flight.SearchResult
	if args.Get(0) != nil {
		results = args.Get(0).(map[string]flight.SearchResult)
	}

	return results
}

type MockResultExporter struct {
	mock.Mock
}

func NewMockResultExporter(t *testing.T) *MockResultExporter {
	m := &MockResultExporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockResultExporter) WriteFlightsCSV(result flight.SearchResult) (string, error) {
	args := m.Called(result)

	return args.String(0), args.Error(1)
}

func (m *MockResultExporter) WriteJSON(prefix string, payload any) (string, error) {
	args := m.Called(prefix, payload)

	return args.String(0), args.Error(1)
}

package flight

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

func TestSearchCache_Keys_Closure(t *testing.T) {
	keyRequest := func(departure, arrival, date, wantCache, wantLock string) func(t *testing.T) {
		return func(t *testing.T) {
			c := &SearchCache{}

			if got := c.GetCacheKey(departure, arrival, date); got != wantCache {
				t.Fatalf("expected %s, got %s", wantCache, got)
			}
			if got := c.GetLockKey(departure, arrival, date); got != wantLock {
				t.Fatalf("expected %s, got %s", wantLock, got)
			}
		}
	}

	t.Run("basic_keys", keyRequest("TPE", "NRT", "2025-06-02",
		"search:cache:2025-06-02:TPE:NRT", "search:lock:2025-06-02:TPE:NRT"))
}

func TestSearchCache_AcquireLock_Closure(t *testing.T) {
	acquireLockRequest := func(key string, timeout time.Duration, mockSetup func(m *MockRedisClient), want bool) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockRedisClient(t)
			mockSetup(m)
			c := NewSearchCache(m)

			got, err := c.AcquireLock(context.Background(), key, timeout)
			if err != nil {
				t.Fatalf("AcquireLock returned error: %v", err)
			}
			if got != want {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}

	t.Run("lock_acquired", acquireLockRequest("test-key", 5*time.Second, func(m *MockRedisClient) {
		m.On("SetNX", mock.Anything, "test-key", "1", 5*time.Second).Return(redis.NewBoolResult(true, nil))
	}, true))

	t.Run("lock_not_acquired", acquireLockRequest("test-key", 5*time.Second, func(m *MockRedisClient) {
		m.On("SetNX", mock.Anything, "test-key", "1", 5*time.Second).Return(redis.NewBoolResult(false, nil))
	}, false))
}

func TestSearchCache_SetResult(t *testing.T) {
	m := NewMockRedisClient(t)
	m.On("Set", mock.Anything, "test-cache", mock.Anything, 10*time.Minute).Return(redis.NewStatusResult("OK", nil))
	c := NewSearchCache(m)

	result := SearchResult{SearchParams: map[string]string{"departure": "TPE"}}
	result.AddFlight(priced("IT200", 4200, true))

	if err := c.SetResult(context.Background(), "test-cache", result, 10*time.Minute); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
}

func TestSearchCache_GetResult_Closure(t *testing.T) {
	getResultRequest := func(key string, mockSetup func(m *MockRedisClient), want SearchResult, wantErr bool) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockRedisClient(t)
			mockSetup(m)
			c := NewSearchCache(m)

			got, err := c.GetResult(context.Background(), key)
			if (err != nil) != wantErr {
				t.Fatalf("GetResult error = %v, wantErr %v", err, wantErr)
			}
			if !wantErr {
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("GetResult mismatch (-want +got):\n%s", diff)
				}
			}
		}
	}

	stored := SearchResult{SuccessCount: 1, Flights: []Record{{FlightNumber: "IT200"}}}
	payload, _ := json.Marshal(stored)

	t.Run("hit", getResultRequest("test-cache", func(m *MockRedisClient) {
		m.On("Get", mock.Anything, "test-cache").Return(redis.NewStringResult(string(payload), nil))
	}, stored, false))

	t.Run("miss", getResultRequest("test-cache", func(m *MockRedisClient) {
		m.On("Get", mock.Anything, "test-cache").Return(redis.NewStringResult("", redis.Nil))
	}, SearchResult{}, true))
}

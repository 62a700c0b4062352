package export

import (
	"os"
	"strings"
	"testing"

	"github.com/jwlin/tigerfare/internal/pkg/flight"
	"github.com/jwlin/tigerfare/internal/pkg/trip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(number string, price float64) flight.Record {
	rec := flight.NewRecord(number)
	rec.Price = &price
	available := true
	rec.SeatsAvailable = &available
	rec.DepartureTime = "07:00"

	return rec
}

func TestWriteFlightsCSV(t *testing.T) {
	exporter := New(t.TempDir())

	result := flight.NewSearchResult(nil)
	result.AddFlight(record("IT202", 3999))

	path, err := exporter.WriteFlightsCSV(*result)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flight_number")
	assert.Contains(t, string(data), "IT202")
	assert.Contains(t, string(data), "3999")
}

func TestWriteTripsCSV(t *testing.T) {
	exporter := New(t.TempDir())

	trips := []trip.Trip{{
		Route:         trip.Route{From: "TPE", To: "NRT", Name: "台北-東京成田"},
		RouteName:     "台北-東京成田",
		DepartureDate: "2025-06-02",
		ReturnDate:    "2025-06-06",
		Outbound:      record("IT202", 5000),
		Inbound:       record("IT217", 3000),
		TotalPrice:    8000,
		PricePerDay:   1600,
	}}

	path, err := exporter.WriteTripsCSV(trips)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TPE_NRT")
	assert.Contains(t, string(data), "8000")
	assert.Contains(t, string(data), "IT217")
}

func TestWriteJSON(t *testing.T) {
	exporter := New(t.TempDir())

	path, err := exporter.WriteJSON("trips", map[string]int{"count": 2})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count": 2`)
}

func TestCreateOutputDirOnDemand(t *testing.T) {
	dir := t.TempDir() + "/nested/output"
	exporter := New(dir)

	_, err := exporter.WriteJSON("routes", []string{"TPE_NRT"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

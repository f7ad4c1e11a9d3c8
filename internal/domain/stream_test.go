package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListingResolvedEvent(t *testing.T) {
	runID := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	event := NewListingResolvedEvent(runID, ResolutionUpdate{
		ListingID: 42,
		GeoID:     Int64Ptr(7),
		Methods:   []MethodTag{MethodGeoContains},
		State:     StateGeoResolved,
	}, at)

	assert.Equal(t, runID, event.RunID)
	assert.Equal(t, int64(42), event.ListingID)
	assert.Equal(t, []string{"geo_contains"}, event.Methods)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "street_id", "nil references are omitted")
	assert.Equal(t, "geo_resolved", raw["state"])
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{MinLat: 46.3, MinLon: 30.6, MaxLat: 46.6, MaxLon: 30.8}
	assert.True(t, b.Valid())
	assert.True(t, b.Contains(Point{Lat: 46.48, Lon: 30.73}))
	assert.False(t, b.Contains(Point{Lat: 50.45, Lon: 30.52}))
	assert.False(t, BoundingBox{}.Valid())
}

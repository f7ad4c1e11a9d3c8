package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Одесса, Дерибасовская -> Киев, Крещатик: ~ 442 км
	d := HaversineDistance(46.4843, 30.7383, 50.4471, 30.5224)
	assert.InDelta(t, 441500, d, 2000)

	assert.Equal(t, 0.0, HaversineDistance(46.48, 30.73, 46.48, 30.73))
}

func TestMetersPerDegreeLon(t *testing.T) {
	assert.InDelta(t, MetersPerDegreeLat, MetersPerDegreeLon(0), 1e-6)
	assert.InDelta(t, MetersPerDegreeLat*math.Cos(46.48*math.Pi/180), MetersPerDegreeLon(46.48), 1e-6)
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		valid    bool
	}{
		{"odesa", 46.48, 30.73, true},
		{"zero point", 0, 0, false},
		{"lat out of range", 91, 30, false},
		{"lon out of range", 46, 181, false},
		{"nan", math.NaN(), 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestValidateRadius(t *testing.T) {
	assert.True(t, ValidateRadius(200))
	assert.True(t, ValidateRadius(5000))
	assert.False(t, ValidateRadius(0))
	assert.False(t, ValidateRadius(100000))
}

package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/visit-point/api-go/apperr"
)

// One degree of latitude in meters on the 6371 km sphere.
const metersPerDegLat = earthRadiusMeters * math.Pi / 180

func TestDistanceMeters_SamePoint(t *testing.T) {
	assert.Zero(t, DistanceMeters(48.1422, 17.1002, 48.1422, 17.1002))
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// One block apart in the Bratislava old town, roughly 13 m.
	d := DistanceMeters(48.1422, 17.1002, 48.1423, 17.1003)
	assert.InDelta(t, 13.37, d, 0.1)
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	d1 := DistanceMeters(48.1422, 17.1002, 48.1522, 17.1102)
	d2 := DistanceMeters(48.1522, 17.1102, 48.1422, 17.1002)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestIsWithinGeofence_Boundary(t *testing.T) {
	const lat, lon = 48.1422, 17.1002

	// A point 99.9 m due north is inside, 100.1 m is outside.
	inside := lat + 99.9/metersPerDegLat
	outside := lat + 100.1/metersPerDegLat

	assert.True(t, IsWithinGeofence(inside, lon, lat, lon, 100))
	assert.False(t, IsWithinGeofence(outside, lon, lat, lon, 100))
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"valid", 48.1422, 17.1002, false},
		{"lat upper bound", 90, 180, false},
		{"lat lower bound", -90, -180, false},
		{"lat too big", 90.01, 0, true},
		{"lat too small", -90.01, 0, true},
		{"lon too big", 0, 180.01, true},
		{"lon too small", 0, -180.01, true},
		{"NaN latitude", math.NaN(), 0, true},
		{"Inf longitude", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lon)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrBadRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package utils

import (
	"math"

	"github.com/visit-point/api-go/apperr"
)

// Mean Earth radius in meters, per the haversine convention.
const earthRadiusMeters = 6371000.0

// DefaultGeofenceRadiusMeters is how close a check-in has to be to the
// place coordinates before it counts as physically present.
const DefaultGeofenceRadiusMeters = 100.0

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// ValidateCoordinates rejects non-finite or out-of-range coordinates.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return apperr.ErrBadRequest.WithMessage("Coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return apperr.ErrBadRequest.WithMessage("Latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperr.ErrBadRequest.WithMessage("Longitude must be between -180 and 180")
	}
	return nil
}

// DistanceMeters calculates the great-circle distance between two
// coordinates using the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinGeofence reports whether the claimed position is within
// thresholdMeters of the place position.
func IsWithinGeofence(userLat, userLon, placeLat, placeLon, thresholdMeters float64) bool {
	return DistanceMeters(userLat, userLon, placeLat, placeLon) <= thresholdMeters
}

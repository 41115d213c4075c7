package config

import (
	"os"
	"strconv"

	"github.com/visit-point/api-go/utils"
)

// GeofenceRadiusMeters returns the configured check-in radius, falling back
// to the 100 m default when unset or unparsable.
func GeofenceRadiusMeters() float64 {
	raw := os.Getenv("GEOFENCE_RADIUS_METERS")
	if raw == "" {
		return utils.DefaultGeofenceRadiusMeters
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || radius <= 0 {
		return utils.DefaultGeofenceRadiusMeters
	}
	return radius
}

func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

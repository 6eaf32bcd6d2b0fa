// Package geo holds the coordinate parsing and great-circle distance helpers
// used for geofence validation between a check-in and a checkout GPS fix.
package geo

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// ParseCoordinate parses the "lat, lon" string encoding used by the mobile
// client (comma plus optional whitespace). Malformed or non-finite values are
// treated as absent, never as an error: a bad GPS string on a row must not
// fail the whole report.
func ParseCoordinate(text string) (Point, bool) {
	parts := strings.SplitN(text, ",", 2)
	if len(parts) != 2 {
		return Point{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, false
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Point{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, false
	}

	return Point{Lat: lat, Lon: lon}, true
}

// DistanceKm returns the haversine great-circle distance between two points
// in kilometers, at full float precision. Use RoundKm for the stored value.
func DistanceKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to 3 decimal places (meter precision) for
// storage and display. Threshold comparisons use the unrounded value.
func RoundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}

// IsWithinRadius reports whether b lies within maxKm of a. The comparison is
// inclusive and uses full precision.
func IsWithinRadius(a, b Point, maxKm float64) bool {
	return DistanceKm(a, b) <= maxKm
}

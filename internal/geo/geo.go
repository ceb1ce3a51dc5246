package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/OCAP2/mapsnap/pkg/core"
	"github.com/golang/geo/s2"
)

// Distances are great-circle distances on a sphere of mean Earth radius and
// are expressed in kilometers. MetersPerPixel works in meters; callers scale
// by 1000 when comparing the two.

const (
	// EarthRadiusKm is the mean Earth radius.
	EarthRadiusKm = 6371.0088

	// EarthCircumferenceMeters is the equatorial circumference used for the
	// screen pixel to ground distance conversion.
	EarthCircumferenceMeters = 40_075_017.0
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// CoordinateFromString parses a string in the format "lng,lat" into a Coordinate.
func CoordinateFromString(coords string) (core.Coordinate, error) {
	split := strings.Split(coords, ",")
	if len(split) != 2 {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(split[0]), 64)
	if err != nil {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(split[1]), 64)
	if err != nil {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	return core.Coordinate{Lng: lng, Lat: lat}, nil
}

func toLatLng(c core.Coordinate) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

func toPoint(c core.Coordinate) s2.Point {
	return s2.PointFromLatLng(toLatLng(c))
}

func fromPoint(p s2.Point) core.Coordinate {
	ll := s2.LatLngFromPoint(p)
	return core.Coordinate{Lng: ll.Lng.Degrees(), Lat: ll.Lat.Degrees()}
}

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b core.Coordinate) float64 {
	if a == b {
		return 0
	}
	return toLatLng(a).Distance(toLatLng(b)).Radians() * EarthRadiusKm
}

// Midpoint returns the point halfway between a and b along the great circle.
func Midpoint(a, b core.Coordinate) core.Coordinate {
	if a == b {
		return a
	}
	return fromPoint(s2.Interpolate(0.5, toPoint(a), toPoint(b)))
}

// MetersPerPixel returns the ground distance covered by one screen pixel at
// the given latitude and zoom level.
func MetersPerPixel(latitude, zoom float64) float64 {
	latitudeRadians := latitude * (math.Pi / 180)
	return (EarthCircumferenceMeters * math.Cos(latitudeRadians)) / math.Pow(2, zoom+8)
}

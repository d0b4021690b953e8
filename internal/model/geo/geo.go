package geo

import (
	"strconv"
	"strings"
)

// Seoul City Hall, used whenever a request omits coordinates.
const (
	DefaultLatitude  = 37.5665
	DefaultLongitude = 126.9780
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate as "lat, lng".
func (c Coordinate) String() string {
	return FormatNumber(c.Latitude) + ", " + FormatNumber(c.Longitude)
}

// FormatNumber prints v in its shortest form, keeping a ".0" on whole numbers
// so 127 reads as "127.0".
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// Location is a coordinate resolved to a human-readable address.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewLocation builds a Location for the coordinate.
func NewLocation(c Coordinate, address string) Location {
	return Location{Address: address, Latitude: c.Latitude, Longitude: c.Longitude}
}

// FallbackLocation is the Location used when no address can be resolved.
func FallbackLocation(c Coordinate) Location {
	return NewLocation(c, FallbackAddress(c))
}

// FallbackAddress returns the placeholder address "위치: {lat}, {lng}".
func FallbackAddress(c Coordinate) string {
	return "위치: " + c.String()
}

// Coordinate returns the point the location was resolved from.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Place is a recommendation candidate near a query point.
type Place struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Rating    float64  `json:"rating"`
	Types     []string `json:"types"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	// Distance from the query point in kilometres.
	Distance float64 `json:"distance"`
}

// Position returns the place's coordinate, if it has one.
func (p Place) Position() (Coordinate, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}, true
}

// WithPosition returns a copy of p located at c.
func (p Place) WithPosition(c Coordinate) Place {
	lat, lng := c.Latitude, c.Longitude
	p.Latitude = &lat
	p.Longitude = &lng
	return p
}

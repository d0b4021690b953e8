// Package payload normalises the request bodies shared by the HTTP surfaces.
package payload

import (
	"github.com/tripmate/backend/internal/model/geo"
	"github.com/tripmate/backend/pkg/utils"
)

// DefaultRadiusMeters is the search radius when a request omits one.
const DefaultRadiusMeters = 5000

// Point is a coordinate as sent by clients: either field may be missing,
// a JSON number or a numeric string.
type Point struct {
	Latitude  utils.Number `json:"latitude"`
	Longitude utils.Number `json:"longitude"`
}

type coordinate struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Coordinate applies the Seoul City Hall defaults and checks the ranges.
func (p Point) Coordinate() (geo.Coordinate, error) {
	c := coordinate{
		Latitude:  p.Latitude.Or(geo.DefaultLatitude),
		Longitude: p.Longitude.Or(geo.DefaultLongitude),
	}
	if err := utils.ValidateStruct(c); err != nil {
		return geo.Coordinate{}, err
	}
	return geo.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}, nil
}

// Search is a nearby-search request body.
type Search struct {
	Point
	Radius    utils.Number `json:"radius"`
	PlaceType string       `json:"place_type"`
	SessionID string       `json:"session_id"`
}

type searchParams struct {
	Radius    int    `json:"radius" validate:"gt=0,lte=50000"`
	PlaceType string `json:"place_type" validate:"max=64"`
}

// Params resolves the search centre, radius and place type, filling defaults.
func (s Search) Params(defaultType string) (geo.Coordinate, int, string, error) {
	center, err := s.Coordinate()
	if err != nil {
		return geo.Coordinate{}, 0, "", err
	}

	params := searchParams{
		Radius:    int(s.Radius.Or(DefaultRadiusMeters)),
		PlaceType: s.PlaceType,
	}
	if params.PlaceType == "" {
		params.PlaceType = defaultType
	}
	if err := utils.ValidateStruct(params); err != nil {
		return geo.Coordinate{}, 0, "", err
	}
	return center, params.Radius, params.PlaceType, nil
}

// Package search serves the stand-alone nearby-search page API.
package search

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/handler/payload"
	"github.com/tripmate/backend/internal/model/category"
	"github.com/tripmate/backend/internal/model/geo"
	"github.com/tripmate/backend/internal/service/places"
	"github.com/tripmate/backend/pkg/utils"
)

// Geocoder resolves coordinates to addresses without failing.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c geo.Coordinate) geo.Location
}

// Searcher runs nearby searches for one surface.
type Searcher interface {
	Search(ctx context.Context, q places.Query) places.Result
	Surface() places.Surface
}

// MapRenderer draws search results as an HTML map.
type MapRenderer interface {
	Render(center geo.Location, places []geo.Place, zoom int) (string, error)
}

// Handler serves /get_location, /search_places and /get_place_types.
type Handler struct {
	geocoder   Geocoder
	searcher   Searcher
	maps       MapRenderer
	categories category.Store
}

// New creates the search handler.
func New(geocoder Geocoder, searcher Searcher, maps MapRenderer, categories category.Store) *Handler {
	return &Handler{
		geocoder:   geocoder,
		searcher:   searcher,
		maps:       maps,
		categories: categories,
	}
}

// RegisterRoutes mounts the search routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/get_location", h.handleGetLocation)
	r.Post("/search_places", h.handleSearchPlaces)
	r.Get("/get_place_types", h.handlePlaceTypes)
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	var body payload.Point
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := body.Coordinate()
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"location": h.geocoder.ReverseGeocode(r.Context(), c),
	})
}

func (h *Handler) handleSearchPlaces(w http.ResponseWriter, r *http.Request) {
	var body payload.Search
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	center, radius, placeType, err := body.Params(category.TouristAttraction)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	location := h.geocoder.ReverseGeocode(ctx, center)
	result := h.searcher.Search(ctx, places.Query{Center: center, RadiusMeters: radius, Category: placeType})

	mapHTML, err := h.maps.Render(location, result.Places, h.searcher.Surface().MapZoom)
	if err != nil {
		log.Error().Err(err).Msg("render search map")
		utils.RespondError(w, http.StatusInternalServerError, "failed to render map")
		return
	}

	log.Info().
		Str("category", placeType).
		Str("label", h.categories.Label(placeType)).
		Bool("offered", h.categories.Known(placeType)).
		Int("radius", radius).
		Str("source", string(result.Source)).
		Int("count", len(result.Places)).
		Msg("places searched")

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"location": location,
		"places":   result.Places,
		"map_html": mapHTML,
	})
}

func (h *Handler) handlePlaceTypes(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.categories.List())
}

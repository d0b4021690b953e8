package chat

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/handler/payload"
	"github.com/tripmate/backend/internal/model/category"
	"github.com/tripmate/backend/internal/model/chat"
	"github.com/tripmate/backend/internal/model/geo"
	"github.com/tripmate/backend/internal/service/assistant"
	"github.com/tripmate/backend/internal/service/places"
	"github.com/tripmate/backend/pkg/utils"
)

const maxHistoryLimit = 100

// ChatService answers messages and keeps per-session state.
type ChatService interface {
	Reply(ctx context.Context, sessionID, message string) (assistant.Reply, error)
	SetLocation(ctx context.Context, sessionID string, loc geo.Location) error
	History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error)
}

// Sessions resolves the session id of a request.
type Sessions interface {
	Resolve(w http.ResponseWriter, r *http.Request, supplied string) string
}

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

// Handler serves the chat assistant's HTTP API.
type Handler struct {
	chatSvc  ChatService
	sessions Sessions
	geocoder Geocoder
	searcher Searcher
	maps     MapRenderer
}

// New creates the chat handler.
func New(chatSvc ChatService, sessions Sessions, geocoder Geocoder, searcher Searcher, maps MapRenderer) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		sessions: sessions,
		geocoder: geocoder,
		searcher: searcher,
		maps:     maps,
	}
}

// RegisterRoutes mounts the chat routes; callers mount them under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/location", h.handleLocation)
	r.Post("/places", h.handlePlaces)
	r.Get("/history/{sessionID}", h.handleHistory)
}

type chatRequest struct {
	Message   string `json:"message" validate:"max=2000"`
	SessionID string `json:"session_id" validate:"max=128"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := h.sessions.Resolve(w, r, body.SessionID)
	reply, err := h.chatSvc.Reply(r.Context(), sessionID, body.Message)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("chat reply failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to save chat")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"response":   reply.Text,
		"session_id": sessionID,
	})
}

type locationRequest struct {
	payload.Point
	SessionID string `json:"session_id"`
}

func (h *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	var body locationRequest
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := body.Coordinate()
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := h.sessions.Resolve(w, r, body.SessionID)
	location := h.geocoder.ReverseGeocode(r.Context(), c)

	if err := h.chatSvc.SetLocation(r.Context(), sessionID, location); err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("update session location failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to save location")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"location":   location,
		"session_id": sessionID,
	})
}

func (h *Handler) handlePlaces(w http.ResponseWriter, r *http.Request) {
	var body payload.Search
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The chat surface always searches the default radius.
	body.Radius = utils.Number{}
	center, radius, placeType, err := body.Params(category.Restaurant)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := h.sessions.Resolve(w, r, body.SessionID)
	result := h.searcher.Search(r.Context(), places.Query{Center: center, RadiusMeters: radius, Category: placeType})

	mapHTML, err := h.maps.Render(geo.FallbackLocation(center), result.Places, h.searcher.Surface().MapZoom)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("render chat map")
		utils.RespondError(w, http.StatusInternalServerError, "failed to render map")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"places":     result.Places,
		"map_html":   mapHTML,
		"session_id": sessionID,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			utils.RespondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	history, err := h.chatSvc.History(r.Context(), sessionID, limit)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("load history failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": history,
	})
}

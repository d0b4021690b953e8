package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/handler/chat"
	"github.com/tripmate/backend/internal/handler/search"
	"github.com/tripmate/backend/internal/handler/socket"
	middlewarePkg "github.com/tripmate/backend/internal/middleware"
	"github.com/tripmate/backend/internal/model/category"
	chatservice "github.com/tripmate/backend/internal/service/chat"
	"github.com/tripmate/backend/internal/service/maprender"
	"github.com/tripmate/backend/internal/service/places"
	"github.com/tripmate/backend/internal/service/session"
	"github.com/tripmate/backend/pkg/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP surfaces are built on.
type Deps struct {
	Geocoder      search.Geocoder
	GeneralSearch *places.Searcher
	ChatSearch    *places.Searcher
	Maps          *maprender.Renderer
	Categories    category.Store
	Chat          *chatservice.Service
	Sessions      *session.Router
	Store         Pinger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Store != nil {
			if err := deps.Store.Ping(r.Context()); err != nil {
				log.Error().Err(err).Msg("health check failed")
				utils.RespondError(w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	})

	searchHandler := search.New(deps.Geocoder, deps.GeneralSearch, deps.Maps, deps.Categories)
	searchHandler.RegisterRoutes(r)

	chatHandler := chat.New(deps.Chat, deps.Sessions, deps.Geocoder, deps.ChatSearch, deps.Maps)
	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
	})

	socketHandler := socket.New(deps.Chat, deps.Sessions)
	socketHandler.RegisterRoutes(r)

	return r
}

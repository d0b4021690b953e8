package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/handler"
	"github.com/tripmate/backend/internal/model/category"
	"github.com/tripmate/backend/internal/service/assistant"
	"github.com/tripmate/backend/internal/service/chat"
	geoservice "github.com/tripmate/backend/internal/service/geo"
	"github.com/tripmate/backend/internal/service/maprender"
	"github.com/tripmate/backend/internal/service/places"
	"github.com/tripmate/backend/internal/service/session"
	"github.com/tripmate/backend/internal/storage/sqlite"
	"github.com/tripmate/backend/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(cfg.Server.LogLevel)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file, continuing with system environment variables only")
	}

	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("failed to open conversation store")
	}
	defer store.Close()

	httpClient := &http.Client{Timeout: cfg.Server.ClientTimeout}

	provider, err := places.NewProvider(cfg.Places, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places provider")
	}
	if provider == nil {
		log.Info().Msg("places provider disabled, serving sample places")
	} else if cfg.Places.Provider == config.PlacesProviderGoogle && cfg.Places.GoogleAPIKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY not set, serving sample places")
	}

	backend, err := assistant.NewBackend(ctx, cfg, httpClient)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize assistant backend, continuing with keyword responder")
		backend = nil
	}

	router := handler.NewRouter(handler.Deps{
		Geocoder:      geoservice.NewGeocoder(cfg.Geocoder, httpClient),
		GeneralSearch: places.NewSearcher(provider, places.GeneralSurface),
		ChatSearch:    places.NewSearcher(provider, places.ChatSurface),
		Maps:          maprender.New(),
		Categories:    category.NewMemoryStore(category.Seed()),
		Chat:          chat.NewService(store, assistant.NewService(backend)),
		Sessions:      session.NewRouter(cfg.Session.Secret),
		Store:         store,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("travel backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package assistant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/config"
)

// NewBackend selects the backend named by cfg.Assistant.Backend. It returns
// a nil Backend for "none", and for "auto" when nothing is configured.
// An explicitly named backend without credentials is an error.
func NewBackend(ctx context.Context, cfg *config.Config, httpClient *http.Client) (Backend, error) {
	name := cfg.Assistant.Backend
	if name == config.BackendAuto {
		name = autoBackend(cfg)
		if name == config.BackendNone {
			log.Info().Msg("no assistant backend configured, using keyword responder")
			return nil, nil
		}
	}

	var (
		backend Backend
		err     error
	)
	switch name {
	case config.BackendNone:
		return nil, nil
	case config.BackendDify:
		backend, err = NewDifyBackend(cfg.Dify, httpClient)
	case config.BackendArk:
		backend, err = NewArkBackend(ctx, cfg.AI)
	case config.BackendOpenAI:
		backend, err = NewOpenAIBackend(cfg.OpenAI, httpClient)
	default:
		return nil, fmt.Errorf("unknown assistant backend %q", name)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", backend.Name()).Msg("assistant backend ready")
	return backend, nil
}

func autoBackend(cfg *config.Config) string {
	switch {
	case cfg.Dify.Enabled():
		return config.BackendDify
	case cfg.AI.Enabled():
		return config.BackendArk
	case cfg.OpenAI.Enabled():
		return config.BackendOpenAI
	default:
		return config.BackendNone
	}
}

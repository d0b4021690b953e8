package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/model/geo"
)

var (
	// ErrNoCredential means the provider has no API key configured.
	ErrNoCredential = errors.New("places provider credential not configured")
	// ErrProviderUnavailable covers network failures, error statuses and malformed payloads.
	ErrProviderUnavailable = errors.New("places provider unavailable")
	// ErrNoResults means the provider answered but nothing usable came back.
	ErrNoResults = errors.New("places provider returned no usable results")
)

// Query describes a nearby search.
type Query struct {
	Center       geo.Coordinate
	RadiusMeters int
	Category     string
}

// Provider finds places near a point. Returned places may lack a position;
// distances are recomputed by the Searcher.
type Provider interface {
	Nearby(ctx context.Context, q Query) ([]geo.Place, error)
}

// NewProvider builds the provider selected by cfg. It returns nil for
// "none", in which case searches are served from the sample catalogs.
func NewProvider(cfg config.PlacesConfig, httpClient *http.Client) (Provider, error) {
	switch cfg.Provider {
	case config.PlacesProviderGoogle:
		return NewGoogleProvider(cfg.GoogleAPIKey, cfg.GoogleBaseURL, httpClient), nil
	case config.PlacesProviderElastic:
		provider, err := NewElasticProvider(cfg.ElasticURL, cfg.ElasticIndex, httpClient)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.PlacesProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}
}

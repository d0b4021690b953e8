package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/model/geo"
)

// ErrGeocodeFailed is returned when the provider cannot resolve a coordinate.
var ErrGeocodeFailed = errors.New("reverse geocoding failed")

// Geocoder resolves coordinates to addresses through a Nominatim-compatible API.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewGeocoder creates a Geocoder. A nil client falls back to a 10s-timeout client.
func NewGeocoder(cfg config.GeocoderConfig, client *http.Client) *Geocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	g := &Geocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    client,
	}
	if cfg.RatePerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return g
}

// ReverseGeocode resolves c to a Location. It never fails: any provider
// problem yields the "위치: lat, lng" fallback address.
func (g *Geocoder) ReverseGeocode(ctx context.Context, c geo.Coordinate) geo.Location {
	address, err := g.Lookup(ctx, c)
	if err != nil {
		log.Warn().Err(err).Float64("lat", c.Latitude).Float64("lng", c.Longitude).Msg("reverse geocode fell back")
		return geo.FallbackLocation(c)
	}
	return geo.NewLocation(c, address)
}

// Lookup makes a single reverse-geocoding call and returns the display address.
func (g *Geocoder) Lookup(ctx context.Context, c geo.Coordinate) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
		}
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("accept-language", "ko")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", ErrGeocodeFailed, resp.StatusCode)
	}

	var result struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGeocodeFailed, err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrGeocodeFailed, result.Error)
	}
	if result.DisplayName == "" {
		return "", fmt.Errorf("%w: empty address", ErrGeocodeFailed)
	}

	return result.DisplayName, nil
}

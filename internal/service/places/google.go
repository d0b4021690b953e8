package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tripmate/backend/internal/model/geo"
)

// GoogleProvider queries the Google Places Nearby Search API.
type GoogleProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleProvider creates a provider. An empty apiKey makes every call
// return ErrNoCredential without touching the network.
func NewGoogleProvider(apiKey, baseURL string, httpClient *http.Client) *GoogleProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name     string   `json:"name"`
		Vicinity string   `json:"vicinity"`
		Rating   float64  `json:"rating"`
		Types    []string `json:"types"`
		Geometry struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Nearby implements Provider.
func (p *GoogleProvider) Nearby(ctx context.Context, q Query) ([]geo.Place, error) {
	if p.apiKey == "" {
		return nil, ErrNoCredential
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%v,%v", q.Center.Latitude, q.Center.Longitude))
	params.Set("radius", strconv.Itoa(q.RadiusMeters))
	params.Set("type", q.Category)
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/nearbysearch/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var result nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		return nil, fmt.Errorf("%w: status %s %s", ErrProviderUnavailable, result.Status, result.ErrorMessage)
	}

	places := make([]geo.Place, 0, len(result.Results))
	for _, r := range result.Results {
		place := geo.Place{
			Name:    r.Name,
			Address: r.Vicinity,
			Rating:  r.Rating,
			Types:   r.Types,
		}
		if loc := r.Geometry.Location; loc.Lat != nil && loc.Lng != nil {
			place = place.WithPosition(geo.Coordinate{Latitude: *loc.Lat, Longitude: *loc.Lng})
		}
		places = append(places, place)
	}
	return places, nil
}

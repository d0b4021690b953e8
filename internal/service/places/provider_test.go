package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/model/category"
)

func TestGoogleProviderParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nearbysearch/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "37.5,127", q.Get("location"))
		assert.Equal(t, "5000", q.Get("radius"))
		assert.Equal(t, "hotel", q.Get("type"))
		assert.Equal(t, "secret", q.Get("key"))

		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"name": "Hotel A", "vicinity": "Jung-gu", "rating": 4.4, "types": ["lodging"],
				 "geometry": {"location": {"lat": 37.51, "lng": 127.0}}},
				{"name": "No Geometry", "vicinity": "?"}
			]
		}`))
	}))
	defer srv.Close()

	provider := NewGoogleProvider("secret", srv.URL, srv.Client())
	places, err := provider.Nearby(context.Background(), Query{Center: center, RadiusMeters: 5000, Category: category.Hotel})
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Hotel A", places[0].Name)
	assert.Equal(t, "Jung-gu", places[0].Address)
	assert.Equal(t, 4.4, places[0].Rating)
	_, ok := places[0].Position()
	assert.True(t, ok)
	_, ok = places[1].Position()
	assert.False(t, ok)
}

func TestGoogleProviderStatusErrors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   error
	}{
		"denied":       {http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`, ErrProviderUnavailable},
		"zero results": {http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`, ErrNoResults},
		"http error":   {http.StatusBadGateway, ``, ErrProviderUnavailable},
		"malformed":    {http.StatusOK, `not json`, ErrProviderUnavailable},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewGoogleProvider("k", srv.URL, srv.Client()).Nearby(context.Background(), Query{Center: center})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestElasticProviderSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/_search", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var search map[string]any
		require.NoError(t, json.Unmarshal(body, &search))
		assert.Contains(t, string(body), `"geo_distance"`)
		assert.Contains(t, string(body), `"5000m"`)
		assert.Contains(t, string(body), `"restaurant"`)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"took": 1,
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_index": "places", "_id": "1", "sort": [0.2],
					 "_source": {"name": "국밥집", "address": "중구", "rating": 4.1, "types": ["restaurant"],
					             "location": {"lat": 37.501, "lon": 127.001}}},
					{"_index": "places", "_id": "2", "sort": [0.0],
					 "_source": {"name": "주소만", "address": "종로구", "types": ["restaurant"]}}
				]
			}
		}`))
	}))
	defer srv.Close()

	provider, err := NewElasticProvider(srv.URL, "places", srv.Client())
	require.NoError(t, err)

	places, err := provider.Nearby(context.Background(), Query{Center: center, RadiusMeters: 5000, Category: category.Restaurant})
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "국밥집", places[0].Name)
	pos, ok := places[0].Position()
	require.True(t, ok)
	assert.Equal(t, 37.501, pos.Latitude)
	assert.Equal(t, 127.001, pos.Longitude)

	_, ok = places[1].Position()
	assert.False(t, ok)
}

func TestElasticProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"type":"boom"},"status":500}`))
	}))
	defer srv.Close()

	provider, err := NewElasticProvider(srv.URL, "places", srv.Client())
	require.NoError(t, err)

	_, err = provider.Nearby(context.Background(), Query{Center: center, RadiusMeters: 100})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestNewProviderSelection(t *testing.T) {
	google, err := NewProvider(config.PlacesConfig{Provider: config.PlacesProviderGoogle}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GoogleProvider{}, google)

	elasticProvider, err := NewProvider(config.PlacesConfig{Provider: config.PlacesProviderElastic, ElasticURL: "http://127.0.0.1:9200", ElasticIndex: "places"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ElasticProvider{}, elasticProvider)

	none, err := NewProvider(config.PlacesConfig{Provider: config.PlacesProviderNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = NewProvider(config.PlacesConfig{Provider: "bing"}, nil)
	assert.Error(t, err)
}

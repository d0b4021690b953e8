package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/model/geo"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) (*Geocoder, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	g := NewGeocoder(config.GeocoderConfig{BaseURL: srv.URL, UserAgent: "test-agent"}, srv.Client())
	return g, &calls
}

func TestReverseGeocodeReturnsDisplayName(t *testing.T) {
	g, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "37.5665", r.URL.Query().Get("lat"))
		assert.Equal(t, "126.978", r.URL.Query().Get("lon"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"display_name":"서울특별시청, 세종대로, 중구, 서울"}`))
	})

	loc := g.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 37.5665, Longitude: 126.978})
	assert.Equal(t, "서울특별시청, 세종대로, 중구, 서울", loc.Address)
	assert.Equal(t, 37.5665, loc.Latitude)
	assert.Equal(t, 126.978, loc.Longitude)
}

func TestReverseGeocodeFallsBack(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"rate limited": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"provider error": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			g, calls := newTestGeocoder(t, handler)
			loc := g.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: 37.5, Longitude: 127})
			assert.Equal(t, "위치: 37.5, 127.0", loc.Address)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries expected")
		})
	}
}

func TestReverseGeocodeUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	g := NewGeocoder(config.GeocoderConfig{BaseURL: srv.URL}, nil)
	loc := g.ReverseGeocode(context.Background(), geo.Coordinate{Latitude: -33.9, Longitude: 151.2})
	assert.Contains(t, loc.Address, "-33.9")
	assert.Contains(t, loc.Address, "151.2")
}

func TestLookupWrapsSentinel(t *testing.T) {
	g, _ := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := g.Lookup(context.Background(), geo.Coordinate{})
	require.ErrorIs(t, err, ErrGeocodeFailed)
}

func TestDistance(t *testing.T) {
	seoul := geo.Coordinate{Latitude: 37.5665, Longitude: 126.9780}
	busan := geo.Coordinate{Latitude: 35.1796, Longitude: 129.0756}

	assert.InDelta(t, 325, Distance(seoul, busan), 5)
	assert.Zero(t, Distance(seoul, seoul))
	assert.InDelta(t, Distance(seoul, busan), Distance(busan, seoul), 1e-9)
}

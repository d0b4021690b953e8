package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "HTTP_CLIENT_TIMEOUT", "PLACES_PROVIDER", "ASSISTANT_BACKEND",
		"GEOCODER_RPS", "CHAT_DB_PATH", "GOOGLE_PLACES_API_KEY", "DIFY_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ClientTimeout)
	assert.Equal(t, PlacesProviderGoogle, cfg.Places.Provider)
	assert.Equal(t, BackendAuto, cfg.Assistant.Backend)
	assert.Equal(t, 1.0, cfg.Geocoder.RatePerSecond)
	assert.Equal(t, "chat_history.db", cfg.Storage.Path)
	assert.Equal(t, "https://api.dify.ai", cfg.Dify.BaseURL)
	assert.False(t, cfg.Dify.Enabled())
}

func TestParseAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":8080",
		"5002":           ":5002",
		":9000":          ":9000",
		"127.0.0.1:5001": "127.0.0.1:5001",
	}
	for in, want := range cases {
		got, err := parseAddr(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := parseAddr("eighty")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("PLACES_PROVIDER", "yelp")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("HTTP_CLIENT_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestAIConfigEnabled(t *testing.T) {
	assert.False(t, AIConfig{APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{APIKey: "k", Model: "m"}.Enabled())
	assert.True(t, AIConfig{AccessKey: "a", SecretKey: "s", Model: "m"}.Enabled())
}

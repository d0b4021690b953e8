package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting of the service.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Session   SessionConfig
	Geocoder  GeocoderConfig
	Places    PlacesConfig
	Assistant AssistantConfig
	AI        AIConfig
	OpenAI    OpenAIConfig
	Dify      DifyConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	geocoder, err := loadGeocoderConfig()
	if err != nil {
		return nil, err
	}

	places, err := loadPlacesConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Storage:   StorageConfig{Path: getEnvOrDefault("CHAT_DB_PATH", "chat_history.db")},
		Session:   SessionConfig{Secret: strings.TrimSpace(os.Getenv("SECRET_KEY"))},
		Geocoder:  geocoder,
		Places:    places,
		Assistant: assistant,
		AI:        ai,
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Dify: DifyConfig{
			APIKey:  strings.TrimSpace(os.Getenv("DIFY_API_KEY")),
			BaseURL: getEnvOrDefault("DIFY_BASE_URL", "https://api.dify.ai"),
		},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr     string
	LogLevel string
	// Timeout bounds every outbound provider call.
	ClientTimeout time.Duration
}

func loadServerConfig() (ServerConfig, error) {
	timeout, err := parseDurationEnv("HTTP_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	addr, err := parseAddr(strings.TrimSpace(os.Getenv("PORT")))
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Addr:          addr,
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		ClientTimeout: timeout,
	}, nil
}

func parseAddr(port string) (string, error) {
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are passed through as-is.
		return port, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// StorageConfig locates the conversation database file.
type StorageConfig struct {
	Path string
}

// SessionConfig holds the session cookie signing secret.
type SessionConfig struct {
	Secret string
}

// GeocoderConfig describes the reverse-geocoding provider.
type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	// RatePerSecond throttles outbound calls; zero disables throttling.
	RatePerSecond float64
}

func loadGeocoderConfig() (GeocoderConfig, error) {
	rps := 1.0
	if override, err := parseOptionalFloatEnv("GEOCODER_RPS"); err != nil {
		return GeocoderConfig{}, err
	} else if override != nil {
		rps = *override
	}

	return GeocoderConfig{
		BaseURL:       getEnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:     getEnvOrDefault("GEOCODER_USER_AGENT", "travel_chat_bot"),
		RatePerSecond: rps,
	}, nil
}

// Supported nearby-place providers.
const (
	PlacesProviderGoogle  = "google"
	PlacesProviderElastic = "elastic"
	PlacesProviderNone    = "none"
)

// PlacesConfig describes the nearby-place provider.
type PlacesConfig struct {
	Provider      string
	GoogleAPIKey  string
	GoogleBaseURL string
	ElasticURL    string
	ElasticIndex  string
}

func loadPlacesConfig() (PlacesConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("PLACES_PROVIDER", PlacesProviderGoogle))
	switch provider {
	case PlacesProviderGoogle, PlacesProviderElastic, PlacesProviderNone:
	default:
		return PlacesConfig{}, fmt.Errorf("invalid PLACES_PROVIDER value %q", provider)
	}

	return PlacesConfig{
		Provider:      provider,
		GoogleAPIKey:  strings.TrimSpace(os.Getenv("GOOGLE_PLACES_API_KEY")),
		GoogleBaseURL: getEnvOrDefault("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		ElasticURL:    getEnvOrDefault("ELASTIC_URL", "http://localhost:9200"),
		ElasticIndex:  getEnvOrDefault("ELASTIC_INDEX", "places"),
	}, nil
}

// Supported conversational backends.
const (
	BackendAuto   = "auto"
	BackendDify   = "dify"
	BackendArk    = "ark"
	BackendOpenAI = "openai"
	BackendNone   = "none"
)

// AssistantConfig selects the conversational backend.
type AssistantConfig struct {
	Backend string
}

func loadAssistantConfig() (AssistantConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("ASSISTANT_BACKEND", BackendAuto))
	switch backend {
	case BackendAuto, BackendDify, BackendArk, BackendOpenAI, BackendNone:
	default:
		return AssistantConfig{}, fmt.Errorf("invalid ASSISTANT_BACKEND value %q", backend)
	}
	return AssistantConfig{Backend: backend}, nil
}

// DifyConfig describes the Dify chat-messages API.
type DifyConfig struct {
	APIKey  string
	BaseURL string
}

// Enabled reports whether a Dify key is present.
func (c DifyConfig) Enabled() bool {
	return c.APIKey != ""
}

// OpenAIConfig describes an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether an OpenAI key is present.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// AIConfig describes the Ark model settings.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required Ark credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

package assistant

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tripmate/backend/internal/config"
)

// OpenAIBackend calls an OpenAI-compatible chat completion endpoint.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates the backend. A nil httpClient keeps the library default.
func NewOpenAIBackend(cfg config.OpenAIConfig, httpClient *http.Client) (*OpenAIBackend, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", ErrNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Name implements Backend.
func (o *OpenAIBackend) Name() string { return config.BackendOpenAI }

// Complete implements Backend.
func (o *OpenAIBackend) Complete(ctx context.Context, req Request) (Reply, error) {
	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(req),
	}}
	for _, turn := range recentHistory(req.History) {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.UserMessage},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.AssistantResponse},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		User:     req.SessionID,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, ErrEmptyAnswer
	}

	id := resp.ID
	if id == "" {
		id = uuid.NewString()
	}
	return Reply{Text: resp.Choices[0].Message.Content, ConversationID: id}, nil
}

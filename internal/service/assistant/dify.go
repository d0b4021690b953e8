package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tripmate/backend/internal/config"
)

// DifyBackend calls the Dify chat-messages API in blocking mode.
type DifyBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDifyBackend creates a Dify backend. A nil client gets a 30s timeout.
func NewDifyBackend(cfg config.DifyConfig, client *http.Client) (*DifyBackend, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: DIFY_API_KEY is empty", ErrNotConfigured)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DifyBackend{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

type difyRequest struct {
	Inputs       map[string]string `json:"inputs"`
	Query        string            `json:"query"`
	ResponseMode string            `json:"response_mode"`
	User         string            `json:"user"`
}

type difyResponse struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// Name implements Backend.
func (d *DifyBackend) Name() string { return config.BackendDify }

// Complete implements Backend.
func (d *DifyBackend) Complete(ctx context.Context, req Request) (Reply, error) {
	user := req.SessionID
	if user == "" {
		user = "anonymous"
	}

	inputs := map[string]string{}
	if addr := locationAddress(req); addr != "" {
		inputs["location"] = addr
	}

	body, err := json.Marshal(difyRequest{
		Inputs:       inputs,
		Query:        req.Message,
		ResponseMode: "blocking",
		User:         user,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("encode dify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/chat-messages", bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("build dify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("call dify: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Reply{}, fmt.Errorf("read dify response: %w", err)
	}

	var payload difyResponse
	if err := json.Unmarshal(raw, &payload); err != nil && resp.StatusCode == http.StatusOK {
		return Reply{}, fmt.Errorf("decode dify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("dify status %d: %s", resp.StatusCode, payload.Message)
	}

	return Reply{Text: payload.Answer, ConversationID: payload.ConversationID}, nil
}

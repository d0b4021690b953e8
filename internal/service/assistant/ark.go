package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/tripmate/backend/internal/config"
	"github.com/tripmate/backend/internal/model/chat"
)

// ArkBackend runs a prompt-template → chat-model chain on an eino model.
type ArkBackend struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkBackend builds the Ark chat model from cfg and compiles the chain.
func NewArkBackend(ctx context.Context, cfg config.AIConfig) (*ArkBackend, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: ark credentials or Model missing", ErrNotConfigured)
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewChainBackend(ctx, chatModel)
}

// NewChainBackend compiles the travel chain around any eino chat model.
func NewChainBackend(ctx context.Context, chatModel model.BaseChatModel) (*ArkBackend, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	return &ArkBackend{chain: runnable}, nil
}

// Name implements Backend.
func (a *ArkBackend) Name() string { return config.BackendArk }

// Complete implements Backend.
func (a *ArkBackend) Complete(ctx context.Context, req Request) (Reply, error) {
	msg, err := a.chain.Invoke(ctx, map[string]any{
		"system":  systemPrompt(req),
		"history": historyMessages(req.History),
		"query":   req.Message,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to run chat chain: %w", err)
	}
	if msg == nil {
		return Reply{}, ErrEmptyAnswer
	}
	return Reply{Text: msg.Content, ConversationID: uuid.NewString()}, nil
}

func historyMessages(turns []chat.Turn) []*schema.Message {
	turns = recentHistory(turns)
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history,
			schema.UserMessage(turn.UserMessage),
			schema.AssistantMessage(turn.AssistantResponse, nil),
		)
	}
	return history
}

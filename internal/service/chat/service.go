// Package chat ties assistant answers to sessions: it supplies the session's
// last known location and recent turns, then records the new turn.
package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/model/chat"
	"github.com/tripmate/backend/internal/model/geo"
	"github.com/tripmate/backend/internal/service/assistant"
	"github.com/tripmate/backend/internal/storage/sqlite"
)

// contextTurns is how many earlier turns are handed to the assistant.
const contextTurns = 6

// Store is the persistence the chat service needs.
type Store interface {
	SaveTurn(ctx context.Context, turn chat.Turn) error
	History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error)
	Session(ctx context.Context, sessionID string) (chat.Session, error)
	UpsertSessionLocation(ctx context.Context, sessionID string, loc geo.Location) error
}

// Answerer produces assistant replies.
type Answerer interface {
	Answer(ctx context.Context, req assistant.Request) assistant.Reply
}

// Service encapsulates conversation state management.
type Service struct {
	store     Store
	assistant Answerer
}

// NewService wires the chat service.
func NewService(store Store, answerer Answerer) *Service {
	return &Service{store: store, assistant: answerer}
}

// Reply answers message within the session and records the turn. Only a
// storage failure while saving is returned; context lookups degrade silently.
func (s *Service) Reply(ctx context.Context, sessionID, message string) (assistant.Reply, error) {
	req := assistant.Request{SessionID: sessionID, Message: message}

	session, err := s.store.Session(ctx, sessionID)
	switch {
	case err == nil:
		req.Location = session.CurrentLocation
	case !errors.Is(err, sqlite.ErrSessionNotFound):
		log.Warn().Err(err).Str("session", sessionID).Msg("load session for chat")
	}

	if session.ID != "" {
		history, err := s.store.History(ctx, sessionID, contextTurns)
		if err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("load history for chat")
		} else {
			slices.Reverse(history)
			req.History = history
		}
	}

	reply := s.assistant.Answer(ctx, req)

	if err := s.store.SaveTurn(ctx, chat.Turn{
		SessionID:         sessionID,
		UserMessage:       message,
		AssistantResponse: reply.Text,
		Location:          req.Location,
		Intent:            reply.Intent,
		Entities:          reply.Entities,
	}); err != nil {
		return reply, fmt.Errorf("save chat turn: %w", err)
	}

	log.Info().Str("session", sessionID).Str("backend", reply.Backend).Str("intent", reply.Intent).Msg("chat turn recorded")
	return reply, nil
}

// SetLocation records loc as the session's current location.
func (s *Service) SetLocation(ctx context.Context, sessionID string, loc geo.Location) error {
	if err := s.store.UpsertSessionLocation(ctx, sessionID, loc); err != nil {
		return fmt.Errorf("set session location: %w", err)
	}
	return nil
}

// History returns up to limit turns, newest first.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	turns, err := s.store.History(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return turns, nil
}

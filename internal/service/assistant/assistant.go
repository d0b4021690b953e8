// Package assistant answers chat messages through a conversational backend,
// falling back to the keyword responder whenever the backend is missing or fails.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/analysis/intent"
	"github.com/tripmate/backend/internal/model/chat"
	"github.com/tripmate/backend/internal/model/geo"
)

var (
	// ErrNotConfigured is returned when the selected backend lacks credentials.
	ErrNotConfigured = errors.New("assistant backend not configured")
	// ErrEmptyAnswer is returned by backends that produced no text.
	ErrEmptyAnswer = errors.New("assistant backend returned an empty answer")
)

// FallbackBackend names replies produced by the keyword responder.
const FallbackBackend = "fallback"

// Request is one user message with its conversational context.
type Request struct {
	SessionID string
	Message   string
	// Location is the session's last known location, if any.
	Location *geo.Location
	// History holds earlier turns, oldest first.
	History []chat.Turn
}

// Reply is the answer to a Request.
type Reply struct {
	Text           string
	ConversationID string
	Backend        string
	Intent         string
	Entities       map[string]string
}

// Backend is a conversational AI provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (Reply, error)
}

// Service answers messages. It is safe for concurrent use.
type Service struct {
	backend Backend
}

// NewService wraps backend. A nil backend answers every message with the
// keyword responder.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Backend returns the name of the active backend.
func (s *Service) Backend() string {
	if s.backend == nil {
		return FallbackBackend
	}
	return s.backend.Name()
}

// Answer replies to req. It never fails: backend errors and empty answers are
// logged and replaced by the canned response for the message.
func (s *Service) Answer(ctx context.Context, req Request) Reply {
	decision := intent.Classify(req.Message)

	if s.backend != nil {
		reply, err := s.backend.Complete(ctx, req)
		if err == nil && strings.TrimSpace(reply.Text) == "" {
			err = ErrEmptyAnswer
		}
		if err == nil {
			reply.Backend = s.backend.Name()
			reply.Intent = string(decision.Intent)
			reply.Entities = decision.Entities()
			return reply
		}
		log.Warn().Err(err).Str("backend", s.backend.Name()).Str("session", req.SessionID).Msg("assistant backend failed, using fallback")
	}

	return fallbackReply(req.Message)
}

func fallbackReply(message string) Reply {
	resp := intent.Respond(message)
	return Reply{
		Text:           resp.Answer,
		ConversationID: resp.ConversationID,
		Backend:        FallbackBackend,
		Intent:         string(resp.Intent),
		Entities:       resp.Entities(),
	}
}

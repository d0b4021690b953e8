// Package socket serves the chat assistant over a WebSocket with JSON
// {"event", "data"} envelopes.
package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/service/assistant"
)

// Event names.
const (
	EventSessionID = "session_id"
	EventMessage   = "message"
	EventResponse  = "response"
	EventError     = "error"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// ChatService answers chat messages.
type ChatService interface {
	Reply(ctx context.Context, sessionID, message string) (assistant.Reply, error)
}

// IDSource issues fresh session ids.
type IDSource interface {
	NewID() string
}

// Handler upgrades /socket requests and relays chat messages.
type Handler struct {
	chatSvc  ChatService
	ids      IDSource
	upgrader websocket.Upgrader
}

// New creates the socket handler.
func New(chatSvc ChatService, ids IDSource) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		ids:     ids,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the socket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/socket", h.handleSocket)
}

// Envelope is one frame in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outgoing struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// MessageData is the payload of a "message" event.
type MessageData struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ResponseData is the payload of a "response" event.
type ResponseData struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) emit(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(outgoing{Event: event, Data: data})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	connID := h.ids.NewID()
	log.Info().Str("session", connID).Str("remote", r.RemoteAddr).Msg("socket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws.SetReadLimit(64 << 10)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.pingLoop(ctx, c)

	if err := c.emit(EventSessionID, map[string]string{"session_id": connID}); err != nil {
		log.Warn().Err(err).Str("session", connID).Msg("emit session id failed")
		return
	}

	for {
		var env Envelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", connID).Msg("socket read error")
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(pongWait))

		h.handleEnvelope(ctx, c, connID, env)
	}
}

func (h *Handler) handleEnvelope(ctx context.Context, c *conn, connID string, env Envelope) {
	switch env.Event {
	case EventMessage:
		var msg MessageData
		if len(env.Data) == 0 || json.Unmarshal(env.Data, &msg) != nil {
			h.emitError(c, "invalid message payload")
			return
		}
		h.handleMessage(ctx, c, connID, msg)
	default:
		h.emitError(c, "unsupported event: "+env.Event)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, connID string, msg MessageData) {
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = connID
	}

	reply, err := h.chatSvc.Reply(ctx, sessionID, msg.Message)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("socket chat reply failed")
		h.emitError(c, "failed to save chat")
		return
	}

	if err := c.emit(EventResponse, ResponseData{Response: reply.Text, SessionID: sessionID}); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("emit response failed")
	}
}

func (h *Handler) emitError(c *conn, message string) {
	if err := c.emit(EventError, map[string]string{"message": message}); err != nil {
		log.Warn().Err(err).Msg("emit error failed")
	}
}

func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

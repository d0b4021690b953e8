package socket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/backend/internal/service/assistant"
	chatservice "github.com/tripmate/backend/internal/service/chat"
	"github.com/tripmate/backend/internal/service/session"
	"github.com/tripmate/backend/internal/storage/sqlite"
)

func setupServer(t *testing.T) (*websocket.Conn, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	r := chi.NewRouter()
	New(chatservice.NewService(store, assistant.NewService(nil)), session.NewRouter("k")).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws, store
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func read(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	var f frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func TestConnectEmitsSessionID(t *testing.T) {
	ws, _ := setupServer(t)

	f := read(t, ws)
	assert.Equal(t, EventSessionID, f.Event)

	var data map[string]string
	require.NoError(t, json.Unmarshal(f.Data, &data))
	assert.NotEmpty(t, data["session_id"])
}

func TestMessageEmitsResponseAndPersists(t *testing.T) {
	ws, store := setupServer(t)
	read(t, ws)

	require.NoError(t, ws.WriteJSON(map[string]any{
		"event": EventMessage,
		"data":  MessageData{Message: "가볼만한 관광지 있어?", SessionID: "s1"},
	}))

	f := read(t, ws)
	require.Equal(t, EventResponse, f.Event)

	var data ResponseData
	require.NoError(t, json.Unmarshal(f.Data, &data))
	assert.Equal(t, "s1", data.SessionID)
	assert.Contains(t, data.Response, "관광지를 찾고 계시는군요")

	history, err := store.History(context.Background(), "s1", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "가볼만한 관광지 있어?", history[0].UserMessage)
}

func TestMessageWithoutSessionUsesConnectionID(t *testing.T) {
	ws, _ := setupServer(t)

	var hello map[string]string
	require.NoError(t, json.Unmarshal(read(t, ws).Data, &hello))

	require.NoError(t, ws.WriteJSON(map[string]any{"event": EventMessage, "data": map[string]string{"message": "hello"}}))

	var data ResponseData
	require.NoError(t, json.Unmarshal(read(t, ws).Data, &data))
	assert.Equal(t, hello["session_id"], data.SessionID)
}

func TestMalformedFramesEmitError(t *testing.T) {
	ws, _ := setupServer(t)
	read(t, ws)

	require.NoError(t, ws.WriteJSON(map[string]any{"event": "dance"}))
	assert.Equal(t, EventError, read(t, ws).Event)

	require.NoError(t, ws.WriteJSON(map[string]any{"event": EventMessage, "data": "not an object"}))
	assert.Equal(t, EventError, read(t, ws).Event)

	// The connection stays usable after errors.
	require.NoError(t, ws.WriteJSON(map[string]any{"event": EventMessage, "data": map[string]string{"message": "hi", "session_id": "x"}}))
	assert.Equal(t, EventResponse, read(t, ws).Event)
}

package chat

import (
	"time"

	"github.com/tripmate/backend/internal/model/geo"
)

// Turn persists one user message and the reply it received.
type Turn struct {
	ID                int64             `json:"-"`
	SessionID         string            `json:"sessionId"`
	UserMessage       string            `json:"user"`
	AssistantResponse string            `json:"ai"`
	Location          *geo.Location     `json:"location,omitempty"`
	Intent            string            `json:"intent,omitempty"`
	Entities          map[string]string `json:"entities,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
}

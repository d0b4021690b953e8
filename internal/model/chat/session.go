package chat

import (
	"time"

	"github.com/tripmate/backend/internal/model/geo"
)

// Session correlates a caller's chat turns and last known location.
type Session struct {
	ID              string        `json:"id"`
	CurrentLocation *geo.Location `json:"currentLocation,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	LastActivity    time.Time     `json:"lastActivity"`
}

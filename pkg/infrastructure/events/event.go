package events

import "time"

// Event is one recorded change to a planning session's order
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
	At        time.Time   `json:"at"`
	Version   int         `json:"version"`
}

// EventStore keeps an append-only history per planning session
type EventStore interface {
	Append(sessionID, eventType string, data interface{}, at time.Time) (Event, error)
	History(sessionID string, fromVersion int) ([]Event, error)
}

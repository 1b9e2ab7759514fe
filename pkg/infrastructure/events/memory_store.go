package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InMemoryEventStore holds session histories for the life of the process.
// Closed sessions keep their history.
type InMemoryEventStore struct {
	mu       sync.RWMutex
	sessions map[string][]Event
	log      zerolog.Logger
}

func NewInMemoryEventStore(log zerolog.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		sessions: make(map[string][]Event),
		log:      log.With().Str("component", "event_store").Logger(),
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

// Append records the event under the session's next version, starting at 1
func (s *InMemoryEventStore) Append(sessionID, eventType string, data interface{}, at time.Time) (Event, error) {
	if sessionID == "" {
		return Event{}, fmt.Errorf("session id cannot be empty")
	}
	if eventType == "" {
		return Event{}, fmt.Errorf("event type cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event := Event{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
		At:        at,
		Version:   len(s.sessions[sessionID]) + 1,
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], event)

	s.log.Debug().
		Str("session_id", sessionID).
		Str("event", eventType).
		Int("version", event.Version).
		Msg("Event recorded")
	return event, nil
}

// History returns a copy of the session's events from the given 1-based version.
// Unknown sessions have an empty history.
func (s *InMemoryEventStore) History(sessionID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorded := s.sessions[sessionID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(recorded) {
		return []Event{}, nil
	}

	out := make([]Event, len(recorded)-fromVersion+1)
	copy(out, recorded[fromVersion-1:])
	return out, nil
}

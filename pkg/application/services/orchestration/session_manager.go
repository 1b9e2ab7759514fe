package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/application/services/orderbuilder"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/events"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/metrics"
)

// ErrSessionNotFound is returned for ids that were never opened or are already closed
var ErrSessionNotFound = errors.New("session not found")

// Session is one planner's order in progress
type Session struct {
	ID       string
	Engine   *orderbuilder.Engine
	OpenedAt time.Time
}

// SessionManager owns one engine per planning session. Sessions share the recommendation
// source and the event store but never each other's selections.
type SessionManager struct {
	source  repositories.RecommendationSource
	cfg     config.EngineConfig
	scaling orderbuilder.ScalingPolicy
	log     zerolog.Logger
	metrics *metrics.Recorder
	events  events.EventStore
	clock   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a SessionManager
type Option func(*SessionManager)

// WithMetrics records session and engine activity
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(m *SessionManager) {
		m.metrics = recorder
	}
}

// WithEventStore replaces the in-memory event store
func WithEventStore(store events.EventStore) Option {
	return func(m *SessionManager) {
		m.events = store
	}
}

// WithClock overrides the time source handed to every engine
func WithClock(clock func() time.Time) Option {
	return func(m *SessionManager) {
		m.clock = clock
	}
}

// NewSessionManager creates a manager; the scaling policy is resolved from the engine config
func NewSessionManager(
	source repositories.RecommendationSource,
	cfg config.EngineConfig,
	log zerolog.Logger,
	opts ...Option,
) (*SessionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	scaling, err := orderbuilder.ScalingPolicyByName(cfg.ScalingPolicy)
	if err != nil {
		return nil, err
	}

	m := &SessionManager{
		source:   source,
		cfg:      cfg,
		scaling:  scaling,
		log:      log.With().Str("component", "session_manager").Logger(),
		clock:    time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.events == nil {
		m.events = events.NewInMemoryEventStore(log)
	}
	return m, nil
}

// Open starts a session and initializes its order for the boat and mode.
// The session is only registered once the first load succeeds.
func (m *SessionManager) Open(ctx context.Context, boatID entities.BoatID, mode entities.Mode) (*Session, error) {
	id := uuid.NewString()

	engine, err := orderbuilder.NewEngine(m.source, m.cfg, m.log.With().Str("session_id", id).Logger(),
		orderbuilder.WithScalingPolicy(m.scaling),
		orderbuilder.WithClock(m.clock),
		orderbuilder.WithMetrics(m.metrics),
		orderbuilder.WithEvents(m.events, id),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if err := engine.Initialize(ctx, boatID, mode); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	session := &Session{ID: id, Engine: engine, OpenedAt: m.clock()}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.log.Info().Str("session_id", id).Str("mode", mode.String()).Msg("Session opened")
	return session, nil
}

// Get returns an open session
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Close drops a session; its event history stays readable
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.metrics.SessionClosed()
	m.log.Info().Str("session_id", id).Msg("Session closed")
	return nil
}

// Sessions lists open session ids, oldest first
func (m *SessionManager) Sessions() []string {
	m.mu.RLock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()

	sort.Slice(open, func(i, j int) bool {
		if !open[i].OpenedAt.Equal(open[j].OpenedAt) {
			return open[i].OpenedAt.Before(open[j].OpenedAt)
		}
		return open[i].ID < open[j].ID
	})

	ids := make([]string, len(open))
	for i, s := range open {
		ids[i] = s.ID
	}
	return ids
}

// History returns the events recorded for a session, open or closed
func (m *SessionManager) History(id string) ([]events.Event, error) {
	return m.events.History(id, 1)
}

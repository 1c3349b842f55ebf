// Package session scopes component registries to editor sessions.
//
// Every session owns its own component.Registry over a shared metadata store,
// so two open editors can register and clear independently without sharing
// registry state.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/componentregistry"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
)

// Session is one editor's view of the component registry
type Session struct {
	ID        uuid.UUID
	Registry  *component.Registry
	CreatedAt time.Time
}

// Manager creates and tracks sessions
type Manager struct {
	store    *metadata.Store
	options  []component.Option
	sessions map[uuid.UUID]*Session
	logger   *slog.Logger
	metrics  *metric.Metrics
	mu       sync.RWMutex
}

// NewManager creates a manager whose sessions read declarations from store.
// opts are applied to every session registry.
func NewManager(store *metadata.Store, logger *slog.Logger, metrics *metric.Metrics, opts ...component.Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		options:  opts,
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
		metrics:  metrics,
	}
}

// Open creates a session whose registry is populated with every declared type
func (m *Manager) Open() *Session {
	s := &Session{
		ID:        uuid.New(),
		Registry:  component.NewRegistry(m.store, m.options...),
		CreatedAt: time.Now().UTC(),
	}
	registered := componentregistry.DiscoverAndRegisterComponents(s.Registry)

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.record(count)
	m.logger.Info("Session opened", "session", s.ID.String(), "components", registered)
	return s
}

// Get returns the session with the given id
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id),
			"SessionManager", "Get", "session lookup")
	}
	return s, nil
}

// Lookup parses id and returns its session
func (m *Manager) Lookup(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrSessionNotFound, err),
			"SessionManager", "Lookup", "session id parse")
	}
	return m.Get(uid)
}

// Close discards the session and its registry
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrSessionNotFound, id),
			"SessionManager", "Close", "session lookup")
	}

	s.Registry.Clear()
	m.record(count)
	m.logger.Info("Session closed", "session", id.String())
	return nil
}

// List returns open sessions, oldest first
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) record(count int) {
	if m.metrics != nil {
		m.metrics.RecordSessions(count)
	}
}

package session

import (
	"context"
	"sync"

	"set-game-server/sessionerrors"
)

// Manager tracks running sessions and enforces the session limit.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewManager returns a manager allowing at most limit concurrent sessions.
func NewManager(limit int) *Manager {
	return &Manager{sessions: make(map[string]*Session), limit: limit}
}

// Open creates and registers a session without starting its loop.
func (m *Manager) Open(opts Options, send chan []byte) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.limit > 0 && len(m.sessions) >= m.limit {
		return nil, sessionerrors.ErrSessionLimit
	}
	s := New(opts, send)
	m.sessions[s.ID] = s
	return s, nil
}

// Run starts the loop of a session from Open. The session is removed
// automatically when its loop exits.
func (m *Manager) Run(ctx context.Context, s *Session) {
	go s.Run(ctx)
	go func() {
		<-s.Done
		m.remove(s.ID)
	}()
}

// Start is Open followed by Run.
func (m *Manager) Start(ctx context.Context, opts Options, send chan []byte) (*Session, error) {
	s, err := m.Open(opts, send)
	if err != nil {
		return nil, err
	}
	m.Run(ctx, s)
	return s, nil
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Get returns the running session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, sessionerrors.ErrSessionNotFound
	}
	return s, nil
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package session

import (
	"fmt"
	"sync"
)

// Manager tracks all active sessions by ID. Sessions never share rooms; the
// manager exists so the frontend can account for and shut down live games.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Add registers sess under its ID.
//
// Precondition: sess must be non-nil.
// Postcondition: Returns an error if the ID is already registered.
func (m *Manager) Add(sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[sess.ID()]; exists {
		return fmt.Errorf("session %q already registered", sess.ID())
	}
	m.sessions[sess.ID()] = sess
	return nil
}

// Remove unregisters the session with the given ID.
//
// Postcondition: Returns an error if the session is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// Get returns the session with the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

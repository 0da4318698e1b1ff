package state

import (
	"slices"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs the in-memory Store implementation.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[int64]*Session),
	}
}

func idleSession() Session {
	return Session{State: StateIdle, Fields: map[string]any{}}
}

// snapshot deep-copies list fields so callers never share backing arrays with the store.
func snapshot(s *Session) Session {
	out := Session{State: s.State, Fields: make(map[string]any, len(s.Fields))}
	for k, v := range s.Fields {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		}
		out.Fields[k] = v
	}
	return out
}

// session returns the stored session, creating it when missing. Callers hold mu.
func (m *memoryStore) session(userID int64) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{State: StateIdle, Fields: make(map[string]any)}
		m.sessions[userID] = s
	}
	return s
}

// Get returns the session for a user if it exists, otherwise returns a default idle session.
func (m *memoryStore) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[userID]; ok {
		return snapshot(s)
	}
	return idleSession()
}

// Start drops previous fields and sets the first state of a flow.
func (m *memoryStore) Start(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st == StateIdle {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = &Session{State: st, Fields: make(map[string]any)}
}

// SetState updates the state for a user, creating a new session if necessary.
func (m *memoryStore) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st == StateIdle {
		delete(m.sessions, userID)
		return
	}
	m.session(userID).State = st
}

// SetField stores a field value for the given user session.
func (m *memoryStore) SetField(userID int64, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if list, ok := value.([]string); ok {
		value = slices.Clone(list)
	}
	m.session(userID).Fields[key] = value
}

// Advance performs a compare-and-set of the state together with one field write.
func (m *memoryStore) Advance(userID int64, expected, next State, key string, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || s.State != expected {
		return false
	}
	if key != "" {
		if list, isList := value.([]string); isList {
			value = slices.Clone(list)
		}
		s.Fields[key] = value
	}
	if next == StateIdle {
		delete(m.sessions, userID)
		return true
	}
	s.State = next
	return true
}

// Clear removes the entire session for a user.
func (m *memoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// ClearIf removes the session only while it is still in the expected state.
func (m *memoryStore) ClearIf(userID int64, expected State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || s.State != expected {
		return false
	}
	delete(m.sessions, userID)
	return true
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryStore) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	return ok && s.State != StateIdle
}

// Len returns the number of stored sessions.
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

package quiz

import "sync"

// AttemptStore is an in-memory registry of live attempt sessions, keyed by
// attempt id. Attempts are ephemeral: they live for the duration of a
// session and are never persisted.
type AttemptStore struct {
	mu       sync.RWMutex
	sessions map[string]*AttemptSession
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{sessions: make(map[string]*AttemptSession)}
}

// Open creates a session over the given quiz snapshot and registers it.
func (s *AttemptStore) Open(z Quiz, userID string) *AttemptSession {
	sess := NewAttemptSession(z, userID)
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	return sess
}

func (s *AttemptStore) Get(id string) (*AttemptSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *AttemptStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

package sessions

import (
	"context"
	"sync"
	"time"
)

// memoryStore keeps sessions in process memory. Used when no redis address
// is configured and by the tests.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (s *memoryStore) Save(_ context.Context, id string, session Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ExpiresAt = time.Now().Add(ttl)
	s.sessions[id] = session
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	return &session, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

package memory

import (
	"context"
	"sync"

	"docapp/internal/domain/backend"
)

// SessionStore keeps the persisted session for the life of the process
type SessionStore struct {
	mu      sync.Mutex
	session *backend.PersistedSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Load(ctx context.Context) (*backend.PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	c := *s.session
	return &c, nil
}

func (s *SessionStore) Save(ctx context.Context, session *backend.PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *session
	s.session = &c
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docapp/internal/domain/backend"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists the signed-in session of this client under a
// single Redis key. The key expires with the session token.
type SessionStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, key string) *SessionStore {
	return &SessionStore{client: client, key: key, now: time.Now}
}

func (s *SessionStore) Load(ctx context.Context) (*backend.PersistedSession, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session backend.PersistedSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *backend.PersistedSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}

	if err := s.client.Set(ctx, s.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

package backend

import (
	"context"
	"time"
)

// Principal is the backend's authenticated user record.
// It carries only what the auth service knows; the richer identity lives
// in the users collection.
type Principal struct {
	UID   string
	Email string
}

// AuthStateListener is invoked with the signed-in principal, or nil when
// nobody is signed in.
type AuthStateListener func(principal *Principal)

// AuthProvider is the authentication half of the backend.
//
// Subscribe delivers the current state once, then one event per completed
// sign-in, sign-up, sign-out or detected expiry, in completion order.
// Events are delivered asynchronously from the call that caused them.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	CreateUser(ctx context.Context, email, password string) (*Principal, error)
	SignOut(ctx context.Context) error
	Subscribe(listener AuthStateListener) (unsubscribe func())
}

// SessionVerifier is implemented by providers whose sessions can expire.
// VerifySession re-checks the current session and signs out locally,
// emitting an absent auth-state event, when it is no longer valid.
type SessionVerifier interface {
	VerifySession(ctx context.Context) error
}

// PersistedSession is the signed-in state kept across process restarts
type PersistedSession struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session token is past its expiry
func (s *PersistedSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionPersistence stores the signed-in state of this client.
// Load returns nil, nil when nothing is stored.
type SessionPersistence interface {
	Load(ctx context.Context) (*PersistedSession, error)
	Save(ctx context.Context, session *PersistedSession) error
	Clear(ctx context.Context) error
}

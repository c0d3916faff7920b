package authstate

import (
	"context"
	"sync"

	"docapp/internal/domain/backend"

	"github.com/sirupsen/logrus"
)

// Tracker holds the signed-in session of a token-based provider, mirrors it
// to a SessionPersistence and broadcasts every change.
type Tracker struct {
	log         *logrus.Logger
	persistence backend.SessionPersistence
	broadcaster *Broadcaster

	mu      sync.Mutex
	session *backend.PersistedSession
}

// NewTracker returns a Tracker. persistence may be nil, in which case
// sessions last as long as the process.
func NewTracker(log *logrus.Logger, persistence backend.SessionPersistence) *Tracker {
	return &Tracker{
		log:         log,
		persistence: persistence,
		broadcaster: NewBroadcaster(),
	}
}

// Session returns a copy of the current session, or nil
func (t *Tracker) Session() *backend.PersistedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil
	}
	c := *t.session
	return &c
}

// Stored returns the persisted session, or nil when nothing is stored
func (t *Tracker) Stored(ctx context.Context) (*backend.PersistedSession, error) {
	if t.persistence == nil {
		return nil, nil
	}
	return t.persistence.Load(ctx)
}

// SignedIn records session as current and publishes its principal.
// A persistence failure only costs the session its survival across restarts.
func (t *Tracker) SignedIn(ctx context.Context, session *backend.PersistedSession) {
	if t.persistence != nil {
		if err := t.persistence.Save(ctx, session); err != nil {
			t.log.Warnf("Failed to persist session for uid %s: %+v", session.UID, err)
		}
	}

	c := *session
	t.mu.Lock()
	t.session = &c
	t.mu.Unlock()

	t.broadcaster.Publish(&backend.Principal{UID: session.UID, Email: session.Email})
}

// SignedOut forgets the current session and publishes an absent principal.
// When the persisted copy cannot be removed nothing changes.
func (t *Tracker) SignedOut(ctx context.Context) error {
	if t.persistence != nil {
		if err := t.persistence.Clear(ctx); err != nil {
			return err
		}
	}

	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()

	t.broadcaster.Publish(nil)
	return nil
}

// Forget clears a stale persisted session without publishing
func (t *Tracker) Forget(ctx context.Context) {
	if t.persistence == nil {
		return
	}
	if err := t.persistence.Clear(ctx); err != nil {
		t.log.Warnf("Failed to clear stale session: %+v", err)
	}
}

func (t *Tracker) Subscribe(listener backend.AuthStateListener) func() {
	return t.broadcaster.Subscribe(listener)
}

func (t *Tracker) Close() {
	t.broadcaster.Close()
}

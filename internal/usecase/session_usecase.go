package usecase

import (
	"context"
	"errors"
	"sync"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"
	"docapp/internal/domain/repository"
	"docapp/internal/metrics"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidRole       = errors.New("role must be patient or medecin")
	ErrSessionStarted    = errors.New("session manager already started")
	ErrSessionNotStarted = errors.New("session manager not started")
)

// SessionUsecase owns the current identity of this client.
//
// The manager is the only writer of the session state; everything else reads
// snapshots. Identity follows the provider's auth-state stream, except that a
// successful Signup publishes the new identity right away and Logout clears it
// right away.
type SessionUsecase interface {
	Start(ctx context.Context) error
	Stop()
	OnAuthStateChanged(ctx context.Context, principal *backend.Principal)

	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, profile entity.SignupProfile, email, password string, role entity.Role) (*entity.User, error)
	Logout(ctx context.Context) error

	State() entity.SessionState
	CurrentUser() *entity.User
	WaitResolved(ctx context.Context) (entity.SessionState, error)
	Watch() (<-chan entity.SessionState, func())
}

type sessionUsecase struct {
	log          *logrus.Logger
	authProvider backend.AuthProvider
	userRepo     repository.UserRepository
	metrics      metrics.Recorder

	mu      sync.RWMutex
	state   entity.SessionState
	version uint64
	// logouts whose sign-out event has not been delivered yet; sign-in
	// events are ignored while any is pending
	pendingSignOuts int
	resolved        chan struct{}
	resolveOnce     sync.Once
	watchers        map[int]chan entity.SessionState
	nextWatcher     int
	stopped         bool

	// eventMu resolves auth-state events one at a time, in delivery order
	eventMu sync.Mutex

	lifecycleMu sync.Mutex
	baseCtx     context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

func NewSessionUsecase(
	log *logrus.Logger,
	authProvider backend.AuthProvider,
	userRepo repository.UserRepository,
	recorder metrics.Recorder,
) SessionUsecase {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &sessionUsecase{
		log:          log,
		authProvider: authProvider,
		userRepo:     userRepo,
		metrics:      recorder,
		state:        entity.SessionState{Loading: true},
		resolved:     make(chan struct{}),
		watchers:     make(map[int]chan entity.SessionState),
	}
}

// Start subscribes to the provider's auth-state stream. Profile reads
// triggered by events run under a context derived from ctx.
func (u *sessionUsecase) Start(ctx context.Context) error {
	u.lifecycleMu.Lock()
	defer u.lifecycleMu.Unlock()

	if u.unsubscribe != nil {
		return ErrSessionStarted
	}

	u.mu.Lock()
	u.stopped = false
	u.mu.Unlock()

	u.baseCtx, u.cancel = context.WithCancel(ctx)
	baseCtx := u.baseCtx
	u.unsubscribe = u.authProvider.Subscribe(func(principal *backend.Principal) {
		u.OnAuthStateChanged(baseCtx, principal)
	})
	return nil
}

// Stop unsubscribes from the provider. Safe to call more than once.
func (u *sessionUsecase) Stop() {
	u.lifecycleMu.Lock()
	defer u.lifecycleMu.Unlock()

	if u.unsubscribe == nil {
		return
	}
	u.unsubscribe()
	u.cancel()
	u.unsubscribe = nil

	u.mu.Lock()
	u.stopped = true
	for id, ch := range u.watchers {
		close(ch)
		delete(u.watchers, id)
	}
	u.mu.Unlock()
}

// OnAuthStateChanged resolves a principal into an identity and publishes it.
// Loading is cleared exactly once per call, after resolution.
func (u *sessionUsecase) OnAuthStateChanged(ctx context.Context, principal *backend.Principal) {
	u.eventMu.Lock()
	defer u.eventMu.Unlock()

	if u.skipStaleSignIn(principal) {
		u.log.Debugf("Ignoring sign-in event for uid %s queued before logout", principal.UID)
		return
	}

	startVersion := u.currentVersion()
	identity := u.resolveIdentity(ctx, principal)
	u.finishResolution(identity, startVersion)
}

func (u *sessionUsecase) resolveIdentity(ctx context.Context, principal *backend.Principal) *entity.User {
	if principal == nil {
		u.log.Info("No user signed in")
		u.metrics.RecordAuthState(metrics.OutcomeSignedOut)
		return nil
	}

	u.log.Infof("Sign-in detected, uid: %s", principal.UID)

	user, err := u.userRepo.FindByUID(ctx, principal.UID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidDocument) {
			u.log.Warnf("Profile document for uid %s is invalid, treating as signed out: %+v", principal.UID, err)
			u.metrics.RecordAuthState(metrics.OutcomeProfileInvalid)
			return nil
		}
		u.log.Errorf("Failed to read profile for uid %s: %+v", principal.UID, err)
		u.metrics.RecordAuthState(metrics.OutcomeProfileReadFail)
		return nil
	}
	if user == nil {
		u.log.Warnf("Profile document not found for uid %s, treating as signed out", principal.UID)
		u.metrics.RecordAuthState(metrics.OutcomeProfileMissing)
		return nil
	}

	user.UID = principal.UID
	if principal.Email != "" {
		user.Email = principal.Email
	}
	u.metrics.RecordAuthState(metrics.OutcomeAuthenticated)
	return user
}

// finishResolution publishes identity unless Signup or Logout published a
// newer state while the profile read was in flight.
func (u *sessionUsecase) finishResolution(identity *entity.User, startVersion uint64) {
	u.mu.Lock()
	if u.version == startVersion {
		u.state.Identity = identity
	} else {
		u.log.Debug("Discarding stale auth-state resolution")
	}
	u.state.Loading = false
	u.version++
	snapshot := u.snapshotLocked()
	u.notifyLocked(snapshot)
	u.mu.Unlock()

	u.markResolved()
}

// Login hands the credentials to the provider. The identity changes when
// the resulting auth-state event is resolved, not here.
func (u *sessionUsecase) Login(ctx context.Context, email, password string) error {
	u.log.Infof("Login attempt: %s", email)

	_, err := u.authProvider.SignIn(ctx, email, password)
	u.metrics.RecordSessionOperation("login", err)
	if err != nil {
		u.log.Warnf("Failed to sign in %s: %+v", email, err)
		return err
	}
	return nil
}

// Signup creates the principal and its profile document, then publishes the
// identity without waiting for the auth-state stream.
func (u *sessionUsecase) Signup(ctx context.Context, profile entity.SignupProfile, email, password string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	u.log.Infof("Signup started: %s", email)

	principal, err := u.authProvider.CreateUser(ctx, email, password)
	if err != nil {
		u.metrics.RecordSessionOperation("signup", err)
		u.log.Warnf("Failed to create principal for %s: %+v", email, err)
		return nil, err
	}

	user := &entity.User{
		UID:       principal.UID,
		Email:     email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Username:  profile.Username,
		Role:      role,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		u.metrics.RecordSessionOperation("signup", err)
		u.log.Errorf("Failed to save profile for uid %s, principal has no profile: %+v", principal.UID, err)
		return nil, err
	}

	u.publish(user)
	u.metrics.RecordSessionOperation("signup", nil)
	u.log.Infof("Signup complete, uid: %s", user.UID)

	return user.Clone(), nil
}

// Logout signs out at the provider, then clears the identity. When the
// provider fails the identity is left as it was.
//
// The pending sign-out is recorded before calling the provider, which may
// deliver its sign-out event before SignOut returns.
func (u *sessionUsecase) Logout(ctx context.Context) error {
	u.mu.Lock()
	u.pendingSignOuts++
	u.mu.Unlock()

	err := u.authProvider.SignOut(ctx)
	u.metrics.RecordSessionOperation("logout", err)
	if err != nil {
		u.mu.Lock()
		if u.pendingSignOuts > 0 {
			u.pendingSignOuts--
		}
		u.mu.Unlock()
		u.log.Warnf("Failed to sign out: %+v", err)
		return err
	}

	u.publish(nil)
	u.log.Info("Logout successful")
	return nil
}

func (u *sessionUsecase) State() entity.SessionState {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snapshotLocked()
}

func (u *sessionUsecase) CurrentUser() *entity.User {
	return u.State().Identity
}

// WaitResolved blocks until the first auth-state event or explicit publish
// has cleared Loading.
func (u *sessionUsecase) WaitResolved(ctx context.Context) (entity.SessionState, error) {
	select {
	case <-u.resolved:
		return u.State(), nil
	case <-ctx.Done():
		return u.State(), ctx.Err()
	}
}

// Watch returns a channel carrying the latest state after every change.
// A slow reader only ever sees the newest state. Call the returned func to
// stop watching. Once the manager is stopped the channel carries the last
// state and is closed.
func (u *sessionUsecase) Watch() (<-chan entity.SessionState, func()) {
	ch := make(chan entity.SessionState, 1)

	u.mu.Lock()
	if u.stopped {
		ch <- u.snapshotLocked()
		close(ch)
		u.mu.Unlock()
		return ch, func() {}
	}
	id := u.nextWatcher
	u.nextWatcher++
	u.watchers[id] = ch
	ch <- u.snapshotLocked()
	u.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			u.mu.Lock()
			defer u.mu.Unlock()
			if _, ok := u.watchers[id]; ok {
				delete(u.watchers, id)
				close(ch)
			}
		})
	}
}

func (u *sessionUsecase) publish(identity *entity.User) {
	u.mu.Lock()
	u.state.Identity = identity.Clone()
	u.state.Loading = false
	u.version++
	snapshot := u.snapshotLocked()
	u.notifyLocked(snapshot)
	u.mu.Unlock()

	u.markResolved()
}

func (u *sessionUsecase) skipStaleSignIn(principal *backend.Principal) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pendingSignOuts == 0 {
		return false
	}
	if principal == nil {
		u.pendingSignOuts--
		return false
	}
	return true
}

func (u *sessionUsecase) currentVersion() uint64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.version
}

func (u *sessionUsecase) markResolved() {
	u.resolveOnce.Do(func() { close(u.resolved) })
}

func (u *sessionUsecase) snapshotLocked() entity.SessionState {
	return entity.SessionState{
		Identity: u.state.Identity.Clone(),
		Loading:  u.state.Loading,
	}
}

func (u *sessionUsecase) notifyLocked(snapshot entity.SessionState) {
	for _, ch := range u.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

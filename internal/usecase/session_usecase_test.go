package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"
	"docapp/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jane = &entity.User{
	UID:       "u1",
	Email:     "jane@example.com",
	FirstName: "Jane",
	LastName:  "Doe",
	Username:  "jdoe",
	Role:      entity.RolePatient,
}

func newSession(auth *mockAuthProvider, users *mockUserRepo) SessionUsecase {
	return NewSessionUsecase(testLogger(), auth, users, nil)
}

func TestSession_InitialStateIsUnresolved(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo())

	state := s.State()
	assert.True(t, state.Loading)
	assert.Nil(t, state.Identity)
	assert.Equal(t, entity.SessionUnresolved, state.Phase())
}

func TestSession_AuthStateWithProfilePublishesIdentity(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1", Email: "jane@example.com"})

	state := s.State()
	require.False(t, state.Loading)
	require.NotNil(t, state.Identity)
	assert.Equal(t, "u1", state.Identity.UID)
	assert.Equal(t, "Jane", state.Identity.FirstName)
	assert.Equal(t, entity.RolePatient, state.Identity.Role)
	assert.Equal(t, entity.SessionAuthenticated, state.Phase())
}

func TestSession_PrincipalEmailWins(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1", Email: "new@example.com"})

	assert.Equal(t, "new@example.com", s.CurrentUser().Email)
}

func TestSession_MissingProfileMeansSignedOut(t *testing.T) {
	users := newMockUserRepo()
	s := newSession(&mockAuthProvider{}, users)

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1", Email: "jane@example.com"})

	state := s.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.Identity)
	assert.Equal(t, entity.SessionUnauthenticated, state.Phase())
	assert.Equal(t, 1, users.findCalls)
}

func TestSession_InvalidProfileMeansSignedOut(t *testing.T) {
	users := newMockUserRepo()
	users.findFn = func(ctx context.Context, uid string) (*entity.User, error) {
		return nil, fmt.Errorf("%w: unknown role %q", repository.ErrInvalidDocument, "admin")
	}
	s := newSession(&mockAuthProvider{}, users)

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})

	assert.False(t, s.State().Loading)
	assert.Nil(t, s.CurrentUser())
}

func TestSession_ProfileReadFailureMeansSignedOut(t *testing.T) {
	users := newMockUserRepo(jane)
	users.findFn = func(ctx context.Context, uid string) (*entity.User, error) {
		return nil, errors.New("unavailable")
	}
	s := newSession(&mockAuthProvider{}, users)

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})

	assert.False(t, s.State().Loading)
	assert.Nil(t, s.CurrentUser())
}

func TestSession_AbsentPrincipalSkipsProfileRead(t *testing.T) {
	users := newMockUserRepo(jane)
	s := newSession(&mockAuthProvider{}, users)

	s.OnAuthStateChanged(context.Background(), nil)

	assert.False(t, s.State().Loading)
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, 0, users.findCalls)
}

func TestSession_LoginThenEventResolvesIdentity(t *testing.T) {
	auth := &mockAuthProvider{}
	s := newSession(auth, newMockUserRepo(jane))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NoError(t, s.Login(context.Background(), "jane@example.com", "secret1"))
	assert.Nil(t, s.CurrentUser(), "login must not publish identity itself")

	auth.emit(&backend.Principal{UID: "u1", Email: "jane@example.com"})

	state := s.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.Identity)
	assert.Equal(t, "u1", state.Identity.UID)
}

func TestSession_LoginPropagatesProviderError(t *testing.T) {
	auth := &mockAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*backend.Principal, error) {
			return nil, backend.NewAuthError(backend.CodeInvalidCredential, "bad password", nil)
		},
	}
	s := newSession(auth, newMockUserRepo())

	err := s.Login(context.Background(), "jane@example.com", "nope")

	assert.True(t, errors.Is(err, backend.ErrInvalidCredential))
	assert.True(t, s.State().Loading)
}

func TestSession_SignupPublishesImmediately(t *testing.T) {
	users := newMockUserRepo()
	s := newSession(&mockAuthProvider{}, users)

	user, err := s.Signup(context.Background(),
		entity.SignupProfile{FirstName: "Greg", LastName: "House", Username: "ghouse"},
		"house@example.com", "vicodin", entity.RoleDoctor)

	require.NoError(t, err)
	assert.Equal(t, "new-uid", user.UID)

	state := s.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.Identity)
	assert.Equal(t, entity.RoleDoctor, state.Identity.Role)
	assert.Equal(t, "house@example.com", state.Identity.Email)

	require.NotNil(t, users.lastCreate)
	assert.Equal(t, "new-uid", users.lastCreate.UID)
	assert.Equal(t, "ghouse", users.lastCreate.Username)
	assert.Equal(t, entity.RoleDoctor, users.lastCreate.Role)
}

func TestSession_SignupRejectsUnknownRole(t *testing.T) {
	auth := &mockAuthProvider{
		createFn: func(ctx context.Context, email, password string) (*backend.Principal, error) {
			t.Fatal("provider must not be called")
			return nil, nil
		},
	}
	s := newSession(auth, newMockUserRepo())

	_, err := s.Signup(context.Background(), entity.SignupProfile{}, "a@b.c", "secret1", entity.Role("admin"))

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_SignupPropagatesCreateError(t *testing.T) {
	auth := &mockAuthProvider{
		createFn: func(ctx context.Context, email, password string) (*backend.Principal, error) {
			return nil, backend.NewAuthError(backend.CodeEmailAlreadyInUse, "taken", nil)
		},
	}
	users := newMockUserRepo()
	s := newSession(auth, users)

	_, err := s.Signup(context.Background(), entity.SignupProfile{}, "a@b.c", "secret1", entity.RolePatient)

	assert.True(t, errors.Is(err, backend.ErrEmailAlreadyInUse))
	assert.Nil(t, users.lastCreate)
	assert.Nil(t, s.CurrentUser())
}

func TestSession_SignupProfileWriteFailureLeavesNoIdentity(t *testing.T) {
	users := newMockUserRepo()
	users.createFn = func(ctx context.Context, user *entity.User) error {
		return errors.New("permission denied")
	}
	s := newSession(&mockAuthProvider{}, users)

	_, err := s.Signup(context.Background(), entity.SignupProfile{}, "a@b.c", "secret1", entity.RolePatient)

	assert.Error(t, err)
	assert.Nil(t, s.CurrentUser())
	assert.True(t, s.State().Loading)
}

func TestSession_StaleResolutionDoesNotOverwriteSignup(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	users := newMockUserRepo()
	users.findFn = func(ctx context.Context, uid string) (*entity.User, error) {
		close(started)
		<-release
		return nil, nil
	}
	s := newSession(&mockAuthProvider{}, users)

	done := make(chan struct{})
	go func() {
		s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "new-uid"})
		close(done)
	}()
	<-started

	_, err := s.Signup(context.Background(), entity.SignupProfile{FirstName: "A"}, "a@b.c", "secret1", entity.RolePatient)
	require.NoError(t, err)

	close(release)
	<-done

	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "new-uid", s.CurrentUser().UID)
}

func TestSession_LogoutClearsIdentity(t *testing.T) {
	auth := &mockAuthProvider{}
	s := newSession(auth, newMockUserRepo(jane))
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	require.NotNil(t, s.CurrentUser())

	require.NoError(t, s.Logout(context.Background()))

	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.State().Loading)
	assert.Equal(t, 1, auth.signOuts)
}

func TestSession_LogoutFailureKeepsIdentity(t *testing.T) {
	auth := &mockAuthProvider{signOutFn: func(ctx context.Context) error { return errors.New("offline") }}
	s := newSession(auth, newMockUserRepo(jane))
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})

	err := s.Logout(context.Background())

	assert.Error(t, err)
	assert.NotNil(t, s.CurrentUser())
}

func TestSession_SignInEventQueuedBeforeLogoutIsIgnored(t *testing.T) {
	users := newMockUserRepo(jane)
	s := newSession(&mockAuthProvider{}, users)
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	require.NoError(t, s.Logout(context.Background()))

	// delivered late, before the provider's own sign-out event
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	assert.Nil(t, s.CurrentUser())

	s.OnAuthStateChanged(context.Background(), nil)
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "u1", s.CurrentUser().UID)
}

func TestSession_SignOutEventDeliveredDuringLogout(t *testing.T) {
	auth := &mockAuthProvider{}
	auth.signOutFn = func(ctx context.Context) error {
		auth.emit(nil)
		return nil
	}
	s := newSession(auth, newMockUserRepo(jane))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	auth.emit(&backend.Principal{UID: "u1"})
	require.NotNil(t, s.CurrentUser())

	require.NoError(t, s.Logout(context.Background()))
	assert.Nil(t, s.CurrentUser())

	require.NoError(t, s.Login(context.Background(), "jane@example.com", "secret"))
	auth.emit(&backend.Principal{UID: "u1"})

	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "u1", s.CurrentUser().UID)
}

func TestSession_FailedLogoutDoesNotHoldBackSignIn(t *testing.T) {
	auth := &mockAuthProvider{signOutFn: func(ctx context.Context) error { return errors.New("offline") }}
	s := newSession(auth, newMockUserRepo(jane))

	require.Error(t, s.Logout(context.Background()))

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "u1", s.CurrentUser().UID)
}

func TestSession_WaitResolved(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.WaitResolved(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})

	state, err := s.WaitResolved(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Equal(t, "u1", state.Identity.UID)
}

func TestSession_WatchReceivesLatestState(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))
	updates, stop := s.Watch()
	defer stop()

	initial := <-updates
	assert.True(t, initial.Loading)

	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})
	require.NoError(t, s.Logout(context.Background()))

	latest := <-updates
	assert.False(t, latest.Loading)
	assert.Nil(t, latest.Identity)
}

func TestSession_WatchAfterStopIsClosed(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	updates, stop := s.Watch()
	defer stop()

	var states []entity.SessionState
	for state := range updates {
		states = append(states, state)
	}
	require.Len(t, states, 1)
	assert.True(t, states[0].Loading)
}

func TestSession_CurrentUserIsACopy(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo(jane))
	s.OnAuthStateChanged(context.Background(), &backend.Principal{UID: "u1"})

	u := s.CurrentUser()
	u.Role = entity.RoleDoctor

	assert.Equal(t, entity.RolePatient, s.CurrentUser().Role)
}

func TestSession_StartTwiceFails(t *testing.T) {
	s := newSession(&mockAuthProvider{}, newMockUserRepo())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), ErrSessionStarted)
}

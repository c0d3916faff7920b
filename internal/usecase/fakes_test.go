package usecase

import (
	"context"
	"io"
	"sync"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// --- mocks ---

type mockAuthProvider struct {
	mu        sync.Mutex
	listener  backend.AuthStateListener
	signInFn  func(ctx context.Context, email, password string) (*backend.Principal, error)
	createFn  func(ctx context.Context, email, password string) (*backend.Principal, error)
	signOutFn func(ctx context.Context) error
	signOuts  int
}

func (m *mockAuthProvider) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return &backend.Principal{UID: "u1", Email: email}, nil
}

func (m *mockAuthProvider) CreateUser(ctx context.Context, email, password string) (*backend.Principal, error) {
	if m.createFn != nil {
		return m.createFn(ctx, email, password)
	}
	return &backend.Principal{UID: "new-uid", Email: email}, nil
}

func (m *mockAuthProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.signOuts++
	m.mu.Unlock()
	if m.signOutFn != nil {
		return m.signOutFn(ctx)
	}
	return nil
}

func (m *mockAuthProvider) Subscribe(listener backend.AuthStateListener) func() {
	m.mu.Lock()
	m.listener = listener
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.listener = nil
		m.mu.Unlock()
	}
}

func (m *mockAuthProvider) emit(p *backend.Principal) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	if l != nil {
		l(p)
	}
}

type mockUserRepo struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	findFn     func(ctx context.Context, uid string) (*entity.User, error)
	createFn   func(ctx context.Context, user *entity.User) error
	findCalls  int
	lastCreate *entity.User
}

func newMockUserRepo(users ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		m.users[u.UID] = u
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	m.lastCreate = user.Clone()
	m.users[user.UID] = user.Clone()
	return nil
}

func (m *mockUserRepo) FindByUID(ctx context.Context, uid string) (*entity.User, error) {
	m.mu.Lock()
	m.findCalls++
	fn := m.findFn
	u := m.users[uid]
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, uid)
	}
	return u.Clone(), nil
}

type mockAppointmentRepo struct {
	byPatientFn func(ctx context.Context, id string) ([]entity.Appointment, error)
	byDoctorFn  func(ctx context.Context, id string) ([]entity.Appointment, error)
	calls       int
}

func (m *mockAppointmentRepo) FindByPatientID(ctx context.Context, id string) ([]entity.Appointment, error) {
	m.calls++
	if m.byPatientFn != nil {
		return m.byPatientFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByDoctorID(ctx context.Context, id string) ([]entity.Appointment, error) {
	m.calls++
	if m.byDoctorFn != nil {
		return m.byDoctorFn(ctx, id)
	}
	return nil, nil
}

type mockDoctorProfileRepo struct {
	profiles map[string]*entity.DoctorProfile
	findErr  error
	upsertFn func(ctx context.Context, p *entity.DoctorProfile) error
	upserts  []*entity.DoctorProfile
}

func (m *mockDoctorProfileRepo) FindByUID(ctx context.Context, uid string) (*entity.DoctorProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.profiles[uid], nil
}

func (m *mockDoctorProfileRepo) Upsert(ctx context.Context, p *entity.DoctorProfile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	m.upserts = append(m.upserts, p)
	return nil
}

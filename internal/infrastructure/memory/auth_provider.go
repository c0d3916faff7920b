package memory

import (
	"context"
	"strings"
	"sync"

	"docapp/internal/domain/backend"
	"docapp/internal/infrastructure/authstate"
	"docapp/pkg/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the Firebase password policy
const MinPasswordLength = 6

type account struct {
	uid          string
	email        string
	passwordHash []byte
}

// AuthProvider keeps accounts in memory. CreateUser signs the new account
// in, like the hosted providers do.
type AuthProvider struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by lower-cased email

	broadcaster *authstate.Broadcaster
}

func NewAuthProvider() *AuthProvider {
	return &AuthProvider{
		accounts:    make(map[string]*account),
		broadcaster: authstate.NewBroadcaster(),
	}
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}

	p.mu.Lock()
	acc, ok := p.accounts[strings.ToLower(email)]
	p.mu.Unlock()
	if !ok {
		return nil, backend.NewAuthError(backend.CodeInvalidCredential, "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, backend.NewAuthError(backend.CodeInvalidCredential, "invalid email or password", err)
	}

	principal := &backend.Principal{UID: acc.uid, Email: acc.email}
	p.broadcaster.Publish(principal)
	return principal, nil
}

func (p *AuthProvider) CreateUser(ctx context.Context, email, password string) (*backend.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}
	if len(password) < MinPasswordLength {
		return nil, backend.NewAuthError(backend.CodeWeakPassword, "password should be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, backend.NewAuthError(backend.CodeInternal, "failed to hash password", err)
	}

	key := strings.ToLower(email)
	p.mu.Lock()
	if _, exists := p.accounts[key]; exists {
		p.mu.Unlock()
		return nil, backend.NewAuthError(backend.CodeEmailAlreadyInUse, "the email address is already in use", nil)
	}
	acc := &account{uid: uuid.New().String(), email: email, passwordHash: hash}
	p.accounts[key] = acc
	p.mu.Unlock()

	principal := &backend.Principal{UID: acc.uid, Email: acc.email}
	p.broadcaster.Publish(principal)
	return principal, nil
}

func (p *AuthProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.broadcaster.Publish(nil)
	return nil
}

func (p *AuthProvider) Subscribe(listener backend.AuthStateListener) func() {
	return p.broadcaster.Subscribe(listener)
}

// Close stops event delivery
func (p *AuthProvider) Close() {
	p.broadcaster.Close()
}

// Package selfhosted authenticates against principals kept in PostgreSQL.
// Sessions are signed JWTs whose IDs are whitelisted in Redis, so a
// session can be revoked before it expires.
package selfhosted

import (
	"context"
	"errors"
	"fmt"

	"docapp/internal/domain/backend"
	"docapp/internal/infrastructure/authstate"
	"docapp/pkg/jwt"
	"docapp/pkg/validator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

type AuthProvider struct {
	log        *logrus.Logger
	principals principalStore
	whitelist  tokenWhitelist
	jwtService *jwt.JWTService
	tracker    *authstate.Tracker
}

func NewAuthProvider(
	db *gorm.DB,
	redisClient *redis.Client,
	jwtService *jwt.JWTService,
	persistence backend.SessionPersistence,
	log *logrus.Logger,
) *AuthProvider {
	return newAuthProvider(log, &gormPrincipalStore{db: db}, &redisWhitelist{client: redisClient}, jwtService, persistence)
}

func newAuthProvider(
	log *logrus.Logger,
	principals principalStore,
	whitelist tokenWhitelist,
	jwtService *jwt.JWTService,
	persistence backend.SessionPersistence,
) *AuthProvider {
	return &AuthProvider{
		log:        log,
		principals: principals,
		whitelist:  whitelist,
		jwtService: jwtService,
		tracker:    authstate.NewTracker(log, persistence),
	}
}

// Restore resumes the persisted session while its token is valid and
// still whitelisted.
func (p *AuthProvider) Restore(ctx context.Context) error {
	stored, err := p.tracker.Stored(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted session: %w", err)
	}
	if stored == nil {
		return nil
	}

	valid, err := p.checkSession(ctx, stored)
	if err != nil {
		return err
	}
	if !valid {
		p.tracker.Forget(ctx)
		return nil
	}

	p.tracker.SignedIn(ctx, stored)
	p.log.Infof("Session restored, uid: %s", stored.UID)
	return nil
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}

	row, err := p.principals.FindByEmail(ctx, email)
	if err != nil {
		return nil, backend.NewAuthError(backend.CodeInternal, "failed to look up principal", err)
	}
	if row == nil {
		return nil, backend.NewAuthError(backend.CodeInvalidCredential, "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, backend.NewAuthError(backend.CodeInvalidCredential, "invalid email or password", err)
	}
	if row.Disabled {
		return nil, backend.NewAuthError(backend.CodeUserDisabled, "the user account has been disabled", nil)
	}

	if err := p.startSession(ctx, row); err != nil {
		return nil, err
	}
	return &backend.Principal{UID: row.ID, Email: row.Email}, nil
}

// CreateUser registers the principal and signs it in
func (p *AuthProvider) CreateUser(ctx context.Context, email, password string) (*backend.Principal, error) {
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}
	if len(password) < MinPasswordLength {
		return nil, backend.NewAuthError(backend.CodeWeakPassword, "password should be at least 6 characters", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, backend.NewAuthError(backend.CodeInternal, "failed to hash password", err)
	}

	row := &principalRow{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := p.principals.Create(ctx, row); err != nil {
		if errors.Is(err, errEmailTaken) {
			return nil, backend.NewAuthError(backend.CodeEmailAlreadyInUse, "the email address is already in use", err)
		}
		return nil, backend.NewAuthError(backend.CodeInternal, "failed to create principal", err)
	}

	if err := p.startSession(ctx, row); err != nil {
		return nil, err
	}
	return &backend.Principal{UID: row.ID, Email: row.Email}, nil
}

// SignOut revokes the session token and ends the local session
func (p *AuthProvider) SignOut(ctx context.Context) error {
	if session := p.tracker.Session(); session != nil {
		if claims, err := p.jwtService.ValidateToken(session.Token); err == nil {
			if err := p.whitelist.Revoke(ctx, claims.UserID, claims.TokenID); err != nil {
				p.log.Warnf("Failed to revoke session token for uid %s: %+v", claims.UserID, err)
			}
		}
	}

	if err := p.tracker.SignedOut(ctx); err != nil {
		return backend.NewAuthError(backend.CodeInternal, "failed to clear the session", err)
	}
	return nil
}

// VerifySession ends the session once its token has expired or been revoked,
// or the principal has been disabled or deleted.
func (p *AuthProvider) VerifySession(ctx context.Context) error {
	session := p.tracker.Session()
	if session == nil {
		return nil
	}

	valid, err := p.checkSession(ctx, session)
	if err != nil {
		return err
	}
	if valid {
		return nil
	}

	p.log.Infof("Session for uid %s is no longer valid", session.UID)
	return p.tracker.SignedOut(ctx)
}

func (p *AuthProvider) Subscribe(listener backend.AuthStateListener) func() {
	return p.tracker.Subscribe(listener)
}

func (p *AuthProvider) Close() {
	p.tracker.Close()
}

func (p *AuthProvider) startSession(ctx context.Context, row *principalRow) error {
	issued, err := p.jwtService.GenerateSessionToken(row.ID, row.Email)
	if err != nil {
		return backend.NewAuthError(backend.CodeInternal, "failed to sign session token", err)
	}
	if err := p.whitelist.Allow(ctx, row.ID, issued.TokenID, p.jwtService.GetAccessExpiry()); err != nil {
		return backend.NewAuthError(backend.CodeNetworkFailed, "failed to register session token", err)
	}

	p.tracker.SignedIn(ctx, &backend.PersistedSession{
		UID:       row.ID,
		Email:     row.Email,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	})
	return nil
}

// checkSession reports whether session is still honoured. An error means
// validity could not be established and the session should be kept.
func (p *AuthProvider) checkSession(ctx context.Context, session *backend.PersistedSession) (bool, error) {
	claims, err := p.jwtService.ValidateToken(session.Token)
	if err != nil {
		return false, nil
	}

	allowed, err := p.whitelist.Allowed(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		return false, backend.NewAuthError(backend.CodeNetworkFailed, "failed to check session token", err)
	}
	if !allowed {
		return false, nil
	}

	row, err := p.principals.FindByID(ctx, claims.UserID)
	if err != nil {
		return false, backend.NewAuthError(backend.CodeInternal, "failed to look up principal", err)
	}
	return row != nil && !row.Disabled, nil
}

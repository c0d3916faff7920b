package firebase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"docapp/config"
	"docapp/internal/domain/backend"
	"docapp/internal/infrastructure/authstate"
	"docapp/pkg/validator"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// MinPasswordLength is the Firebase password policy
const MinPasswordLength = 6

type adminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

type signInResult struct {
	UID       string
	Email     string
	IDToken   string
	ExpiresIn time.Duration
}

type passwordSignIn interface {
	VerifyPassword(ctx context.Context, email, password string) (*signInResult, error)
}

type identityToolkit struct {
	svc *identitytoolkit.Service
}

func (t *identityToolkit) VerifyPassword(ctx context.Context, email, password string) (*signInResult, error) {
	resp, err := t.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &signInResult{
		UID:       resp.LocalId,
		Email:     resp.Email,
		IDToken:   resp.IdToken,
		ExpiresIn: time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}

// AuthProvider signs users in with email and password against Firebase
// Authentication. Accounts are created through the Admin SDK and sessions
// are ID tokens checked with the Admin SDK.
type AuthProvider struct {
	log     *logrus.Logger
	admin   adminClient
	signIn  passwordSignIn
	tracker *authstate.Tracker
	now     func() time.Time
}

func NewAuthProvider(
	ctx context.Context,
	app *firebase.App,
	cfg config.FirebaseConfig,
	persistence backend.SessionPersistence,
	log *logrus.Logger,
) (*AuthProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity toolkit client: %w", err)
	}

	return newAuthProvider(log, client, &identityToolkit{svc: svc}, persistence), nil
}

func newAuthProvider(log *logrus.Logger, admin adminClient, signIn passwordSignIn, persistence backend.SessionPersistence) *AuthProvider {
	return &AuthProvider{
		log:     log,
		admin:   admin,
		signIn:  signIn,
		tracker: authstate.NewTracker(log, persistence),
		now:     time.Now,
	}
}

// Restore resumes the persisted session when its ID token still verifies.
// Call it before the first Subscribe so subscribers see the restored state.
func (p *AuthProvider) Restore(ctx context.Context) error {
	stored, err := p.tracker.Stored(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted session: %w", err)
	}
	if stored == nil {
		return nil
	}

	if stored.Expired(p.now()) {
		p.log.Infof("Persisted session for uid %s has expired", stored.UID)
		p.tracker.Forget(ctx)
		return nil
	}

	token, err := p.admin.VerifyIDTokenAndCheckRevoked(ctx, stored.Token)
	if err != nil {
		if sessionEnded(err) {
			p.log.Infof("Persisted session for uid %s is no longer valid: %v", stored.UID, err)
			p.tracker.Forget(ctx)
			return nil
		}
		return mapAuthError(err)
	}

	stored.UID = token.UID
	p.tracker.SignedIn(ctx, stored)
	p.log.Infof("Session restored, uid: %s", stored.UID)
	return nil
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}

	result, err := p.signIn.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, mapAuthError(err)
	}

	p.startSession(ctx, result)
	return &backend.Principal{UID: result.UID, Email: result.Email}, nil
}

// CreateUser creates the account, then signs it in.
func (p *AuthProvider) CreateUser(ctx context.Context, email, password string) (*backend.Principal, error) {
	if !validator.IsEmail(email) {
		return nil, backend.NewAuthError(backend.CodeInvalidEmail, "the email address is badly formatted", nil)
	}
	if len(password) < MinPasswordLength {
		return nil, backend.NewAuthError(backend.CodeWeakPassword, "password should be at least 6 characters", nil)
	}

	record, err := p.admin.CreateUser(ctx, (&auth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		return nil, mapAuthError(err)
	}

	result, err := p.signIn.VerifyPassword(ctx, email, password)
	if err != nil {
		p.log.Errorf("Account %s created but sign-in failed: %+v", record.UID, err)
		return nil, mapAuthError(err)
	}

	p.startSession(ctx, result)
	return &backend.Principal{UID: record.UID, Email: record.Email}, nil
}

// SignOut ends the local session. Tokens already issued stay valid until
// they expire.
func (p *AuthProvider) SignOut(ctx context.Context) error {
	if err := p.tracker.SignedOut(ctx); err != nil {
		return backend.NewAuthError(backend.CodeInternal, "failed to clear the session", err)
	}
	return nil
}

// VerifySession ends the session when its ID token has expired, was revoked
// or belongs to a disabled or deleted account.
func (p *AuthProvider) VerifySession(ctx context.Context) error {
	session := p.tracker.Session()
	if session == nil {
		return nil
	}

	if !session.Expired(p.now()) {
		_, err := p.admin.VerifyIDTokenAndCheckRevoked(ctx, session.Token)
		if err == nil {
			return nil
		}
		if !sessionEnded(err) {
			return mapAuthError(err)
		}
		p.log.Infof("Session for uid %s is no longer valid: %v", session.UID, err)
	} else {
		p.log.Infof("Session for uid %s has expired", session.UID)
	}

	return p.tracker.SignedOut(ctx)
}

func (p *AuthProvider) Subscribe(listener backend.AuthStateListener) func() {
	return p.tracker.Subscribe(listener)
}

func (p *AuthProvider) Close() {
	p.tracker.Close()
}

func (p *AuthProvider) startSession(ctx context.Context, result *signInResult) {
	session := &backend.PersistedSession{
		UID:   result.UID,
		Email: result.Email,
		Token: result.IDToken,
	}
	if result.ExpiresIn > 0 {
		session.ExpiresAt = p.now().Add(result.ExpiresIn)
	}
	p.tracker.SignedIn(ctx, session)
}

func sessionEnded(err error) bool {
	return auth.IsIDTokenExpired(err) ||
		auth.IsIDTokenRevoked(err) ||
		auth.IsIDTokenInvalid(err) ||
		auth.IsUserDisabled(err) ||
		auth.IsUserNotFound(err)
}

// Identity Toolkit reports failures as an upper-case reason, optionally
// followed by " : details".
var identityToolkitCodes = map[string]backend.AuthErrorCode{
	"EMAIL_NOT_FOUND":             backend.CodeUserNotFound,
	"INVALID_PASSWORD":            backend.CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":   backend.CodeInvalidCredential,
	"USER_DISABLED":               backend.CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": backend.CodeTooManyRequests,
	"INVALID_EMAIL":               backend.CodeInvalidEmail,
	"WEAK_PASSWORD":               backend.CodeWeakPassword,
	"EMAIL_EXISTS":                backend.CodeEmailAlreadyInUse,
	"MISSING_PASSWORD":            backend.CodeInvalidCredential,
}

func mapAuthError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		reason := strings.TrimSpace(strings.SplitN(apiErr.Message, ":", 2)[0])
		if code, ok := identityToolkitCodes[reason]; ok {
			return backend.NewAuthError(code, apiErr.Message, err)
		}
		if apiErr.Code == 429 {
			return backend.NewAuthError(backend.CodeTooManyRequests, apiErr.Message, err)
		}
		return backend.NewAuthError(backend.CodeInternal, apiErr.Message, err)
	}

	switch {
	case auth.IsEmailAlreadyExists(err):
		return backend.NewAuthError(backend.CodeEmailAlreadyInUse, "the email address is already in use", err)
	case auth.IsUserNotFound(err):
		return backend.NewAuthError(backend.CodeUserNotFound, "no user for this identifier", err)
	case auth.IsUserDisabled(err):
		return backend.NewAuthError(backend.CodeUserDisabled, "the user account has been disabled", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backend.NewAuthError(backend.CodeNetworkFailed, "network request failed", err)
	}
	return backend.NewAuthError(backend.CodeInternal, err.Error(), err)
}

package backend

import (
	"errors"
	"fmt"
)

// AuthErrorCode is the stable code of an authentication failure.
// Codes follow the Firebase client naming so UIs can map them directly.
type AuthErrorCode string

const (
	CodeInvalidCredential AuthErrorCode = "auth/invalid-credential"
	CodeInvalidEmail      AuthErrorCode = "auth/invalid-email"
	CodeUserNotFound      AuthErrorCode = "auth/user-not-found"
	CodeWrongPassword     AuthErrorCode = "auth/wrong-password"
	CodeEmailAlreadyInUse AuthErrorCode = "auth/email-already-in-use"
	CodeWeakPassword      AuthErrorCode = "auth/weak-password"
	CodeUserDisabled      AuthErrorCode = "auth/user-disabled"
	CodeTooManyRequests   AuthErrorCode = "auth/too-many-requests"
	CodeNetworkFailed     AuthErrorCode = "auth/network-request-failed"
	CodeInternal          AuthErrorCode = "auth/internal-error"
)

// AuthError is an authentication failure reported by a provider
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches any AuthError carrying the same code, so the sentinels below
// work with errors.Is.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrInvalidCredential = &AuthError{Code: CodeInvalidCredential}
	ErrInvalidEmail      = &AuthError{Code: CodeInvalidEmail}
	ErrUserNotFound      = &AuthError{Code: CodeUserNotFound}
	ErrWrongPassword     = &AuthError{Code: CodeWrongPassword}
	ErrEmailAlreadyInUse = &AuthError{Code: CodeEmailAlreadyInUse}
	ErrWeakPassword      = &AuthError{Code: CodeWeakPassword}
	ErrUserDisabled      = &AuthError{Code: CodeUserDisabled}
	ErrTooManyRequests   = &AuthError{Code: CodeTooManyRequests}
	ErrNetworkFailed     = &AuthError{Code: CodeNetworkFailed}
)

// NewAuthError builds an AuthError wrapping the provider's own error
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// AuthErrorCodeOf extracts the code of an AuthError anywhere in err's chain
func AuthErrorCodeOf(err error) (AuthErrorCode, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code, true
	}
	return "", false
}

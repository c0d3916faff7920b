package entity

// SessionPhase names the three states of a client session
type SessionPhase string

const (
	SessionUnresolved      SessionPhase = "unresolved"
	SessionAuthenticated   SessionPhase = "authenticated"
	SessionUnauthenticated SessionPhase = "unauthenticated"
)

// SessionState is a snapshot of the current session.
// Consumers must not decide on a redirect while Loading is true.
type SessionState struct {
	Identity *User
	Loading  bool
}

// Authenticated reports whether an identity is resolved
func (s SessionState) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Phase maps the snapshot onto the session state machine
func (s SessionState) Phase() SessionPhase {
	switch {
	case s.Loading:
		return SessionUnresolved
	case s.Identity != nil:
		return SessionAuthenticated
	default:
		return SessionUnauthenticated
	}
}

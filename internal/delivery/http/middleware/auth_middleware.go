package middleware

import (
	"context"
	"net/http"

	"docapp/internal/domain/entity"
	"docapp/internal/usecase"
	"docapp/pkg/response"
)

type contextKey string

const UserKey contextKey = "user"

// AuthMiddleware gates routes on the session manager's current identity
type AuthMiddleware struct {
	sessionUsecase usecase.SessionUsecase
}

func NewAuthMiddleware(sessionUsecase usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{sessionUsecase: sessionUsecase}
}

// Authenticate answers 503 until the first auth-state event has been
// resolved and 401 when nobody is signed in. Otherwise the identity is put
// in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := m.sessionUsecase.State()

		if state.Loading {
			w.Header().Set("Retry-After", "1")
			response.ServiceUnavailable(w, "Chargement de la session...")
			return
		}
		if state.Identity == nil {
			response.Unauthorized(w, "Vous devez être connecté.")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, state.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts the identity set by Authenticate
func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	return user, ok && user != nil
}

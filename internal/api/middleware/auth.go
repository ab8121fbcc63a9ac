package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/auth"
	"cardsynch/internal/platform/repositories"
)

type AuthMiddleware struct {
	verifier *auth.Verifier
	users    *repositories.UserRepository
}

func NewAuthMiddleware(verifier *auth.Verifier, users *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// Handle validates the bearer token and stores the asserted identity in the
// request context. It does not require a local user record; registration
// runs behind this alone.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		identity, err := m.verifier.Verify(parts[1])
		if err != nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Identity, identity)
		next(w, r.WithContext(ctx))
	}
}

// RequireUser resolves the identity to a registered user and stores it in
// the context. Runs after Handle.
func (m *AuthMiddleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := r.Context().Value(apiContext.Identity).(*auth.Identity)
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing identity", nil)
			return
		}

		user, err := m.users.GetBySubject(identity.Subject)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load user", nil)
			return
		}
		if user == nil {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeUserNotFound, "User is not registered", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.User, user)
		next(w, r.WithContext(ctx))
	}
}

package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionKey is the context key for storing the authenticated session.
const sessionKey contextKey = "session"

// GetSession extracts the authenticated session from the context.
// Returns the zero Session if not found.
func GetSession(ctx context.Context) models.Session {
	session, _ := ctx.Value(sessionKey).(models.Session)
	return session
}

// withSession returns a copy of ctx carrying the given session.
func withSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// requireAuth validates the Bearer token and adds the session identity to
// the request context. Requests without a valid token get 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		claims, err := s.jwt.Validate(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), claims.Session())))
	})
}

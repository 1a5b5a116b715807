package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkarsten/tablehost/internal/api/apierr"
	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/services/user"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// Auth creates authentication middleware
func Auth(userService *user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := userService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			// Add session and user to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, session)
			ctx = context.WithValue(ctx, userContextKey, &session.User)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdministrator rejects requests whose authenticated user lacks
// administrator privilege. Must run after Auth.
func RequireAdministrator() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUser(r.Context())
			if u == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if !u.Administrator {
				apierr.WriteError(w, apierr.NewForbiddenError("Administrator privilege required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	u, _ := ctx.Value(userContextKey).(*model.User)
	return u
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *user.Session {
	session, _ := ctx.Value(sessionContextKey).(*user.Session)
	return session
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	u := GetUser(ctx)
	if u == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return u
}

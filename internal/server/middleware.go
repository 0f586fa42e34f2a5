package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"brainrush/internal/auth"
	"brainrush/internal/model"
	"brainrush/internal/repository"
	"brainrush/internal/service"
)

// SessionCookie is the name of the session cookie carrying the JWT.
const SessionCookie = "session"

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user attached by RequireUser.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// Auth authenticates requests from the session cookie or a Bearer token and
// attaches the user to the request context.
type Auth struct {
	tokens   *auth.TokenManager
	accounts *service.AccountService
}

// NewAuth creates a new Auth middleware.
func NewAuth(tokens *auth.TokenManager, accounts *service.AccountService) *Auth {
	return &Auth{tokens: tokens, accounts: accounts}
}

// token extracts the JWT from the session cookie or Authorization header.
func (a *Auth) token(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireUser rejects unauthenticated requests with 401 and loads the
// current user into the request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := a.token(r)
		if tokenStr == "" {
			Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := a.tokens.Parse(tokenStr)
		if err != nil {
			Error(w, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		user, err := a.accounts.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				Error(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}
			Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests from non-admin users with 403. Must be
// mounted after RequireUser.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin() {
			Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

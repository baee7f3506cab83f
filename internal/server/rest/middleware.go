package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
)

type ctxKey string

const (
	userIDKey   ctxKey = "userID"
	rawTokenKey ctxKey = "rawToken"
)

// tokenFromRequest extracts the session token from the request. A cookie
// takes precedence over an Authorization: Bearer header; exactly one source
// is consulted.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(common.TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get(common.AuthorizationHeaderName)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// sessionGate authenticates the request: extract token, verify signature
// and expiry, consult the revocation blacklist, then attach the subject's
// user id and the raw token to the request context. Every failure yields
// the same coarse 401; the concrete sub-reason is only logged, so clients
// cannot probe which check failed.
func (s *Server) sessionGate(next http.Handler) http.Handler {
	return s.authenticate(next, true)
}

// logoutGate verifies the token like sessionGate but accepts revoked ones:
// repeating a logout with the same token must succeed, and Revoke is a
// no-op the second time.
func (s *Server) logoutGate(next http.Handler) http.Handler {
	return s.authenticate(next, false)
}

func (s *Server) authenticate(next http.Handler, rejectRevoked bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			s.rejectUnauthenticated(w, r, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				reason = "expired token"
			}
			s.rejectUnauthenticated(w, r, reason)
			return
		}

		if rejectRevoked && s.blacklist.IsRevoked(token) {
			s.rejectUnauthenticated(w, r, "revoked token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, rawTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, reason string) {
	s.logger.Info(r.Context(), "request rejected", "path", r.URL.Path, "reason", reason)
	s.writeError(w, r, http.StatusUnauthorized, nil, "unauthorized")
}

// userIDFromContext returns the authenticated subject set by sessionGate.
func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// rawTokenFromContext returns the exact token string the request presented.
func rawTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(rawTokenKey).(string)
	return token, ok
}

// requestID tags every request with an id for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		s.logger.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}

// Package auth provides the middleware guarding protected routes. The session
// token travels exclusively in the X-Session-ID header; a missing, empty or
// unknown token is one uniform authorization failure.
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jurnalku/jurnalku/internal/models"
	"github.com/jurnalku/jurnalku/internal/session"
)

// SessionHeader carries the bearer token on every protected request.
const SessionHeader = "X-Session-ID"

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key holding the authenticated user's identifier.
const UserIDKey ContextKey = "userID"

type sessionLookup interface {
	Lookup(token string) (*session.Session, bool)
}

// Auth resolves session tokens into request contexts.
type Auth struct {
	sessions sessionLookup
}

// New creates the middleware provider backed by the given session store.
func New(sessions sessionLookup) *Auth {
	return &Auth{sessions: sessions}
}

// RequireSession is an HTTP middleware that rejects requests without a live
// session and injects the acting user's identifier and token into the context.
func (a *Auth) RequireSession(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		token := request.Header.Get(SessionHeader)
		if token == "" {
			writeUnauthorized(response)
			return
		}

		sess, found := a.sessions.Lookup(token)
		if !found {
			writeUnauthorized(response)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, sess.UserID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

func writeUnauthorized(response http.ResponseWriter) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(response).Encode(models.ErrorResponse{Error: models.ErrUnauthorized.Error()})
}

// UserIDFromContext extracts the authenticated user's identifier.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

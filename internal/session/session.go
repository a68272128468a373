// Package session implements the volatile session store. Sessions live only in
// memory: a process restart invalidates every token by design, and there is no
// TTL sweep — a session lasts until explicit logout.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated context resolved from a token. Email is a
// denormalized snapshot taken at login time.
type Session struct {
	UserID    string
	Email     string
	CreatedAt time.Time
}

// Store maps opaque bearer tokens to sessions. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// New returns an empty session store.
func New() *Store {
	return &Store{
		sessions: map[string]*Session{},
	}
}

// Create mints a high-entropy opaque token for the given user and returns it.
// The token is a bearer credential, not a signed one: possession is the whole
// proof.
func (s *Store) Create(userID, email string) string {
	token := fmt.Sprintf("sess_%d_%s", time.Now().UnixNano(), uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = &Session{
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now(),
	}

	return token
}

// Lookup resolves a token. A miss is the single authorization-failure signal
// used by every protected route.
func (s *Store) Lookup(token string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, found := s.sessions[token]

	return session, found
}

// Destroy removes a token. Destroying an unknown or already-destroyed token is
// not an error; logout stays idempotent.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

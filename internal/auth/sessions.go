package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionTTL = time.Hour

// sessionStore tracks active admin session tokens in memory. Sessions do not
// survive a restart; admins just log in again.
type sessionStore struct {
	mu     sync.Mutex
	expiry map[string]time.Time
}

var sessions = &sessionStore{expiry: make(map[string]time.Time)}

// create mints a fresh token valid for sessionTTL.
func (s *sessionStore) create() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.expiry[token] = time.Now().Add(sessionTTL)
	s.mu.Unlock()
	return token
}

// valid reports whether the token belongs to a live session, dropping it if
// it has expired.
func (s *sessionStore) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.expiry[token]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(s.expiry, token)
		return false
	}
	return true
}

func (s *sessionStore) revoke(token string) {
	s.mu.Lock()
	delete(s.expiry, token)
	s.mu.Unlock()
}

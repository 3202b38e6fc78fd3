package dispatch

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/heartmarshall/lessico/internal/domain"
)

// Session is the per-user dispatch state: at most one pending command,
// consumed by the next word the user sends.
type Session struct {
	UserID string

	mu      sync.Mutex
	pending domain.Mode
}

// NewSession creates an empty session for userID.
func NewSession(userID string) *Session {
	return &Session{UserID: userID}
}

// SetPending records mode as the command awaiting a word, replacing any
// earlier one.
func (s *Session) SetPending(mode domain.Mode) {
	s.mu.Lock()
	s.pending = mode
	s.mu.Unlock()
}

// TakePending returns and clears the pending command.
func (s *Session) TakePending() (domain.Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.pending
	s.pending = ""
	return mode, mode != ""
}

// Pending returns the pending command without consuming it.
func (s *Session) Pending() domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SessionStore keeps sessions in memory. It is bounded by size, and sessions
// idle for longer than ttl are dropped together with their pending command.
type SessionStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

// NewSessionStore creates a store holding up to size sessions.
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

// Get returns the session for userID, creating it if needed.
func (s *SessionStore) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.cache.Get(userID); ok {
		return sess
	}
	sess := NewSession(userID)
	s.cache.Add(userID, sess)
	return sess
}

// Save stores sess and restarts its idle timer.
func (s *SessionStore) Save(sess *Session) {
	s.cache.Add(sess.UserID, sess)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int { return s.cache.Len() }

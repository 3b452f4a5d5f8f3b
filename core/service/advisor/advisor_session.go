package advisor

import (
	"strings"
	"sync"
	"time"

	"advisor_server/core/domain"

	"github.com/google/uuid"
)

const (
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultMaxSessions bounds the store; the least recently used session
	// is evicted past it.
	DefaultMaxSessions = 10000
)

// Session is one user's analysis state. Score is shared by every request
// carrying the session id and guards itself. The remaining fields belong to
// the store's lock; read them through SessionStore.
type Session struct {
	ID    string
	Score *domain.ScoreState

	region    string
	language  string
	updatedAt time.Time
}

// SessionStore keeps sessions in memory. Safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

// NewSessionStore creates a store evicting sessions idle for longer than ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		limit:    DefaultMaxSessions,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, creating it at the default base
// score. An empty id gets a fresh random one.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if id == "" {
		id = uuid.NewString()
	} else {
		// ids usually come from request headers; own the bytes.
		id = strings.Clone(id)
	}
	if sess, ok := s.sessions[id]; ok {
		sess.updatedAt = now
		return sess, false
	}
	if len(s.sessions) >= s.limit {
		s.evictOldest()
	}
	sess := &Session{
		ID:        id,
		Score:     domain.NewScoreState(domain.DefaultBaseScore),
		updatedAt: now,
	}
	s.sessions[id] = sess
	return sess, true
}

// Get returns an existing session.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remember records the region and language of the latest analysis.
func (s *SessionStore) Remember(sess *Session, region, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.region, sess.language = region, language
	sess.updatedAt = s.now()
}

// Context returns the region and language of the session's last analysis.
func (s *SessionStore) Context(sess *Session) (region, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.region, sess.language
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep must be called with the lock held.
func (s *SessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.updatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// evictOldest must be called with the lock held.
func (s *SessionStore) evictOldest() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.updatedAt.Before(oldestAt) {
			oldestID, oldestAt = id, sess.updatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}

package redis

import (
	"context"
	"sync"
	"time"

	"decor-funnel/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions stay in a local map because the engine and its subscribers live in process.
//   - Redis holds a liveness key per session, valued with the visitor id, so other
//     instances and dashboards can see who is mid-quiz.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.VisitorID(), s.ttl).Err()
}

// Get returns a local session and refreshes its liveness marker.
func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Expire drops sessions idle since before cutoff. Sessions with live subscribers stay.
func (s *SessionStore) Expire(cutoff time.Time) int {
	var expired []string

	s.mu.Lock()
	for id, session := range s.sessions {
		if session.LastSeen().Before(cutoff) && session.Subscribers() == 0 {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		keys := make([]string, len(expired))
		for i, id := range expired {
			keys[i] = s.key(id)
		}
		_ = s.client.Del(context.Background(), keys...).Err()
	}
	return len(expired)
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}

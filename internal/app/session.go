package app

import (
	"sync"
	"time"

	"decor-funnel/internal/quiz"
)

// Session is one visitor's walk through a quiz. Every transition is serialised through the
// session lock and the resulting state is pushed to subscribers (open websockets).
type Session struct {
	id        string
	visitorID string
	createdAt time.Time
	now       func() time.Time

	mu          sync.Mutex
	engine      *quiz.Engine
	lastSeen    time.Time
	subscribers map[chan quiz.State]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, visitorID string, engine *quiz.Engine) *Session {
	return NewSessionWithClock(id, visitorID, engine, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id, visitorID string, engine *quiz.Engine, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:          id,
		visitorID:   visitorID,
		createdAt:   created,
		now:         now,
		engine:      engine,
		lastSeen:    created,
		subscribers: make(map[chan quiz.State]struct{}),
	}
}

func (s *Session) ID() string        { return s.id }
func (s *Session) VisitorID() string { return s.visitorID }

// LastSeen is the time of the latest transition or read.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// State snapshots the engine.
func (s *Session) State() quiz.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.engine.State()
}

// apply runs one transition under the lock and broadcasts the new state when it succeeds.
func (s *Session) apply(fn func(e *quiz.Engine) (quiz.State, error)) (quiz.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = s.now()
	st, err := fn(s.engine)
	if err != nil {
		return st, err
	}
	s.broadcastLocked(st)
	return st, nil
}

// inspect gives read access to the engine under the lock.
func (s *Session) inspect(fn func(e *quiz.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	fn(s.engine)
}

func (s *Session) subscribe() (<-chan quiz.State, func()) {
	ch := make(chan quiz.State, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.engine.State()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports how many channels are attached.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Session) broadcastLocked(st quiz.State) {
	for ch := range s.subscribers {
		select {
		case ch <- st:
		default:
			// slow reader: replace its oldest pending state
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

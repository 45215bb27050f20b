package app

import (
	"context"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/quiz"
	"decor-funnel/internal/ratelimit"
	"github.com/google/uuid"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// Expire drops sessions idle since before cutoff and returns how many went.
	Expire(cutoff time.Time) int
}

// QuizRepository returns validated quiz graphs (from cache/backing store).
type QuizRepository interface {
	GetGraph(ctx context.Context, quizID string) (*quiz.Graph, error)
}

// ResultStore keeps the latest quiz result per visitor so later pages can show it.
type ResultStore interface {
	SaveResult(ctx context.Context, visitorID string, result domain.StoredResult) error
	LoadResult(ctx context.Context, visitorID string) (domain.StoredResult, error)
}

// DefaultQuizID is served when no quiz id is configured.
const DefaultQuizID = "style-quiz"

// QuizOptions tune a QuizService.
type QuizOptions struct {
	QuizID    string
	Backtrack quiz.BacktrackPolicy
	Preset    ratelimit.Preset
}

// QuizService contains the style quiz use cases.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	results  ResultStore
	guard    *Guard
	opts     QuizOptions
	now      func() time.Time
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, results ResultStore, guard *Guard, opts QuizOptions) *QuizService {
	if opts.QuizID == "" {
		opts.QuizID = DefaultQuizID
	}
	if opts.Preset.Key == "" {
		opts.Preset = ratelimit.QuizSubmission
	}
	return &QuizService{
		sessions: store,
		quizzes:  quizzes,
		results:  results,
		guard:    guard,
		opts:     opts,
		now:      time.Now,
	}
}

// Started is returned when a visitor opens a quiz.
type Started struct {
	SessionID string     `json:"sessionId"`
	VisitorID string     `json:"visitorId"`
	State     quiz.State `json:"state"`
}

// Start opens a session on the entry question. An empty visitorID gets a fresh one.
func (s *QuizService) Start(ctx context.Context, visitorID string) (Started, error) {
	graph, err := s.quizzes.GetGraph(ctx, s.opts.QuizID)
	if err != nil {
		return Started{}, err
	}
	if visitorID == "" {
		visitorID = uuid.NewString()
	}
	session := NewSession(uuid.NewString(), visitorID, quiz.NewEngine(graph, s.opts.Backtrack))
	s.sessions.Put(session)
	return Started{SessionID: session.ID(), VisitorID: visitorID, State: session.State()}, nil
}

// Session returns an open session.
func (s *QuizService) Session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) State(_ context.Context, sessionID string) (quiz.State, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return quiz.State{}, err
	}
	return session.State(), nil
}

// Answer selects optionID for questionID and moves forward.
func (s *QuizService) Answer(_ context.Context, sessionID, questionID, optionID string) (quiz.State, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return quiz.State{}, err
	}
	return session.apply(func(e *quiz.Engine) (quiz.State, error) {
		return e.Advance(questionID, optionID)
	})
}

// Back steps back from questionID.
func (s *QuizService) Back(_ context.Context, sessionID, questionID string) (quiz.State, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return quiz.State{}, err
	}
	return session.apply(func(e *quiz.Engine) (quiz.State, error) {
		return e.GoBack(questionID)
	})
}

// Restart clears the session and returns to the entry question.
func (s *QuizService) Restart(_ context.Context, sessionID string) (quiz.State, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return quiz.State{}, err
	}
	return session.apply(func(e *quiz.Engine) (quiz.State, error) {
		return e.Restart(), nil
	})
}

// Result computes the recommendation of a completed session and stores it for the visitor.
// Requests are budgeted per visitor.
func (s *QuizService) Result(ctx context.Context, sessionID string) (domain.QuizResult, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if err := s.guard.Allow(ctx, s.opts.Preset, session.VisitorID()); err != nil {
		return domain.QuizResult{}, err
	}

	var (
		result domain.QuizResult
		rerr   error
	)
	session.inspect(func(e *quiz.Engine) {
		if !e.Complete() {
			rerr = domain.ErrQuizIncomplete
			return
		}
		result, rerr = quiz.NewPresenter(e.Graph()).Result(e.Scores(), e.Trail())
	})
	if rerr != nil {
		return domain.QuizResult{}, rerr
	}

	stored := domain.StoredResult{
		Style:     result.Recommendation.Top,
		StyleName: result.TopStyle.Name,
		Room:      result.RoomID,
		RoomName:  result.RoomName,
		SavedAt:   s.now(),
	}
	if err := s.results.SaveResult(ctx, session.VisitorID(), stored); err != nil {
		return domain.QuizResult{}, err
	}
	return result, nil
}

// StoredResult returns the visitor's latest saved result.
func (s *QuizService) StoredResult(ctx context.Context, visitorID string) (domain.StoredResult, error) {
	return s.results.LoadResult(ctx, visitorID)
}

// Subscribe returns a channel that receives the session's state after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan quiz.State, func(), error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close drops a session.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// ExpireIdle drops sessions without activity for longer than idle.
func (s *QuizService) ExpireIdle(idle time.Duration) int {
	return s.sessions.Expire(s.now().Add(-idle))
}

// StartJanitor expires idle sessions every interval until ctx is done.
func (s *QuizService) StartJanitor(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ExpireIdle(idle)
			}
		}
	}()
}

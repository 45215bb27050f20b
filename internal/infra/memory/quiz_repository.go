package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/quiz"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz documents from a backing store (files, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizDocument, error)
}

// QuizRepository caches validated quiz graphs with TTL to avoid reloading and re-checking
// the document on every session.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedGraph
}

type cachedGraph struct {
	graph     *quiz.Graph
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedGraph),
	}
}

func (r *QuizRepository) GetGraph(ctx context.Context, quizID string) (*quiz.Graph, error) {
	if g, ok := r.cached(quizID); ok {
		return g, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		if g, ok := r.cached(quizID); ok {
			return g, nil
		}

		doc, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		graph, err := quiz.NewGraph(quizID, doc)
		if err != nil {
			return nil, err
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[quizID] = cachedGraph{graph: graph, expiresAt: expiresAt}
		r.mu.Unlock()
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Graph), nil
}

func (r *QuizRepository) cached(quizID string) (*quiz.Graph, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		return entry.graph, true
	}
	return nil, false
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	quizzes map[string]domain.QuizDocument
}

func NewStaticQuizLoader(quizzes map[string]domain.QuizDocument) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.QuizDocument, error) {
	if doc, ok := l.quizzes[quizID]; ok {
		return doc, nil
	}
	return domain.QuizDocument{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

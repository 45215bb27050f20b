package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/quiz"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz documents from a backing store (files, Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizDocument, error)
}

// QuizRepository caches quiz documents in Redis and falls back to a loader on cache miss.
// Documents are stored as: SET quiz:{quizID}:document {json}
// Each instance keeps the graph built from the last document it saw, so a hit only costs
// a GET while the cached JSON is unchanged.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu     sync.Mutex
	graphs map[string]builtGraph
}

type builtGraph struct {
	raw   string
	graph *quiz.Graph
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		graphs: make(map[string]builtGraph),
	}
}

func (r *QuizRepository) GetGraph(ctx context.Context, quizID string) (*quiz.Graph, error) {
	key := r.documentKey(quizID)

	if raw, err := r.client.Get(ctx, key).Result(); err == nil {
		return r.build(quizID, raw)
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Result(); err == nil {
			return r.build(quizID, raw)
		}

		doc, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode quiz %s: %w", quizID, err)
		}
		graph, err := r.build(quizID, string(data))
		if err != nil {
			return nil, err
		}
		// only documents that passed the integrity checks are cached
		_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Graph), nil
}

func (r *QuizRepository) build(quizID, raw string) (*quiz.Graph, error) {
	r.mu.Lock()
	if b, ok := r.graphs[quizID]; ok && b.raw == raw {
		r.mu.Unlock()
		return b.graph, nil
	}
	r.mu.Unlock()

	var doc domain.QuizDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode cached quiz %s: %w", quizID, err)
	}
	graph, err := quiz.NewGraph(quizID, doc)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.graphs[quizID] = builtGraph{raw: raw, graph: graph}
	r.mu.Unlock()
	return graph, nil
}

// Invalidate drops the cached document so the next read goes to the loader.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.documentKey(quizID)).Err()
}

func (r *QuizRepository) documentKey(quizID string) string {
	return "quiz:" + quizID + ":document"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

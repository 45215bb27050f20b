package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"decor-funnel/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultStore keeps each visitor's latest quiz result as JSON under visitor:{id}:quiz-result.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) SaveResult(ctx context.Context, visitorID string, result domain.StoredResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode quiz result: %w", err)
	}
	if err := s.client.Set(ctx, s.key(visitorID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (s *ResultStore) LoadResult(ctx context.Context, visitorID string) (domain.StoredResult, error) {
	raw, err := s.client.Get(ctx, s.key(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.StoredResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.StoredResult{}, fmt.Errorf("load quiz result: %w", err)
	}
	var res domain.StoredResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.StoredResult{}, fmt.Errorf("decode quiz result: %w", err)
	}
	return res, nil
}

func (s *ResultStore) key(visitorID string) string {
	return "visitor:" + visitorID + ":quiz-result"
}

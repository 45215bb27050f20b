package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"decor-funnel/internal/ratelimit"
	"github.com/redis/go-redis/v9"
)

// StatsStore counts limiter decisions in Redis hashes:
//
//	{prefix}:total                  allowed / denied, never expires
//	{prefix}:action:{action}        allowed / denied per action
//	{prefix}:minute:{yyyymmddhhmm}  allowed / denied per minute, expires after ttl
type StatsStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type StatsOption func(*StatsStore)

func WithStatsPrefix(prefix string) StatsOption {
	return func(s *StatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) StatsOption {
	return func(s *StatsStore) { s.ttl = d }
}

func NewStatsStore(client *redis.Client, opts ...StatsOption) *StatsStore {
	s := &StatsStore{
		client: client,
		prefix: "ratelimit:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StatsStore) Record(ctx context.Context, ev ratelimit.Event) error {
	if s == nil || s.client == nil {
		return nil
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)
	if ev.Action != "" {
		pipe.HIncrBy(ctx, s.prefix+":action:"+ev.Action, field, 1)
	}
	bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

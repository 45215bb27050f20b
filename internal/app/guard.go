package app

import (
	"context"
	"log/slog"
	"time"

	"decor-funnel/internal/domain"
	"decor-funnel/internal/ratelimit"
)

// Guard applies attempt budgets to visitor actions and records each decision.
type Guard struct {
	limiter *ratelimit.Limiter
	stats   ratelimit.Recorder
	now     func() time.Time
}

func NewGuard(limiter *ratelimit.Limiter, stats ratelimit.Recorder) *Guard {
	if stats == nil {
		stats = ratelimit.NopRecorder{}
	}
	return &Guard{limiter: limiter, stats: stats, now: time.Now}
}

// Allow records an attempt of preset by scope. A refused attempt yields
// *domain.RateLimitedError with a readable countdown.
func (g *Guard) Allow(ctx context.Context, p ratelimit.Preset, scope string) error {
	st := g.limiter.CheckPreset(p, scope)
	if err := g.stats.Record(ctx, ratelimit.Event{Action: p.Key, Allowed: st.Allowed, At: g.now()}); err != nil {
		slog.Warn("record rate limit decision", "action", p.Key, "err", err)
	}
	if st.Allowed {
		return nil
	}
	return &domain.RateLimitedError{
		Action:     p.Key,
		RetryAfter: st.ResetIn,
		Countdown:  ratelimit.FormatResetTime(st.ResetIn),
	}
}

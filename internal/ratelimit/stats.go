package ratelimit

import (
	"context"
	"time"
)

// Event is one limiter decision, recorded for dashboards.
type Event struct {
	Action  string
	Allowed bool
	At      time.Time
}

// Recorder persists limiter decisions. Implementations are best-effort; callers ignore
// failures beyond logging them.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) error { return nil }

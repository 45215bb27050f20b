package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCheckWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		if !l.Check("x", 3, time.Second) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		clock.Advance(100 * time.Millisecond)
	}
	if l.Check("x", 3, time.Second) {
		t.Fatalf("4th attempt inside the window should be refused")
	}
	if got := l.RemainingAttempts("x", 3); got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}

	clock.Advance(time.Second)
	if !l.Check("x", 3, time.Second) {
		t.Fatalf("attempt after the window should be allowed")
	}
	if got := l.RemainingAttempts("x", 3); got != 2 {
		t.Fatalf("expected count reset to 1 (2 remaining), got %d remaining", got)
	}
}

func TestRefusedAttemptDoesNotExtendWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now))

	l.Check("k", 1, time.Minute)
	clock.Advance(40 * time.Second)
	if l.Check("k", 1, time.Minute) {
		t.Fatalf("expected refusal")
	}
	if got := l.TimeUntilReset("k", time.Minute); got != 20*time.Second {
		t.Fatalf("expected 20s until reset, got %v", got)
	}
	clock.Advance(21 * time.Second)
	if !l.Check("k", 1, time.Minute) {
		t.Fatalf("expected a fresh window")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Check("a", 1, time.Minute) || !l.Check("b", 1, time.Minute) {
		t.Fatalf("first attempt per key must pass")
	}
	if l.Check("a", 1, time.Minute) {
		t.Fatalf("a should be exhausted")
	}
	l.Reset("a")
	if !l.Check("a", 1, time.Minute) {
		t.Fatalf("reset should forget a")
	}
	l.ClearAll()
	if l.Len() != 0 {
		t.Fatalf("expected empty limiter, got %d", l.Len())
	}
}

func TestUnknownKeyDefaults(t *testing.T) {
	l := New()
	if got := l.RemainingAttempts("nobody", 5); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := l.TimeUntilReset("nobody", time.Minute); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestTimeUntilResetNeverNegative(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now))
	l.Check("k", 3, time.Second)
	clock.Advance(time.Hour)
	if got := l.TimeUntilReset("k", time.Second); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestSweepDropsIdleEntries(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithRetention(5*time.Minute))

	l.Check("old", 3, time.Second)
	clock.Advance(4 * time.Minute)
	l.Check("fresh", 3, time.Second)
	clock.Advance(2 * time.Minute)

	if removed := l.Sweep(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("expected fresh to survive, len %d", l.Len())
	}
}

func TestStartStop(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithSweepInterval(5*time.Millisecond), WithRetention(time.Minute))
	l.Check("k", 3, time.Second)
	clock.Advance(2 * time.Minute)

	l.Start(context.Background())
	l.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for l.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	l.Stop()
	l.Stop()
}

func TestCheckPreset(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now))

	for i := 0; i < ContactForm.MaxAttempts; i++ {
		if st := l.CheckPreset(ContactForm, "visitor-1"); !st.Allowed {
			t.Fatalf("attempt %d refused", i+1)
		}
	}
	st := l.CheckPreset(ContactForm, "visitor-1")
	if st.Allowed || st.Remaining != 0 || st.ResetIn != 5*time.Minute {
		t.Fatalf("unexpected status %+v", st)
	}
	if st := l.CheckPreset(ContactForm, "visitor-2"); !st.Allowed || st.Remaining != 2 {
		t.Fatalf("other visitor should be independent, got %+v", st)
	}
}

func TestFormatResetTime(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{41*time.Second + 10*time.Millisecond, "42s"},
		{4*time.Minute + 10*time.Second, "4m 10s"},
		{5 * time.Minute, "5m 0s"},
		{0, "0s"},
	}
	for _, tc := range cases {
		if got := FormatResetTime(tc.in); got != tc.want {
			t.Fatalf("FormatResetTime(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestThrottle(t *testing.T) {
	clock := newFakeClock()
	th := NewThrottle(1, 2, WithIdleTTL(time.Minute))
	th.now = clock.Now

	if !th.Allow("1.2.3.4") || !th.Allow("1.2.3.4") {
		t.Fatalf("burst should pass")
	}
	if th.Allow("1.2.3.4") {
		t.Fatalf("burst exhausted")
	}
	clock.Advance(time.Second)
	if !th.Allow("1.2.3.4") {
		t.Fatalf("token should refill")
	}

	clock.Advance(2 * time.Minute)
	th.Cleanup()
	th.mu.Lock()
	n := len(th.entries)
	th.mu.Unlock()
	if n != 0 {
		t.Fatalf("idle key should be dropped, %d left", n)
	}
}

package ratelimit

import (
	"fmt"
	"time"
)

// Preset names one guarded action and its attempt budget.
type Preset struct {
	Key         string
	MaxAttempts int
	Window      time.Duration
}

var (
	ContactForm    = Preset{Key: "contact-form", MaxAttempts: 3, Window: 5 * time.Minute}
	Newsletter     = Preset{Key: "newsletter", MaxAttempts: 2, Window: 10 * time.Minute}
	QuizSubmission = Preset{Key: "quiz-submission", MaxAttempts: 10, Window: time.Minute}
)

// Presets groups the guarded actions of the site.
type Presets struct {
	Contact    Preset
	Newsletter Preset
	Quiz       Preset
}

func DefaultPresets() Presets {
	return Presets{Contact: ContactForm, Newsletter: Newsletter, Quiz: QuizSubmission}
}

// Status is the outcome of a preset check.
type Status struct {
	Allowed   bool          `json:"allowed"`
	Remaining int           `json:"remaining"`
	ResetIn   time.Duration `json:"resetIn"`
}

// CheckPreset records an attempt of preset scoped to one visitor (or globally when scope is empty).
func (l *Limiter) CheckPreset(p Preset, scope string) Status {
	key := p.Key
	if scope != "" {
		key = p.Key + ":" + scope
	}
	allowed := l.Check(key, p.MaxAttempts, p.Window)
	return Status{
		Allowed:   allowed,
		Remaining: l.RemainingAttempts(key, p.MaxAttempts),
		ResetIn:   l.TimeUntilReset(key, p.Window),
	}
}

// FormatResetTime renders a countdown as "4m 10s" or "42s".
func FormatResetTime(d time.Duration) string {
	ms := d.Milliseconds()
	seconds := (ms + 999) / 1000
	minutes := seconds / 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionNotFound is returned when a quiz session does not exist or has expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz document could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidSelection is returned when navigation names a question or option that does not
	// belong to the visitor's current position.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoRecommendation is returned when results are requested before any weighted answer.
	ErrNoRecommendation = errors.New("no style has been scored yet")
	// ErrQuizIncomplete is returned when results are requested before the terminal answer.
	ErrQuizIncomplete = errors.New("quiz is not complete")
	// ErrResultNotFound indicates the visitor has no stored quiz result.
	ErrResultNotFound = errors.New("quiz result not found")
	// ErrCatalogItemNotFound indicates an unknown catalog item id.
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	// ErrPostNotFound indicates an unknown blog slug.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrTierNotFound indicates an unknown pricing tier.
	ErrTierNotFound = errors.New("pricing tier not found")
)

// DataIntegrityError reports a malformed quiz document. It is raised while loading,
// never during traversal.
type DataIntegrityError struct {
	QuestionID string
	OptionID   string
	Reason     string
}

func (e *DataIntegrityError) Error() string {
	switch {
	case e.QuestionID != "" && e.OptionID != "":
		return fmt.Sprintf("quiz data: question %q option %q: %s", e.QuestionID, e.OptionID, e.Reason)
	case e.QuestionID != "":
		return fmt.Sprintf("quiz data: question %q: %s", e.QuestionID, e.Reason)
	default:
		return "quiz data: " + e.Reason
	}
}

// ValidationError carries the first failing field of a visitor-supplied form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// RateLimitedError is returned when an action exceeded its attempt budget.
type RateLimitedError struct {
	Action     string
	RetryAfter time.Duration
	Countdown  string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, please try again in %s", e.Countdown)
}

// DeliveryError wraps a failed hand-off to the delivery provider.
type DeliveryError struct {
	Channel string
	Contact string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// VisitorMessage is the generic text shown to visitors with a manual-contact fallback.
func (e *DeliveryError) VisitorMessage() string {
	if e.Contact == "" {
		return "Failed to send your request. Please try again later."
	}
	return "Failed to send your request. Please try again or contact us directly at " + e.Contact
}

package delivery

import (
	"context"
	"log/slog"

	"decor-funnel/internal/domain"
)

// Sender is anything that can deliver a prepared message.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// Fanout delivers to a primary sender whose outcome is reported, then to mirrors whose
// failures are only logged.
type Fanout struct {
	Primary Sender
	Mirrors []Sender
}

func (f Fanout) Send(ctx context.Context, msg domain.Message) error {
	if err := f.Primary.Send(ctx, msg); err != nil {
		return err
	}
	for _, m := range f.Mirrors {
		if err := m.Send(ctx, msg); err != nil {
			slog.Warn("mirror delivery failed", "kind", msg.Kind, "err", err)
		}
	}
	return nil
}

// LogSender records messages in the log instead of sending them. It is the primary
// sender when no email provider is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg domain.Message) error {
	slog.Info("message prepared", "kind", msg.Kind, "to", msg.To, "params", len(msg.Params))
	return nil
}

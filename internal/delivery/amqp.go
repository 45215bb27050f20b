package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"decor-funnel/internal/domain"
	"github.com/rabbitmq/amqp091-go"
)

const leadExchange = "leads.events"

// QueuePublisher mirrors every delivered message onto a topic exchange with routing key
// "lead.<kind>". An empty URI yields a disabled publisher that only logs.
type QueuePublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
}

func NewQueuePublisher(rabbitURI string) (*QueuePublisher, error) {
	if rabbitURI == "" {
		slog.Warn("rabbitmq uri is empty, lead events are disabled")
		return &QueuePublisher{exchange: leadExchange}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		leadExchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	slog.Info("lead publisher initialized", "exchange", leadExchange)
	return &QueuePublisher{conn: conn, channel: channel, exchange: leadExchange, enabled: true}, nil
}

// RoutingKey returns the routing key for a message kind.
func RoutingKey(kind string) string {
	return "lead." + kind
}

func (p *QueuePublisher) Send(ctx context.Context, msg domain.Message) error {
	if !p.enabled {
		slog.Debug("lead events disabled, skipping", "kind", msg.Kind)
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(msg.Kind),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers:      amqp091.Table{"kind": msg.Kind},
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead event: %w", err)
	}
	return nil
}

func (p *QueuePublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			slog.Warn("close rabbitmq channel", "err", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

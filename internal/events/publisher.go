// Package events publishes submission outcomes to an AMQP exchange for
// ops dashboards. Publishing is fire-and-forget from the pipeline's
// point of view; the composer works fine with no broker configured.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// Outcome is the published event body.
type Outcome struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Channel string    `json:"channel"`
	To      []string  `json:"to"`
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	PublishOutcome(ctx context.Context, o Outcome) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	log      *slog.Logger
}

// New connects to the broker and declares a durable topic exchange.
func New(url, exchange string, logger *slog.Logger) (Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	return &rmqPublisher{conn: conn, exchange: exchange, log: logger}, nil
}

func (p *rmqPublisher) PublishOutcome(ctx context.Context, o Outcome) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	body, err := json.Marshal(o)
	if err != nil {
		return err
	}

	key := "composer.submission." + o.Status
	err = ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp091.Publishing{
		ContentType: "application/json",
		MessageId:   o.ID,
		Timestamp:   o.At,
		Body:        body,
	})
	if err != nil {
		p.log.Error("publish outcome failed", "key", key, "err", err)
		return err
	}
	return nil
}

func (p *rmqPublisher) Close() error { return p.conn.Close() }

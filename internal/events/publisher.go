package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/config"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingBasketItemChanged = "basket.item.changed"
	RoutingOrderPlaced       = "order.placed"
	RoutingOrderStateChanged = "order.state.changed"
)

var ErrPublisherClosed = errors.New("event publisher is closed")

// Envelope wraps every published payload.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Ready() error
	Close() error
}

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type rabbitPublisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// NewPublisher connects to RabbitMQ and declares a durable topic exchange.
// Without a URL it returns a publisher that discards events.
func NewPublisher(cfg config.RabbitMQ) (Publisher, error) {
	if cfg.URL == "" {
		slog.Warn("RabbitMQ URL not configured, domain events will be discarded")
		return NoopPublisher{}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	slog.Info("✅ Successfully connected to RabbitMQ", slog.String("exchange", cfg.Exchange))

	return &rabbitPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// NewChannelPublisher publishes on an already declared exchange.
func NewChannelPublisher(ch Channel, exchange string) Publisher {
	return &rabbitPublisher{ch: ch, exchange: exchange}
}

func (p *rabbitPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	envelope := Envelope{
		ID:         uuid.New(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.ID.String(),
		Timestamp:    envelope.OccurredAt,
		Type:         routingKey,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", routingKey, err)
	}

	return nil
}

func (p *rabbitPublisher) Ready() error {
	if p.ch.IsClosed() {
		return ErrPublisherClosed
	}

	if p.conn != nil && p.conn.IsClosed() {
		return ErrPublisherClosed
	}

	return nil
}

func (p *rabbitPublisher) Close() error {
	var errs []error

	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Ready() error                               { return nil }
func (NoopPublisher) Close() error                               { return nil }

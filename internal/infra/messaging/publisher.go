// Package messaging publishes booking lifecycle events to RabbitMQ.
// Publishing is best effort: callers log failures and carry on, since the
// booking itself is already committed.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

// AMQPPublisher keeps one connection and channel open and redials lazily when
// the broker drops them. Events are routed by type, e.g. "booking.created".
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(cfg config.BrokerConfig, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:      cfg.URL,
		exchange: cfg.Exchange,
		logger:   logger,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event shared.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "marshal booking event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.exchange,
		string(event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.BookingID.String() + ":" + string(event.Type),
			Timestamp:    event.OccurredAt.UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.resetLocked()
		return errs.Wrap(err, "publish booking event")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func (p *AMQPPublisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return nil, errs.Wrap(err, "dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open broker channel")
	}
	if err := ch.ExchangeDeclare(
		p.exchange,
		exchangeKind,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "declare exchange")
	}

	p.logger.Info("broker connected", "exchange", p.exchange)
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// LogPublisher records events in the application log. It stands in for the
// broker when BROKER_ENABLED is false.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event shared.BookingEvent) error {
	p.logger.DebugContext(ctx, "booking event",
		"type", string(event.Type),
		"booking_id", event.BookingID,
		"property_id", event.PropertyID,
		"status", event.Status)
	return nil
}

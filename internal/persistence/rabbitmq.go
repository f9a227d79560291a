package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

// RabbitMQ publishes JSON messages to a durable fanout exchange.
type RabbitMQ struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQ dials the broker and declares the exchange. A nil handle with a
// nil error means the relay is disabled.
func NewRabbitMQ(cfg config.RabbitMQConfig, logger *zap.Logger) (*RabbitMQ, error) {
	if cfg.URL == "" {
		logger.Info("RABBITMQ_URL not provided; complaint events stay in-process")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}

	logger.Info("connected to rabbitmq", zap.String("exchange", cfg.Exchange))
	return &RabbitMQ{conn: conn, channel: ch, exchange: cfg.Exchange}, nil
}

// Publish sends body to the exchange under routingKey.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	if r == nil {
		return ErrNotConfigured
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel == nil || r.channel.IsClosed() {
		return errors.New("rabbitmq: channel not available")
	}
	return r.channel.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Ping reports whether the broker connection is still open.
func (r *RabbitMQ) Ping(context.Context) error {
	if r == nil {
		return ErrNotConfigured
	}
	if r.conn == nil || r.conn.IsClosed() {
		return errors.New("rabbitmq: connection closed")
	}
	return nil
}

// Close shuts the channel and connection.
func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

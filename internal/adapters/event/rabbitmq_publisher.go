package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes vote events to a durable queue on the default exchange.
type RabbitMQPublisher struct {
	conn  *amqp.Connection
	queue string

	// amqp channels are not safe for concurrent publishing.
	mu      sync.Mutex
	channel amqpChannel
}

// DialRabbitMQ connects with up to attempts tries, waiting delay between them.
func DialRabbitMQ(url string, attempts int, delay time.Duration) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < attempts; i++ {
		if conn, err = amqp.Dial(url); err == nil {
			slog.Info("connected to rabbitmq")
			return conn, nil
		}
		slog.Warn("failed to connect to rabbitmq, retrying", "attempt", i+1, "delay", delay, "error", err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("could not connect to rabbitmq after %d attempts: %w", attempts, err)
}

func NewRabbitMQPublisher(conn *amqp.Connection, queue string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &RabbitMQPublisher{conn: conn, queue: queue, channel: ch}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.VoteCast) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal vote event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CastAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish vote event: %w", err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close rabbitmq channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}
	return nil
}

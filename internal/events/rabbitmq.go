package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
)

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends events as persistent JSON messages to a durable queue
// on the default exchange. One channel is shared and guarded by a mutex since
// amqp channels are not safe for concurrent publishing.
type RabbitPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    amqpChannel
	queue string
}

// NewRabbitPublisher dials the broker and declares the queue.
func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	logger.ExternalServiceCall("rabbitmq", "dial", "queue", queue)
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.ExternalServiceResult("rabbitmq", "dial", err)
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, queue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	logger.ExternalServiceResult("rabbitmq", "dial", nil, "queue", queue)
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, queue string) (*RabbitPublisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &RabbitPublisher{ch: ch, queue: queue}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	logger.ExternalServiceCall("rabbitmq", "publish", "type", event.Type, "entity_id", event.EntityID)
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
	logger.ExternalServiceResult("rabbitmq", "publish", err, "type", event.Type)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

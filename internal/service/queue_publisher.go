// Package service publishes domain events to RabbitMQ. Failures are logged
// and returned so callers can ignore them without interrupting the request
// flow.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/config"
	"github.com/epictutors/epic-tutors-server/internal/queue"
)

// Publisher emits audit events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

// NopPublisher drops every event. It is used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.AuditEvent) error { return nil }

// AuditPublisher publishes audit events as persistent JSON messages on a
// durable queue. The broker connection is opened lazily and re-dialled
// after it drops.
type AuditPublisher struct {
	cfg    config.QueueConfig
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAuditPublisher(cfg config.QueueConfig, logger *zap.Logger) *AuditPublisher {
	return &AuditPublisher{cfg: cfg, logger: logger, now: time.Now}
}

// NewPublisher returns an AuditPublisher when the queue is enabled and a
// NopPublisher otherwise.
func NewPublisher(cfg config.QueueConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return NewAuditPublisher(cfg, logger)
}

// Publish sends ev to the audit queue. A zero OccurredAt is stamped with
// the current time.
func (p *AuditPublisher) Publish(ctx context.Context, ev queue.AuditEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	ch, err := p.channel()
	if err != nil {
		p.logger.Warn("rabbitmq: channel unavailable", zap.String("event", ev.Type), zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		p.logger.Warn("rabbitmq: publish failed", zap.String("event", ev.Type), zap.Error(err))
		return err
	}
	return nil
}

func (p *AuditPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	return ch, nil
}

// Close releases the broker connection.
func (p *AuditPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// Package service holds outbound integrations used by the handlers.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/config"
	"github.com/iliyamo/labquiz/internal/queue"
)

// GrantPublisher sends grant audit events to RabbitMQ.  Failures are logged
// and returned.  With no broker URL configured, Publish does nothing.
type GrantPublisher struct {
	cfg    config.QueueConfig
	logger *zap.Logger
}

func NewGrantPublisher(cfg config.QueueConfig, logger *zap.Logger) *GrantPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrantPublisher{cfg: cfg, logger: logger}
}

// Publish sends ev as a persistent JSON message on the audit queue.
func (p *GrantPublisher) Publish(ctx context.Context, ev queue.GrantEvent) error {
	if p == nil || p.cfg.URL == "" {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	err := p.publish(ctx, ev)
	if err != nil {
		p.logger.Warn("publishing grant event failed",
			zap.String("action", ev.Action),
			zap.Uint64("permission_id", ev.PermissionID),
			zap.Error(err))
	}
	return err
}

func (p *GrantPublisher) publish(ctx context.Context, ev queue.GrantEvent) error {
	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{Dial: amqp.DefaultDial(3 * time.Second)})
	if err != nil {
		return errors.Annotate(err, "dialing broker")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Annotate(err, "opening channel")
	}
	defer func() { _ = ch.Close() }()

	if err := queue.DeclareQueue(ch, p.cfg.Queue); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Annotate(err, "encoding grant event")
	}
	err = ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At,
		Body:         body,
	})
	return errors.Annotate(err, "publishing")
}

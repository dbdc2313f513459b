package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeclareQueue declares the durable audit queue on ch.
func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return errors.Annotatef(err, "declaring queue %q", name)
}

// StartAuditConsumer connects to the broker at url, declares the queue and
// logs every grant event it receives.  It reconnects with exponential
// backoff and returns only when ctx is cancelled.  Messages that cannot be
// decoded are rejected without requeue so they cannot loop.
func StartAuditConsumer(ctx context.Context, url, queueName string, logger *zap.Logger) error {
	logger = logger.With(zap.String("queue", queueName))
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err == nil {
			backoff = time.Second
			err = consumeLoop(ctx, conn, queueName, logger)
			_ = conn.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("audit consumer disconnected", zap.Error(err), zap.Duration("retry_in", backoff))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Annotate(err, "opening channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("setting QoS failed", zap.Error(err))
	}
	if err := DeclareQueue(ch, queueName); err != nil {
		return err
	}
	msgs, err := ch.ConsumeWithContext(ctx, queueName, "", false, false, false, false, nil)
	if err != nil {
		return errors.Annotate(err, "consuming")
	}

	logger.Info("audit consumer started")
	for d := range msgs {
		if err := handleMessage(d.Body, logger); err != nil {
			logger.Warn("rejecting audit message", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, logger *zap.Logger) error {
	var ev GrantEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Annotate(err, "decoding grant event")
	}
	if !ev.valid() {
		return errors.NotValidf("grant event %q for permission %d", ev.Action, ev.PermissionID)
	}
	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.Uint64("permission_id", ev.PermissionID),
		zap.Uint64("user_id", ev.UserID),
		zap.Uint64("access_id", ev.AccessID),
		zap.Uint64("actor_id", ev.ActorID),
		zap.Time("at", ev.At),
	}
	if ev.PermissionLevel != nil {
		fields = append(fields, zap.String("permission_level", *ev.PermissionLevel))
	}
	logger.Info("grant changed", fields...)
	return nil
}

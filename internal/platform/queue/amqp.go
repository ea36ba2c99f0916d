package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"sampark/contexts/voter-outreach/campaign-service/ports"
)

const dispatchQueueName = "campaign.dispatch"

// AMQP publishes and consumes dispatch jobs over RabbitMQ. The queue is
// durable; a handler error nacks with requeue so another worker retries the
// job, a nil return acks it away.
type AMQP struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

func ConnectAMQP(url string, logger *slog.Logger) (*AMQP, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err := channel.QueueDeclare(dispatchQueueName, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", dispatchQueueName, err)
	}
	if err := channel.Qos(1, 0, false); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set amqp qos: %w", err)
	}
	return &AMQP{conn: conn, channel: channel, logger: logger}, nil
}

func (q *AMQP) PublishDispatch(_ context.Context, job ports.DispatchJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode dispatch job: %w", err)
	}
	err = q.channel.Publish("", dispatchQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish dispatch job: %w", err)
	}
	q.logger.Info("dispatch job published",
		"event", "dispatch_job_published",
		"module", "internal/platform/queue",
		"layer", "platform",
		"campaign_id", job.CampaignID,
	)
	return nil
}

func (q *AMQP) Consume(ctx context.Context, handler func(context.Context, ports.DispatchJob) error) error {
	deliveries, err := q.channel.Consume(dispatchQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", dispatchQueueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, open := <-deliveries:
			if !open {
				return nil
			}
			var job ports.DispatchJob
			if err := json.Unmarshal(delivery.Body, &job); err != nil {
				q.logger.Error("dropping malformed dispatch job",
					"event", "dispatch_job_malformed",
					"module", "internal/platform/queue",
					"layer", "platform",
					"error", err.Error(),
				)
				_ = delivery.Nack(false, false)
				continue
			}
			if err := handler(ctx, job); err != nil {
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (q *AMQP) Close() error {
	if q == nil {
		return nil
	}
	if q.channel != nil {
		_ = q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

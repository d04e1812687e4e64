package messaging

import (
	"context"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

// Publish sends the event to the queue as a persistent JSON message. The
// outbox ID doubles as the message ID so consumers can deduplicate.
func (rmq *RabbitMQBroker) Publish(ctx context.Context, evt ports.ClinicEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // default exchange
			rmq.queueName, // routing key == queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.ID,
				Type:         evt.Type,
				Timestamp:    evt.OccurredAt,
				Body:         body,
			},
		)
	})
	return err
}

package messaging

import (
	"context"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// publishChannel is the part of *amqp.Channel the broker needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.EventPublisher using RabbitMQ.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        publishChannel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

func NewRabbitMQBroker(amqpURL, queueName string, logger *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq queue declared", zap.String("queue", queueName))

	b := newBroker(ch, queueName, logger)
	b.conn = conn
	return b, nil
}

func newBroker(ch publishChannel, queueName string, logger *zap.Logger) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.BreakerRabbitPublisher, logger),
		logger:    logger,
	}
}

// IsOpen reports whether the broker connection is still usable.
func (rmq *RabbitMQBroker) IsOpen() bool {
	return rmq.conn != nil && !rmq.conn.IsClosed() && rmq.cb.State() != gobreaker.StateOpen
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}

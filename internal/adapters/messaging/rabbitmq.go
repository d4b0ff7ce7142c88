package messaging

import (
	"github.com/amparo-center/attendance-service/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// RabbitMQBroker implements ports.EventPublisher using RabbitMQ. One durable
// queue per event kind.
type RabbitMQBroker struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	attendanceQueue string
	dayQueue        string
	cb              *gobreaker.CircuitBreaker
}

func NewRabbitMQBroker(amqpURL, attendanceQueue, dayQueue string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queues (idempotent)
	for _, q := range []string{attendanceQueue, dayQueue} {
		_, err = ch.QueueDeclare(
			q,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	cb := config.NewCircuitBreaker("RabbitMQ-Publisher")

	return &RabbitMQBroker{
		conn:            conn,
		ch:              ch,
		attendanceQueue: attendanceQueue,
		dayQueue:        dayQueue,
		cb:              cb,
	}, nil
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

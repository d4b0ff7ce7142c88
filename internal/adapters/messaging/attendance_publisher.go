package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishAttendanceCompleted(ctx context.Context, evt ports.AttendanceCompletedEvent) error {
	return rmq.publish(ctx, rmq.attendanceQueue, evt)
}

func (rmq *RabbitMQBroker) PublishDaySealed(ctx context.Context, evt ports.DaySealedEvent) error {
	return rmq.publish(ctx, rmq.dayQueue, evt)
}

func (rmq *RabbitMQBroker) publish(ctx context.Context, queue string, evt any) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Circuit breaker protects the publish path
	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",    // exchange (default)
			queue, // routing key == queue name
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}

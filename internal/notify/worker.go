package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const consumerTag = "interskill-notify"

// Mailer delivers the staff alert for one new lead.
type Mailer interface {
	SendLeadAlert(ev LeadEvent) error
}

// ConsumeChannel is the part of *amqp.Channel the worker needs.
type ConsumeChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Worker consumes lead.created events and mails them. Acks are manual: a
// malformed body or a failed send is nacked without requeue and goes to
// the dead-letter queue.
type Worker struct {
	ch     ConsumeChannel
	mailer Mailer
	logger *zap.Logger
}

func NewWorker(ch ConsumeChannel, mailer Mailer, logger *zap.Logger) *Worker {
	return &Worker{ch: ch, mailer: mailer, logger: logger}
}

// Run blocks until ctx is done or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.ch.Consume(QueueName, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	w.logger.Info("notification worker started", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(d)
		}
	}
}

func (w *Worker) process(d amqp.Delivery) {
	var ev LeadEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil || ev.ID == "" {
		w.logger.Warn("rejecting malformed lead event", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.mailer.SendLeadAlert(ev); err != nil {
		w.logger.Error("lead alert failed",
			zap.String("lead_id", ev.ID),
			zap.Error(err),
		)
		_ = d.Nack(false, false)
		return
	}

	w.logger.Info("lead alert sent", zap.String("lead_id", ev.ID))
	_ = d.Ack(false)
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadEvent is the lead.created message body.
type LeadEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Interest  string    `json:"interest,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func newLeadEvent(l *models.Lead) LeadEvent {
	return LeadEvent{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Interest:  l.Interest,
		Source:    l.Source,
		CreatedAt: l.CreatedAt,
	}
}

// PublishChannel is the part of *amqp.Channel the publisher needs.
type PublishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher emits lead.created events. It implements service.LeadNotifier.
type Publisher struct {
	ch PublishChannel
}

func NewPublisher(ch PublishChannel) *Publisher {
	return &Publisher{ch: ch}
}

var _ service.LeadNotifier = (*Publisher)(nil)

func (p *Publisher) LeadCreated(ctx context.Context, lead *models.Lead) error {
	body, err := json.Marshal(newLeadEvent(lead))
	if err != nil {
		return fmt.Errorf("encode lead event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    lead.ID,
			Timestamp:    lead.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead event: %w", err)
	}
	return nil
}

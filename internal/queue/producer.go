package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publishes core.ImportCompleted events. It implements
// core.EventPublisher.
type Producer struct {
	ch   publisher
	topo Topology
}

func NewProducer(r *RabbitMQ) *Producer {
	return &Producer{ch: r.Ch, topo: r.Topology}
}

func (p *Producer) PublishImportCompleted(ctx context.Context, event core.ImportCompleted) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode import event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.topo.Exchange,
		p.topo.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ImportID,
			Timestamp:    event.OccurredAt,
			Type:         "lead.import.completed",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish import event: %w", err)
	}
	return nil
}

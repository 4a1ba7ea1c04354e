// Package queue publishes import events to RabbitMQ.
package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "ex.leads"
	DefaultQueue      = "q.lead-imports"
	DefaultRoutingKey = "k.import-completed"
	DLXName           = "ex.dlx"
)

// Topology names the exchange and queue that carry ImportCompleted events.
type Topology struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

func (t Topology) withDefaults() Topology {
	if t.Exchange == "" {
		t.Exchange = DefaultExchange
	}
	if t.Queue == "" {
		t.Queue = DefaultQueue
	}
	if t.RoutingKey == "" {
		t.RoutingKey = DefaultRoutingKey
	}
	return t
}

// DLQName is the dead-letter queue paired with Queue.
func (t Topology) DLQName() string {
	return t.Queue + ".dlq"
}

type RabbitMQ struct {
	Conn     *amqp.Connection
	Ch       *amqp.Channel
	Topology Topology
}

// NewRabbitMQ dials url, opens a channel and declares the topology.
func NewRabbitMQ(url string, topo Topology) (*RabbitMQ, error) {
	topo = topo.withDefaults()

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(ch, topo); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch, Topology: topo}, nil
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	if err := r.Ch.Close(); err != nil {
		r.Conn.Close()
		return err
	}
	return r.Conn.Close()
}

type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// setupTopology declares the dead-letter exchange and queue first so the
// main queue can point at them.
func setupTopology(ch declarer, topo Topology) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(topo.DLQName(), true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(topo.DLQName(), topo.RoutingKey, DLXName, false, nil); err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": topo.RoutingKey,
	}

	if err := ch.ExchangeDeclare(topo.Exchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(topo.Queue, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(topo.Queue, topo.RoutingKey, topo.Exchange, false, nil)
}

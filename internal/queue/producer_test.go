package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error

	calls []string
	args  map[string]amqp.Table
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	f.calls = append(f.calls, "exchange "+name)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	f.calls = append(f.calls, "queue "+name)
	if f.args == nil {
		f.args = make(map[string]amqp.Table)
	}
	f.args[name] = args
	return amqp.Queue{Name: name}, f.err
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.calls = append(f.calls, "bind "+name+" "+key+" "+exchange)
	return nil
}

func TestProducer_PublishImportCompleted(t *testing.T) {
	ch := &fakeChannel{}
	p := &Producer{ch: ch, topo: Topology{}.withDefaults()}

	event := core.ImportCompleted{
		ImportID:   "b7a6",
		SearchID:   7,
		FileName:   "leads.xlsx",
		Format:     core.FormatXLSX,
		Imported:   10,
		Errors:     2,
		Duplicates: 1,
		OccurredAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishImportCompleted(context.Background(), event))

	assert.Equal(t, DefaultExchange, ch.exchange)
	assert.Equal(t, DefaultRoutingKey, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "b7a6", ch.msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "b7a6", body["importId"])
	assert.Equal(t, float64(7), body["searchId"])
	assert.Equal(t, float64(10), body["imported"])
	assert.Equal(t, "xlsx", body["format"])
}

func TestProducer_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := &Producer{ch: ch, topo: Topology{}.withDefaults()}

	err := p.PublishImportCompleted(context.Background(), core.ImportCompleted{ImportID: "x"})
	assert.ErrorContains(t, err, "publish import event")
}

func TestSetupTopology(t *testing.T) {
	ch := &fakeChannel{}
	topo := Topology{Queue: "q.custom"}.withDefaults()

	require.NoError(t, setupTopology(ch, topo))

	assert.Equal(t, []string{
		"exchange ex.dlx",
		"queue q.custom.dlq",
		"bind q.custom.dlq k.import-completed ex.dlx",
		"exchange ex.leads",
		"queue q.custom",
		"bind q.custom k.import-completed ex.leads",
	}, ch.calls)
	assert.Equal(t, DLXName, ch.args["q.custom"]["x-dead-letter-exchange"])
	assert.Nil(t, ch.args["q.custom.dlq"])
}

package notify

import (
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dastkar/rugshop/internal/kafka"
	"github.com/dastkar/rugshop/internal/orders"
)

// KafkaNotifier publishes order events through the async producers. Both
// calls are fire-and-forget: the producer buffers and logs failures, nothing
// propagates back to the checkout path.
type KafkaNotifier struct {
	Created   *kafkax.Producer // order.created
	Delivered *kafkax.Producer // order.delivered
	Service   string
}

func (n *KafkaNotifier) OrderCreated(o *orders.Order) {
	n.publish(n.Created, orders.EventOrderCreated,
		kafkax.MustMarshal(orders.OrderCreatedPayload{Order: *o}), o.ID)
}

func (n *KafkaNotifier) OrderDelivered(o *orders.Order) {
	n.publish(n.Delivered, orders.EventOrderDelivered,
		kafkax.MustMarshal(orders.OrderDeliveredPayload{Order: *o}), o.ID)
}

func (n *KafkaNotifier) publish(p *kafkax.Producer, eventType string, payload []byte, orderID string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		CorrelationID: orderID,
		Payload:       payload,
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// NopNotifier drops every notification. Used where no broker is wired.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(*orders.Order)   {}
func (NopNotifier) OrderDelivered(*orders.Order) {}

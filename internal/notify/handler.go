package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dastkar/rugshop/internal/kafka"
	"github.com/dastkar/rugshop/internal/orders"
	"github.com/dastkar/rugshop/internal/redisx"
)

// EmailHandler turns order events into emails. Send failures are logged and
// the message is still committed: notification delivery is best-effort end
// to end.
type EmailHandler struct {
	Mailer    Mailer
	Redis     *redis.Client
	StoreName string
	Service   string
}

func (h *EmailHandler) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	env, ok, err := h.decode(ctx, m, orders.EventOrderCreated)
	if err != nil || !ok {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}
	subject, body := RenderOrderConfirmation(h.StoreName, &p.Order)
	if err := h.Mailer.Send(p.Order.Email, subject, body); err != nil {
		log.Printf("order confirmation email (%s): %v", p.Order.ID, err)
	}
	return nil
}

func (h *EmailHandler) HandleOrderDelivered(ctx context.Context, m kafkago.Message) error {
	env, ok, err := h.decode(ctx, m, orders.EventOrderDelivered)
	if err != nil || !ok {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderDeliveredPayload](env.Payload)
	if err != nil {
		return err
	}
	subject, body := RenderOrderDelivered(h.StoreName, &p.Order)
	if err := h.Mailer.Send(p.Order.Email, subject, body); err != nil {
		log.Printf("order delivered email (%s): %v", p.Order.ID, err)
	}
	return nil
}

// decode unmarshals the envelope, filters by event type and dedups by event
// id so a redelivered message does not mail the customer twice.
func (h *EmailHandler) decode(ctx context.Context, m kafkago.Message, want string) (orders.Envelope, bool, error) {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return env, false, err
	}
	if env.EventType != want {
		return env, false, nil
	}
	dkey := fmt.Sprintf(redisx.KeyDedup, h.Service, env.EventID)
	if exists, _ := redisx.Exists(ctx, h.Redis, dkey); exists {
		return env, false, nil
	}
	_ = h.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return env, true, nil
}

// Package consumers processes order lifecycle events. It runs in the worker
// binary, not in the API process.
package consumers

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"marketplace-service/config"
	"marketplace-service/models"
	"marketplace-service/repository"
)

type OrderConsumer struct {
	cfg    *config.Config
	orders repository.IOrderRepo
}

func NewOrderConsumer(cfg *config.Config, orders repository.IOrderRepo) *OrderConsumer {
	return &OrderConsumer{cfg: cfg, orders: orders}
}

// Start registers the order and dead-letter consumers and blocks until the
// channel closes.
func (oc *OrderConsumer) Start(ctx context.Context, ch *amqp.Channel) error {
	msgs, err := ch.Consume(
		oc.cfg.OrderQueue,
		"marketplace-worker", // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	dlqMsgs, err := ch.Consume(
		oc.cfg.DeadLetterQueue,
		"marketplace-worker-dlq",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for msg := range dlqMsgs {
			oc.processDeadLetter(msg)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			oc.processMessage(ctx, msg)
		}
	}
}

func (oc *OrderConsumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid message format: %s", msg.Body)
		_ = msg.Nack(false, false) // reject without requeue, goes to DLQ
		return
	}

	log.Printf("Processing order event: ID=%d, Type=%s", event.OrderID, event.Type)

	var err error
	switch event.Type {
	case "created":
		oc.handleOrderCreated(event)
	case "status_updated":
		oc.handleStatusUpdated(event)
	case "payment_check":
		err = oc.handlePaymentCheck(ctx, event)
	default:
		log.Printf("Unknown event type: %s", event.Type)
	}
	if err != nil {
		log.Printf("Failed to process order event %d: %v", event.OrderID, err)
		_ = msg.Nack(false, false)
		return
	}

	_ = msg.Ack(false)
}

func (oc *OrderConsumer) processDeadLetter(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	_ = msg.Ack(false)
}

func (oc *OrderConsumer) handleOrderCreated(event models.OrderEvent) {
	// Notification fan-out would go here.
	log.Printf("Handling order created: %d", event.OrderID)
}

func (oc *OrderConsumer) handleStatusUpdated(event models.OrderEvent) {
	switch event.Status {
	case models.OrderShipped:
		// Shipping notification would go here.
	case models.OrderCancelled:
		// Cancellation follow-up would go here.
	}
	log.Printf("Handling status update for order %d: %s", event.OrderID, event.Status)
}

// handlePaymentCheck cancels an order that is still pending and unpaid when
// the delayed check fires. The conditional update leaves paid or progressed
// orders alone.
func (oc *OrderConsumer) handlePaymentCheck(ctx context.Context, event models.OrderEvent) error {
	cancelled, err := oc.orders.CancelIfUnpaid(ctx, event.OrderID)
	if err != nil {
		return err
	}
	if cancelled {
		log.Printf("Auto-cancelled order %d due to non-payment", event.OrderID)
	}
	return nil
}

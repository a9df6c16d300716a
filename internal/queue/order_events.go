package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
)

const (
	OrderEventsExchange = "vgfoods.order_events"
	OrderEventsQueue    = "vgfoods.order_events.notify"
	OrderEventsDLQ      = "vgfoods.order_events.dlq"
	OrderPlacedRK       = "order.placed"
	OrderStatusRK       = "order.status.updated"
	OrderEventsDeadRK   = "dead"
)

// OrderEvent is the one message shape published for both placements and
// status changes; Kind tells them apart.
type OrderEvent struct {
	Kind        string    `json:"kind"` // order.placed | order.status.updated
	OrderID     string    `json:"orderId"`
	OrderType   string    `json:"orderType"`
	Status      string    `json:"status"`
	CustomerRef string    `json:"customerRef,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// EnsureOrderEventsTopology declares the exchange, the notify queue and its
// dead-letter queue. Safe to call on every boot.
func EnsureOrderEventsTopology(qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchangeKind(OrderEventsExchange, "topic"); err != nil {
		return err
	}
	if _, err := qc.EnsureQueue(OrderEventsDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(OrderEventsDLQ, OrderEventsExchange, OrderEventsDeadRK); err != nil {
		return err
	}

	_, err := qc.EnsureQueueWithArgs(OrderEventsQueue, amqp.Table{
		"x-dead-letter-exchange":    OrderEventsExchange,
		"x-dead-letter-routing-key": OrderEventsDeadRK,
	})
	if err != nil {
		return err
	}
	return qc.BindQueue(OrderEventsQueue, OrderEventsExchange, "order.#")
}

// PublishOrderPlaced fires the placement event. A nil client is a no-op so
// checkout never fails because the broker is down.
func PublishOrderPlaced(ctx context.Context, qc *Client, orderID string, typ orders.Type, customerRef string, amount float64) error {
	if qc == nil {
		return nil
	}
	return qc.PublishJSON(ctx, OrderEventsExchange, OrderPlacedRK, OrderEvent{
		Kind:        OrderPlacedRK,
		OrderID:     orderID,
		OrderType:   string(typ),
		Status:      string(orders.StatusPending),
		CustomerRef: customerRef,
		Amount:      amount,
		OccurredAt:  time.Now().UTC(),
	})
}

func PublishOrderStatusUpdated(ctx context.Context, qc *Client, orderID string, typ orders.Type, status orders.Status) error {
	if qc == nil {
		return nil
	}
	return qc.PublishJSON(ctx, OrderEventsExchange, OrderStatusRK, OrderEvent{
		Kind:       OrderStatusRK,
		OrderID:    orderID,
		OrderType:  string(typ),
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	})
}

// RunNotificationWorker consumes order events and records one notification
// row per event for the back office feed. Blocks until ctx is cancelled or
// the consumer drops.
func RunNotificationWorker(ctx context.Context, qc *Client, db orders.Querier, logger *zap.Logger) error {
	if qc == nil {
		return nil
	}
	return qc.ConsumeWithRetry(ctx, OrderEventsQueue, func(ctx context.Context, body []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			// unparseable payloads go to the DLQ, retrying cannot fix them
			return fmt.Errorf("decode order event: %w", err)
		}

		_, err := db.Exec(ctx, `
			insert into order_notifications (order_id, order_type, kind, status, payload, created_at)
			values ($1, $2, $3, $4, $5, now())
		`, event.OrderID, event.OrderType, event.Kind, event.Status, body)
		if err != nil {
			return fmt.Errorf("store notification: %w", err)
		}
		if logger != nil {
			logger.Info("order notification recorded",
				zap.String("kind", event.Kind),
				zap.String("orderId", event.OrderID),
				zap.String("status", event.Status))
		}
		return nil
	}, 3, 2*time.Second)
}

package kafka

import (
	"time"

	"github.com/google/uuid"
)

// TopicOrderEvents — единый топик событий жизненного цикла заказа.
const TopicOrderEvents = "commerce.order.events"

const (
	EventTypeOrderPlaced  = "order.placed"
	EventTypeOrderUpdated = "order.updated"
	EventTypeOrderDeleted = "order.deleted"
)

// OrderEvent публикуется для downstream-потребителей (аналитика, уведомления).
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewOrderEvent(eventType, orderID, customerID string) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
}

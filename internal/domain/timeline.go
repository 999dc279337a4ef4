package domain

import "time"

// Типы событий таймлайна заказа.
const (
	TimelineEventOrderPlaced           = "OrderPlaced"
	TimelineEventShippingStatusChanged = "ShippingStatusChanged"
	TimelineEventOrderUpdated          = "OrderUpdated"
)

// TimelineEvent хранит событие жизненного цикла заказа (история доставки).
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}

package domain

import "time"

const (
	// ShippingStatusNotShipped — начальный статус доставки нового заказа.
	ShippingStatusNotShipped = "not shipped"
	// DeliveryLeadTime — срок ожидаемой доставки относительно даты заказа.
	DeliveryLeadTime = 7 * 24 * time.Hour
)

// OrderLine — позиция заказа: товар, количество и снимок цены за единицу
// на момент оформления. Пара (order_id, product_id) уникальна: повторы
// товара в запросе схлопываются в одну позицию с суммарным количеством.
type OrderLine struct {
	ProductID string
	Quantity  int
	// Price — цена за единицу на момент оформления; последующие изменения
	// цены товара на неё не влияют.
	Price     float64
	CreatedAt time.Time
}

// Order агрегирует заказ покупателя и его позиции.
type Order struct {
	ID               string
	CustomerID       string
	OrderDate        time.Time
	ExpectedDelivery time.Time
	ShippingStatus   string
	Lines            []OrderLine
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "customer_id is required"})
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrOrderEmpty)
	}
	if o.ShippingStatus == "" {
		errs = append(errs, FieldError{Field: "shipping_status", Message: "shipping_status is required"})
	}
	if o.OrderDate.IsZero() || o.ExpectedDelivery.IsZero() {
		errs = append(errs, FieldError{Field: "order_date", Message: "order dates must be set"})
	}

	seen := make(map[string]bool, len(o.Lines))
	for _, line := range o.Lines {
		if line.Quantity < 1 {
			errs = append(errs, FieldError{Field: "quantity", Message: "line quantity must be at least 1"})
		}
		if line.Price < 0 {
			errs = append(errs, FieldError{Field: "price", Message: "line price must be non-negative"})
		}
		if seen[line.ProductID] {
			errs = append(errs, FieldError{Field: "product_id", Message: "duplicate product line " + line.ProductID})
		}
		seen[line.ProductID] = true
	}

	return errs
}

// OrderUpdate — типизированный ввод обновления заказа: меняются только даты
// и статус доставки, позиции после оформления неизменны.
type OrderUpdate struct {
	OrderDate        time.Time `json:"order_date"`
	ExpectedDelivery time.Time `json:"expected_delivery"`
	ShippingStatus   string    `json:"shipping_status"`
}

// Validate проверяет поля обновления и возвращает список ошибок по полям.
func (u OrderUpdate) Validate() []error {
	var errs []error

	if u.OrderDate.IsZero() {
		errs = append(errs, FieldError{Field: "order_date", Message: "order_date is required"})
	}
	if u.ExpectedDelivery.IsZero() {
		errs = append(errs, FieldError{Field: "expected_delivery", Message: "expected_delivery is required"})
	}
	if u.ShippingStatus == "" {
		errs = append(errs, FieldError{Field: "shipping_status", Message: "shipping_status is required"})
	}

	return errs
}

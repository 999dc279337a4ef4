package orders

import (
	"errors"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// LineView — позиция заказа, обогащённая текущим именем товара.
// Если товар с тех пор удалён, позиция остаётся (снимок цены хранится
// в ней самой), а флаг product_deleted помечает осиротевшую ссылку.
type LineView struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name,omitempty"`
	ProductDeleted bool    `json:"product_deleted,omitempty"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
}

// TimelineView — событие жизненного цикла заказа в ответе API.
type TimelineView struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

// OrderView — развёрнутая проекция заказа.
// Total — сумма цен за единицу по позициям (без учёта количества),
// GrandTotal — сумма price*quantity; оба поля считаются на чтении
// и нигде не хранятся.
type OrderView struct {
	ID               string         `json:"id"`
	CustomerID       string         `json:"customer_id"`
	OrderDate        time.Time      `json:"order_date"`
	ExpectedDelivery time.Time      `json:"expected_delivery"`
	ShippingStatus   string         `json:"shipping_status"`
	Lines            []LineView     `json:"lines"`
	Total            float64        `json:"total"`
	GrandTotal       float64        `json:"grand_total"`
	Timeline         []TimelineView `json:"timeline,omitempty"`
}

// OrderSummary — краткая проекция для списков.
type OrderSummary struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"`
	OrderDate        time.Time `json:"order_date"`
	ExpectedDelivery time.Time `json:"expected_delivery"`
	ShippingStatus   string    `json:"shipping_status"`
	LineCount        int       `json:"line_count"`
	Total            float64   `json:"total"`
	GrandTotal       float64   `json:"grand_total"`
}

// CustomerOrdersView — все заказы покупателя одним ответом.
type CustomerOrdersView struct {
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Orders       []OrderView `json:"orders"`
}

// GetOrder возвращает развёрнутую проекцию заказа вместе с таймлайном.
func (s *Service) GetOrder(orderID string) (OrderView, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return OrderView{}, err
	}

	view := s.project(order)

	events, err := s.timeline.List(orderID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("не удалось прочитать таймлайн заказа")
	} else {
		view.Timeline = make([]TimelineView, 0, len(events))
		for _, event := range events {
			view.Timeline = append(view.Timeline, TimelineView{
				Type:     event.Type,
				Reason:   event.Reason,
				Occurred: event.Occurred,
			})
		}
	}

	return view, nil
}

// ListOrders возвращает краткие проекции всех заказов.
func (s *Service) ListOrders() ([]OrderSummary, error) {
	all, err := s.orders.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(all))
	for _, order := range all {
		view := s.project(order)
		summaries = append(summaries, OrderSummary{
			ID:               view.ID,
			CustomerID:       view.CustomerID,
			OrderDate:        view.OrderDate,
			ExpectedDelivery: view.ExpectedDelivery,
			ShippingStatus:   view.ShippingStatus,
			LineCount:        len(view.Lines),
			Total:            view.Total,
			GrandTotal:       view.GrandTotal,
		})
	}

	return summaries, nil
}

// ListCustomerOrders возвращает развёрнутые проекции заказов покупателя.
func (s *Service) ListCustomerOrders(customerID string) (CustomerOrdersView, error) {
	customer, err := s.customers.Get(customerID)
	if err != nil {
		return CustomerOrdersView{}, err
	}

	all, err := s.orders.ListByCustomer(customerID)
	if err != nil {
		return CustomerOrdersView{}, err
	}

	views := make([]OrderView, 0, len(all))
	for _, order := range all {
		views = append(views, s.project(order))
	}

	return CustomerOrdersView{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Orders:       views,
	}, nil
}

// project строит проекцию заказа: дотягивает актуальные имена товаров
// и считает суммы на лету.
func (s *Service) project(order domain.Order) OrderView {
	view := OrderView{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		OrderDate:        order.OrderDate,
		ExpectedDelivery: order.ExpectedDelivery,
		ShippingStatus:   order.ShippingStatus,
		Lines:            make([]LineView, 0, len(order.Lines)),
	}

	for _, line := range order.Lines {
		lineView := LineView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}

		product, err := s.products.Get(line.ProductID)
		switch {
		case err == nil:
			lineView.ProductName = product.Name
		case errors.Is(err, domain.ErrProductNotFound):
			lineView.ProductDeleted = true
		default:
			s.logger.WithError(err).WithField("product_id", line.ProductID).Warn("не удалось прочитать товар для проекции")
		}

		view.Total += line.Price
		view.GrandTotal += line.Price * float64(line.Quantity)
		view.Lines = append(view.Lines, lineView)
	}

	return view
}

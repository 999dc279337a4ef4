package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/messaging/kafka"
	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
)

// EventPublisher — издатель событий заказов. Публикация best-effort:
// отказ брокера логируется, но не откатывает уже оформленный заказ.
type EventPublisher interface {
	PublishOrderEvent(event kafka.OrderEvent) error
}

// Service оформляет заказы поверх репозиториев: резервирует остатки,
// собирает позиции со снимком цены и пишет заказ атомарно. Любой сбой
// после частичного резервирования компенсируется возвратом остатков.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	timeline  domain.TimelineRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
	publisher EventPublisher
}

func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	logger *log.Logger,
	orderMetrics *metrics.OrderMetrics,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		timeline:  timeline,
		logger:    logger.WithField("component", "order_service"),
		metrics:   orderMetrics,
	}
}

// NewServiceWithPublisher дополнительно подключает издателя событий заказов.
func NewServiceWithPublisher(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	logger *log.Logger,
	orderMetrics *metrics.OrderMetrics,
	publisher EventPublisher,
) *Service {
	s := NewService(customers, products, orders, timeline, logger, orderMetrics)
	s.publisher = publisher
	return s
}

// reservation — выданный резерв, подлежащий возврату при откате.
type reservation struct {
	productID string
	qty       int
}

// PlaceOrder оформляет заказ по списку идентификаторов товаров.
// Повторы одного товара схлопываются в одну позицию с суммарным
// количеством (порядок первого появления сохраняется). Всё или ничего:
// при любой ошибке ни одна единица остатка не остаётся списанной
// и заказ не сохраняется.
func (s *Service) PlaceOrder(customerID string, productIDs []string) (string, error) {
	start := time.Now()

	orderID, err := s.placeOrder(customerID, productIDs)
	if err != nil {
		if s.metrics != nil {
			s.metrics.OrdersRejected.WithLabelValues(rejectionReason(err)).Inc()
		}
		return "", err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
		s.metrics.PlacementDuration.Observe(time.Since(start).Seconds())
		s.metrics.OpenOrders.Inc()
	}

	return orderID, nil
}

func (s *Service) placeOrder(customerID string, productIDs []string) (string, error) {
	if len(productIDs) == 0 {
		return "", domain.ErrOrderEmpty
	}

	customer, err := s.customers.Get(customerID)
	if err != nil {
		return "", err
	}

	// Схлопываем повторы товара, сохраняя порядок первого появления.
	quantities := make(map[string]int, len(productIDs))
	ordered := make([]string, 0, len(productIDs))
	for _, productID := range productIDs {
		if quantities[productID] == 0 {
			ordered = append(ordered, productID)
		}
		quantities[productID]++
	}

	now := time.Now().UTC()
	lines := make([]domain.OrderLine, 0, len(ordered))
	reservations := make([]reservation, 0, len(ordered))

	for _, productID := range ordered {
		qty := quantities[productID]

		product, err := s.products.Get(productID)
		if err != nil {
			s.releaseAll(reservations)
			return "", err
		}

		if err := s.products.Reserve(productID, qty); err != nil {
			s.releaseAll(reservations)
			return "", err
		}
		reservations = append(reservations, reservation{productID: productID, qty: qty})
		if s.metrics != nil {
			s.metrics.StockReserved.Add(float64(qty))
		}

		lines = append(lines, domain.OrderLine{
			ProductID: productID,
			Quantity:  qty,
			Price:     product.Price,
			CreatedAt: now,
		})
	}

	order := domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       customer.ID,
		OrderDate:        now,
		ExpectedDelivery: now.Add(domain.DeliveryLeadTime),
		ShippingStatus:   domain.ShippingStatusNotShipped,
		Lines:            lines,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		s.releaseAll(reservations)
		return "", errs[0]
	}

	if err := s.orders.Create(order); err != nil {
		s.releaseAll(reservations)
		return "", fmt.Errorf("persist order: %w", err)
	}

	if err := s.timeline.Append(domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     domain.TimelineEventOrderPlaced,
		Occurred: now,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("не удалось записать событие таймлайна")
	}

	s.publish(kafka.EventTypeOrderPlaced, order.ID, order.CustomerID)

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"lines":       len(order.Lines),
	}).Info("заказ оформлен")

	return order.ID, nil
}

// releaseAll возвращает все выданные резервы в обратном порядке.
func (s *Service) releaseAll(reservations []reservation) {
	for i := len(reservations) - 1; i >= 0; i-- {
		r := reservations[i]
		if err := s.products.Release(r.productID, r.qty); err != nil {
			// Возврат несуществующего товара невозможен; прочие ошибки
			// оставляют остаток заниженным, это видно в логах и метриках.
			s.logger.WithError(err).WithFields(log.Fields{
				"product_id": r.productID,
				"qty":        r.qty,
			}).Error("не удалось вернуть резерв")
			continue
		}
		if s.metrics != nil {
			s.metrics.StockReleased.Add(float64(r.qty))
		}
	}
}

// UpdateOrder применяет изменяемые поля заказа. Смена статуса доставки
// фиксируется в таймлайне.
func (s *Service) UpdateOrder(orderID string, update domain.OrderUpdate) error {
	if errs := update.Validate(); len(errs) > 0 {
		return errs[0]
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return err
	}

	statusChanged := order.ShippingStatus != update.ShippingStatus
	wasOpen := order.ShippingStatus == domain.ShippingStatusNotShipped

	now := time.Now().UTC()
	order.OrderDate = update.OrderDate
	order.ExpectedDelivery = update.ExpectedDelivery
	order.ShippingStatus = update.ShippingStatus
	order.UpdatedAt = now

	if err := s.orders.Update(order); err != nil {
		return err
	}

	eventType := domain.TimelineEventOrderUpdated
	reason := ""
	if statusChanged {
		eventType = domain.TimelineEventShippingStatusChanged
		reason = update.ShippingStatus
	}
	if err := s.timeline.Append(domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: now,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("не удалось записать событие таймлайна")
	}

	if s.metrics != nil && statusChanged {
		nowOpen := update.ShippingStatus == domain.ShippingStatusNotShipped
		if wasOpen && !nowOpen {
			s.metrics.OpenOrders.Dec()
		} else if !wasOpen && nowOpen {
			s.metrics.OpenOrders.Inc()
		}
	}

	s.publish(kafka.EventTypeOrderUpdated, orderID, order.CustomerID)

	return nil
}

// DeleteOrder удаляет заказ вместе с позициями и таймлайном.
// Остатки товаров не возвращаются: удаление заказа — не отмена резерва.
func (s *Service) DeleteOrder(orderID string) error {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(orderID); err != nil {
		return err
	}

	if err := s.timeline.DeleteByOrder(orderID); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("не удалось удалить таймлайн заказа")
	}

	if s.metrics != nil && order.ShippingStatus == domain.ShippingStatusNotShipped {
		s.metrics.OpenOrders.Dec()
	}

	s.publish(kafka.EventTypeOrderDeleted, orderID, order.CustomerID)

	return nil
}

// DeleteCustomer удаляет покупателя; его заказы снимает каскад хранилища.
// По каждому каскадно удалённому заказу корректируется счётчик открытых
// заказов и публикуется событие удаления.
func (s *Service) DeleteCustomer(customerID string) error {
	cascaded, err := s.orders.ListByCustomer(customerID)
	if err != nil {
		return err
	}

	if err := s.customers.Delete(customerID); err != nil {
		return err
	}

	for _, order := range cascaded {
		if s.metrics != nil && order.ShippingStatus == domain.ShippingStatusNotShipped {
			s.metrics.OpenOrders.Dec()
		}
		s.publish(kafka.EventTypeOrderDeleted, order.ID, customerID)
	}

	s.logger.WithFields(log.Fields{
		"customer_id": customerID,
		"orders":      len(cascaded),
	}).Info("покупатель удалён вместе с заказами")

	return nil
}

func (s *Service) publish(eventType, orderID, customerID string) {
	if s.publisher == nil {
		return
	}
	event := kafka.NewOrderEvent(eventType, orderID, customerID)
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   orderID,
		}).Warn("не удалось опубликовать событие заказа")
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrOrderEmpty):
		return "empty_order"
	default:
		return "internal"
	}
}

package orders_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/messaging/kafka"
	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
	"github.com/windikite/MP5-E-CommerceAPI/internal/service/orders"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
)

func loggerForTests() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

type fixture struct {
	store   *memory.Store
	service *orders.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	service := orders.NewService(
		store.Customers, store.Products, store.Orders, store.Timeline,
		loggerForTests(), metrics.NewOrderMetrics(prometheus.NewRegistry()),
	)
	return &fixture{store: store, service: service}
}

func (f *fixture) seedCustomer(t *testing.T, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.Customers.Create(domain.Customer{
		ID: id, Name: "Иван Петров", Email: "ivan@example.com", Phone: "+79991234567",
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) seedProduct(t *testing.T, id string, price float64, stock int) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.Products.Create(domain.Product{
		ID: id, Name: "Товар " + id, Price: price, Stock: stock,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	product, err := f.store.Products.Get(id)
	require.NoError(t, err)
	return product.Stock
}

func TestPlaceOrder_CollapsesDuplicateProducts(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)
	f.seedProduct(t, "product-b", 3.5, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a", "product-a", "product-b"})
	require.NoError(t, err)

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	require.Equal(t, "product-a", view.Lines[0].ProductID)
	require.Equal(t, 2, view.Lines[0].Quantity)
	require.Equal(t, "product-b", view.Lines[1].ProductID)
	require.Equal(t, 1, view.Lines[1].Quantity)

	require.Equal(t, 3, f.stock(t, "product-a"))
	require.Equal(t, 4, f.stock(t, "product-b"))
}

func TestPlaceOrder_DatesAndStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 1)

	before := time.Now().UTC()
	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Equal(t, domain.ShippingStatusNotShipped, view.ShippingStatus)
	require.False(t, view.OrderDate.Before(before))
	require.Equal(t, view.OrderDate.Add(domain.DeliveryLeadTime), view.ExpectedDelivery)
}

func TestPlaceOrder_InsufficientStockIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)
	f.seedProduct(t, "product-b", 3.5, 1)

	// product-b запрошен дважды при остатке 1: заказ отклоняется целиком,
	// резерв product-a возвращается.
	_, err := f.service.PlaceOrder("customer-1", []string{"product-a", "product-b", "product-b"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.Equal(t, 5, f.stock(t, "product-a"))
	require.Equal(t, 1, f.stock(t, "product-b"))

	summaries, err := f.service.ListOrders()
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestPlaceOrder_UnknownProductReleasesReservations(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	_, err := f.service.PlaceOrder("customer-1", []string{"product-a", "ghost"})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.Equal(t, 5, f.stock(t, "product-a"))
}

func TestPlaceOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "product-a", 10.0, 5)

	_, err := f.service.PlaceOrder("ghost", []string{"product-a"})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	require.Equal(t, 5, f.stock(t, "product-a"))
}

func TestPlaceOrder_EmptyProductList(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")

	_, err := f.service.PlaceOrder("customer-1", nil)
	require.ErrorIs(t, err, domain.ErrOrderEmpty)
}

func TestPlaceOrder_PriceSnapshot(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	// Подорожание товара после оформления не меняет цену в позиции.
	product, err := f.store.Products.Get("product-a")
	require.NoError(t, err)
	product.Price = 999.0
	require.NoError(t, f.store.Products.Update(product))

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Equal(t, 10.0, view.Lines[0].Price)
}

func TestGetOrder_Totals(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)
	f.seedProduct(t, "product-b", 3.5, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a", "product-a", "product-b"})
	require.NoError(t, err)

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	// Total — сумма цен за единицу по позициям, GrandTotal учитывает количество.
	require.InDelta(t, 13.5, view.Total, 1e-9)
	require.InDelta(t, 23.5, view.GrandTotal, 1e-9)
}

func TestGetOrder_FlagsDeletedProduct(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	require.NoError(t, f.store.Products.Delete("product-a"))

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.True(t, view.Lines[0].ProductDeleted)
	require.Equal(t, 10.0, view.Lines[0].Price)
}

func TestGetOrder_TimelineContainsPlacement(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Len(t, view.Timeline, 1)
	require.Equal(t, domain.TimelineEventOrderPlaced, view.Timeline[0].Type)
}

func TestUpdateOrder_StatusChangeRecorded(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	view, err := f.service.GetOrder(orderID)
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateOrder(orderID, domain.OrderUpdate{
		OrderDate:        view.OrderDate,
		ExpectedDelivery: view.ExpectedDelivery,
		ShippingStatus:   "shipped",
	}))

	updated, err := f.service.GetOrder(orderID)
	require.NoError(t, err)
	require.Equal(t, "shipped", updated.ShippingStatus)
	require.Len(t, updated.Timeline, 2)
	require.Equal(t, domain.TimelineEventShippingStatusChanged, updated.Timeline[1].Type)
	require.Equal(t, "shipped", updated.Timeline[1].Reason)
}

func TestDeleteOrder_RemovesTimelineKeepsStock(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 5)

	orderID, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteOrder(orderID))

	_, err = f.service.GetOrder(orderID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	events, err := f.store.Timeline.List(orderID)
	require.NoError(t, err)
	require.Empty(t, events)

	// Удаление заказа — не отмена: остаток не возвращается.
	require.Equal(t, 4, f.stock(t, "product-a"))
}

func TestListCustomerOrders(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedCustomer(t, "customer-2")
	f.seedProduct(t, "product-a", 10.0, 10)

	_, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)
	_, err = f.service.PlaceOrder("customer-2", []string{"product-a"})
	require.NoError(t, err)

	view, err := f.service.ListCustomerOrders("customer-1")
	require.NoError(t, err)
	require.Equal(t, "customer-1", view.CustomerID)
	require.Len(t, view.Orders, 1)

	_, err = f.service.ListCustomerOrders("ghost")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

// Конкурентное оформление на последнюю единицу: ровно один заказ проходит.
func TestPlaceOrder_ConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer(t, "customer-1")
	f.seedProduct(t, "product-a", 10.0, 1)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PlaceOrder("customer-1", []string{"product-a"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 0, f.stock(t, "product-a"))

	summaries, err := f.service.ListOrders()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

// stubPublisher собирает опубликованные события.
type stubPublisher struct {
	mu     sync.Mutex
	events []kafka.OrderEvent
}

func (p *stubPublisher) PublishOrderEvent(event kafka.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

// Каскадное удаление покупателя закрывает его открытые заказы: счётчик
// открытых заказов уменьшается, по каждому заказу публикуется событие.
func TestDeleteCustomer_AdjustsGaugeAndPublishes(t *testing.T) {
	store := memory.NewStore()
	publisher := &stubPublisher{}
	om := metrics.NewOrderMetrics(prometheus.NewRegistry())
	service := orders.NewServiceWithPublisher(
		store.Customers, store.Products, store.Orders, store.Timeline,
		loggerForTests(), om, publisher,
	)

	now := time.Now().UTC()
	require.NoError(t, store.Customers.Create(domain.Customer{
		ID: "customer-1", Name: "Иван", Email: "ivan@example.com", Phone: "+79991234567",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Products.Create(domain.Product{
		ID: "product-a", Name: "Товар", Price: 10, Stock: 5, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)
	_, err = service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)
	require.Equal(t, 2.0, gaugeValue(t, om.OpenOrders))

	require.NoError(t, service.DeleteCustomer("customer-1"))
	require.Equal(t, 0.0, gaugeValue(t, om.OpenOrders))

	deleted := 0
	publisher.mu.Lock()
	for _, event := range publisher.events {
		if event.EventType == kafka.EventTypeOrderDeleted {
			deleted++
		}
	}
	publisher.mu.Unlock()
	require.Equal(t, 2, deleted)

	_, err = store.Customers.Get("customer-1")
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	require.ErrorIs(t, service.DeleteCustomer("ghost"), domain.ErrCustomerNotFound)
}

func TestPlaceOrder_PublishesEvent(t *testing.T) {
	store := memory.NewStore()
	publisher := &stubPublisher{}
	service := orders.NewServiceWithPublisher(
		store.Customers, store.Products, store.Orders, store.Timeline,
		loggerForTests(), metrics.NewOrderMetrics(prometheus.NewRegistry()), publisher,
	)

	now := time.Now().UTC()
	require.NoError(t, store.Customers.Create(domain.Customer{
		ID: "customer-1", Name: "Иван", Email: "ivan@example.com", Phone: "+79991234567",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Products.Create(domain.Product{
		ID: "product-a", Name: "Товар", Price: 10, Stock: 1, CreatedAt: now, UpdatedAt: now,
	}))

	orderID, err := service.PlaceOrder("customer-1", []string{"product-a"})
	require.NoError(t, err)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.events, 1)
	require.Equal(t, kafka.EventTypeOrderPlaced, publisher.events[0].EventType)
	require.Equal(t, orderID, publisher.events[0].OrderID)
}

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics — счётчики и гистограммы оформления заказов.
type OrderMetrics struct {
	OrdersPlaced      prometheus.Counter
	OrdersRejected    *prometheus.CounterVec
	PlacementDuration prometheus.Histogram
	StockReserved     prometheus.Counter
	StockReleased     prometheus.Counter
	OpenOrders        prometheus.Gauge
}

// NewOrderMetrics регистрирует метрики в реестре.
// Повторная регистрация (например, в тестах с DefaultRegisterer)
// не считается ошибкой: берём уже зарегистрированный коллектор.
func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		OrdersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_orders_placed_total",
			Help: "Количество успешно оформленных заказов.",
		}),
		OrdersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "commerce_orders_rejected_total",
			Help: "Количество отклонённых заказов по причинам.",
		}, []string{"reason"}),
		PlacementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "commerce_order_placement_duration_seconds",
			Help:    "Длительность оформления заказа.",
			Buckets: prometheus.DefBuckets,
		}),
		StockReserved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_stock_reserved_total",
			Help: "Количество зарезервированных единиц товара.",
		}),
		StockReleased: registerCounter(registerer, prometheus.CounterOpts{
			Name: "commerce_stock_released_total",
			Help: "Количество единиц товара, возвращённых компенсацией.",
		}),
		OpenOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "commerce_open_orders",
			Help: "Число заказов со статусом 'not shipped'.",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	counter := prometheus.NewCounter(opts)
	if err := registerer.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return counter
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return vec
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	gauge := prometheus.NewGauge(opts)
	if err := registerer.Register(gauge); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Gauge)
		}
		panic(err)
	}
	return gauge
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	histogram := prometheus.NewHistogram(opts)
	if err := registerer.Register(histogram); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return histogram
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(err)
	}
	return vec
}

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestOrderMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	om := metrics.NewOrderMetrics(registry)

	om.OrdersPlaced.Inc()
	om.OrdersPlaced.Inc()
	om.StockReserved.Add(3)
	om.OrdersRejected.WithLabelValues("insufficient_stock").Inc()

	if got := counterValue(t, om.OrdersPlaced); got != 2 {
		t.Fatalf("expected 2 placed, got %v", got)
	}
	if got := counterValue(t, om.StockReserved); got != 3 {
		t.Fatalf("expected 3 reserved, got %v", got)
	}
	if got := counterValue(t, om.OrdersRejected.WithLabelValues("insufficient_stock")); got != 1 {
		t.Fatalf("expected 1 rejected, got %v", got)
	}
}

// Повторная регистрация в одном реестре не должна падать.
func TestOrderMetricsDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := metrics.NewOrderMetrics(registry)
	second := metrics.NewOrderMetrics(registry)

	first.OrdersPlaced.Inc()
	second.OrdersPlaced.Inc()

	if got := counterValue(t, second.OrdersPlaced); got != 2 {
		t.Fatalf("expected shared counter with value 2, got %v", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	hm := metrics.NewHTTPMetrics(registry)

	hm.Requests.WithLabelValues("POST /orders", "POST", "201").Inc()
	hm.Duration.WithLabelValues("POST /orders", "POST").Observe(0.05)

	if got := counterValue(t, hm.Requests.WithLabelValues("POST /orders", "POST", "201")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
}

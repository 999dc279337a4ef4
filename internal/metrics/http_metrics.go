package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics — метрики входящих HTTP-запросов.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewHTTPMetrics(registerer prometheus.Registerer) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &HTTPMetrics{
		Requests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "commerce_http_requests_total",
			Help: "Количество HTTP-запросов по маршруту, методу и коду ответа.",
		}, []string{"route", "method", "code"}),
		Duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "commerce_http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

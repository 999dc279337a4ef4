package httpapi

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
)

// statusRecorder запоминает код ответа для логов и метрик.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withObservability оборачивает обработчик access-логом и HTTP-метриками.
// route — шаблон маршрута (например "POST /orders"), чтобы не плодить
// кардинальность метрик реальными идентификаторами.
func withObservability(route string, logger *log.Entry, httpMetrics *metrics.HTTPMetrics, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		elapsed := time.Since(start)
		if httpMetrics != nil {
			httpMetrics.Requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
			httpMetrics.Duration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		}

		logger.WithFields(log.Fields{
			"route":       route,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("запрос обработан")
	}
}

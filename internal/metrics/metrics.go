// Package metrics содержит коллекторы Prometheus для HTTP-слоя и хранилищ.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	storeOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_store_operation_duration_seconds",
			Help:    "Duration of storage operations by outcome",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "status"},
	)
	activityPublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_activity_publish_failures_total",
			Help: "Activity events that could not be published",
		},
	)
)

// MustRegister регистрирует все коллекторы. Вызывается один раз при сборке приложения.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		storeOperationDuration,
		activityPublishFailures,
	)
}

// ObserveHTTP фиксирует завершённый HTTP-запрос. route это шаблон маршрута chi,
// а не фактический путь, чтобы id не раздували число серий.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveStore фиксирует длительность операции хранилища
func ObserveStore(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	storeOperationDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// IncActivityPublishFailures учитывает неудачную публикацию события
func IncActivityPublishFailures() {
	activityPublishFailures.Inc()
}

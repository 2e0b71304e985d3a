package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "shopctl"

type gatewayMetrics struct {
	requests  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	callLimit *prometheus.GaugeVec
}

// newGatewayMetrics builds the collectors and registers them when registerer
// is set. Collectors already registered by another gateway are reused.
func newGatewayMetrics(registerer prometheus.Registerer) *gatewayMetrics {
	metrics := &gatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Admin API requests by method and final status code.",
		}, []string{"method", "code"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "admin",
			Name:      "retries_total",
			Help:      "Admin API request retries by method.",
		}, []string{"method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin API request latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		callLimit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "admin",
			Name:      "call_limit_utilization",
			Help:      "Last reported REST call limit bucket utilization per shop.",
		}, []string{"shop"}),
	}
	if registerer == nil {
		return metrics
	}

	metrics.requests = registerOrExisting(registerer, metrics.requests)
	metrics.retries = registerOrExisting(registerer, metrics.retries)
	metrics.duration = registerOrExisting(registerer, metrics.duration)
	metrics.callLimit = registerOrExisting(registerer, metrics.callLimit)
	return metrics
}

func registerOrExisting[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			if existing, ok := alreadyRegistered.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return collector
}

func (m *gatewayMetrics) observe(method string, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

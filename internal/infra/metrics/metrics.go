// Package metrics exposes Prometheus instrumentation for the HTTP API and checkout.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Registry owns every collector the service exports.
type Registry struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestInFlight prometheus.Gauge

	checkoutDuration *prometheus.HistogramVec
	checkoutTotal    *prometheus.CounterVec
	itemsSold        prometheus.Counter
}

var _ service.CheckoutMetrics = (*Registry)(nil)

// NewRegistry builds a registry with runtime collectors and the service metrics.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		checkoutDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "duration_seconds",
				Help:      "Duration of checkout attempts in seconds.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"outcome"},
		),
		checkoutTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "checkout",
				Name:      "attempts_total",
				Help:      "Total checkout attempts by outcome.",
			},
			[]string{"outcome"},
		),
		itemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "items_sold_total",
			Help:      "Units removed from stock by placed orders.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestDuration,
		r.requestTotal,
		r.requestInFlight,
		r.checkoutDuration,
		r.checkoutTotal,
		r.itemsSold,
	)

	return r
}

// ObserveCheckout records one checkout attempt.
func (r *Registry) ObserveCheckout(outcome string, elapsed time.Duration) {
	r.checkoutTotal.WithLabelValues(outcome).Inc()
	r.checkoutDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// AddItemsSold counts units leaving stock.
func (r *Registry) AddItemsSold(units int) {
	if units <= 0 {
		return
	}
	r.itemsSold.Add(float64(units))
}

// Middleware records request count and latency labelled by the matched route.
func (r *Registry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			r.requestInFlight.Inc()
			defer r.requestInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			r.requestTotal.WithLabelValues(labels...).Inc()
			r.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// NoopCheckoutMetrics discards observations.
type NoopCheckoutMetrics struct{}

func (NoopCheckoutMetrics) ObserveCheckout(string, time.Duration) {}

func (NoopCheckoutMetrics) AddItemsSold(int) {}

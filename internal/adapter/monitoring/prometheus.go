package monitoring

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

const namespace = "bmi"

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20}

const (
	OutcomeMeasured = "measured"
	OutcomeFallback = "fallback"
)

// Collector owns its registry, so several collectors can live in one process
// (tests create one per server).
type Collector struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	weightReadings  *prometheus.CounterVec
	measurements    *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		weightReadings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scale",
			Name:      "readings_total",
			Help:      "Weight readings by outcome",
		}, []string{"outcome"}),
		measurements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_total",
			Help:      "Computed BMI measurements by category",
		}, []string{"category"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestTotal,
		c.requestDuration,
		c.weightReadings,
		c.measurements,
	)
	return c
}

// Middleware records every request under its route pattern, not the raw path.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			} else if err != nil && !ctx.Response().Committed {
				status = http.StatusInternalServerError
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			c.recordRequest(ctx.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

func (c *Collector) recordRequest(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	c.requestTotal.With(labels).Inc()
	c.requestDuration.With(labels).Observe(duration.Seconds())
}

func (c *Collector) ObserveWeightReading(fallback bool) {
	outcome := OutcomeMeasured
	if fallback {
		outcome = OutcomeFallback
	}
	c.weightReadings.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func (c *Collector) ObserveMeasurement(category string) {
	c.measurements.With(prometheus.Labels{"category": category}).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "code"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	})
)

var skipMetrics = map[string]struct{}{
	"/":        {},
	"/metrics": {},
}

// Metrics records request counts and latency labelled by route pattern. Health and
// metrics endpoints are not recorded. It must run after Logging so the status is final.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, skip := skipMetrics[c.Path()]; skip {
			return c.Next()
		}

		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		code := strconv.Itoa(c.Response().StatusCode())
		requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(c.Method(), path, code).Inc()
		return nil
	}
}

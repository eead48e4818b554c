package observability

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingTransitions counts booking lifecycle transitions by resulting status.
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtbooking_booking_transitions_total",
		Help: "Booking lifecycle transitions by resulting status",
	}, []string{"status"})

	// BookingConflicts counts booking requests rejected because the slot was taken.
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtbooking_booking_conflicts_total",
		Help: "Booking requests rejected by the overlap check",
	})

	// EventPublishFailures counts booking events that could not be delivered, by sink.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtbooking_event_publish_failures_total",
		Help: "Booking events that failed to publish",
	}, []string{"sink"})

	// HTTPRequestDuration records handler latency by method, route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtbooking_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// HTTPMetrics records HTTPRequestDuration for every request.
func HTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

package echoweb

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

func requestIDMiddleware() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	})
}

// metricsMiddleware counts requests and observes latency per route/status.
func metricsMiddleware(reg prometheus.Registerer) echo.MiddlewareFunc {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shule_http_requests_total",
		Help: "Total HTTP requests served.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shule_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, latency)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			method := c.Request().Method

			// observe once the response is written, so the status reflects
			// whatever the error handler ended up sending
			c.Response().After(func() {
				route := c.Path()
				if route == "" {
					route = "unmatched"
				}
				requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
				latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			})
			return next(c)
		}
	}
}

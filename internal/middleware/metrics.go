package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewMetricsMiddleware records request counts and latency keyed by the
// matched route pattern rather than the raw path.
func (m *middleware) NewMetricsMiddleware(c *fiber.Ctx) error {
	if m.metrics == nil {
		return c.Next()
	}

	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if fiberErr, ok := err.(*fiber.Error); ok {
		status = fiberErr.Code
	}

	route := c.Route().Path
	if route == "" || route == "/" {
		route = c.Path()
	}
	m.metrics.ObserveHTTP(route, c.Method(), status, time.Since(start))

	return err
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
)

// unmeasured routes are scrapes, probes and long-lived streams.
var unmeasured = map[string]struct{}{
	"/metrics":                        {},
	"/healthcheck":                    {},
	"/api/users/subscriptions/events": {},
}

// Metrics records count, latency and in-flight gauges per matched route.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if _, skip := unmeasured[c.FullPath()]; skip {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

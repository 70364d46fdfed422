package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/service"
)

// unmatchedRoute labels requests no route matched so arbitrary URLs cannot grow label cardinality.
const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route template. Paths listed in skip
// (probes, the scrape endpoint) are not observed. A nil service disables the middleware.
func Metrics(metrics *service.MetricsService, skip ...string) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

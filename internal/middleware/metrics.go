package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/service"
)

// unmatchedRoute labels requests that hit no registered route so raw paths
// never become metric labels.
const unmatchedRoute = "unmatched"

// Metrics records request duration and count per route template. Requests
// to any of skip (for example the scrape endpoint itself) are not recorded.
func Metrics(metricsSvc *service.MetricsService, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
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
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	OrderDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_decisions_total",
			Help: "Order decisions by outcome",
		},
		[]string{"decision"},
	)
	InventoryLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_lookups_total",
			Help: "Stock lookups split by whether the product is seeded",
		},
		[]string{"known"},
	)
)

// Route returns the matched route template so ids never become label values.
func Route(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func Middleware(c *gin.Context) {
	if c.Request.URL.Path == metricsPath {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	route := Route(c)
	RequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

// Register mounts the middleware and the scrape endpoint on r.
func Register(r *gin.Engine) {
	r.Use(Middleware)
	r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
}

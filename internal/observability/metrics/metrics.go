package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(New),
)

// HTTPMetrics holds the request-level prometheus instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	journalEntries prometheus.Counter
	postedInvoices prometheus.Counter
}

func New() (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		journalEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journal_entries_generated_total",
			Help: "Journal entries created by the posting engine.",
		}),
		postedInvoices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invoices_posted_total",
			Help: "Invoices linked into journal entries.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.journalEntries, m.postedInvoices} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}

	return m, nil
}

// RecordJournalEntry counts one generated journal entry and its linked invoices.
func (m *HTTPMetrics) RecordJournalEntry(invoices int) {
	if m == nil {
		return
	}
	m.journalEntries.Inc()
	m.postedInvoices.Add(float64(invoices))
}

// GinMiddleware observes request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

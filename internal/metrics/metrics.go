// Package metrics collects and exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram
	votesCast    prometheus.Counter
	pollsCreated prometheus.Counter
	pollsClosed  prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quorum_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quorum_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		votesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quorum_votes_cast_total",
			Help: "Total accepted votes",
		}),
		pollsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quorum_polls_created_total",
			Help: "Total polls created",
		}),
		pollsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quorum_polls_closed_total",
			Help: "Total polls closed",
		}),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.votesCast,
		c.pollsCreated,
		c.pollsClosed,
	)
	return c
}

func (c *Collector) RecordVoteCast()    { c.votesCast.Inc() }
func (c *Collector) RecordPollCreated() { c.pollsCreated.Inc() }
func (c *Collector) RecordPollClosed()  { c.pollsClosed.Inc() }

// Handler serves the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency around the wrapped handler.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		c.httpRequests.WithLabelValues(r.Method, strconv.Itoa(rec.statusCode)).Inc()
		c.httpLatency.Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

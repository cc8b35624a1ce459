package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	invalidMethodLabel = "invalid"
	otherMethodLabel   = "other"
	unmatchedPathLabel = "unmatched"
)

var (
	registerOnce sync.Once

	activeConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jsontp",
			Subsystem: "server",
			Name:      "active_connections",
			Help:      "Currently open jsontp connections.",
		},
		[]string{"node"},
	)
	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsontp",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total jsontp requests answered.",
		},
		[]string{"node", "method", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jsontp",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "jsontp request handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "status"},
	)
	connFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsontp",
			Subsystem: "server",
			Name:      "connection_faults_total",
			Help:      "Connections closed by a fatal frame or parse error.",
		},
		[]string{"node", "kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsontp",
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jsontp",
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(activeConns, requests, requestDuration, connFaults, httpRequests, httpDuration)
	})
}

func ConnOpened(node string) {
	RegisterMetrics()
	activeConns.WithLabelValues(node).Inc()
}

func ConnClosed(node string) {
	RegisterMetrics()
	activeConns.WithLabelValues(node).Dec()
}

// RecordRequest counts one answered request. Methods outside the protocol's
// set are recorded as "invalid" so peers cannot mint label values.
func RecordRequest(node, method string, status int, duration time.Duration) {
	RegisterMetrics()
	method = requestMethodLabel(method)
	statusLabel := strconv.Itoa(status)
	requests.WithLabelValues(node, method, statusLabel).Inc()
	requestDuration.WithLabelValues(node, method, statusLabel).Observe(duration.Seconds())
}

// RecordConnFault counts a connection-fatal error by kind ("frame", "parse", "io").
func RecordConnFault(node, kind string) {
	RegisterMetrics()
	connFaults.WithLabelValues(node, kind).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	method = httpMethodLabel(method)
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func requestMethodLabel(method string) string {
	if protocol.Method(method).Valid() {
		return method
	}
	return invalidMethodLabel
}

func httpMethodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	}
	return otherMethodLabel
}

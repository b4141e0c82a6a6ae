// Package metrics is the Prometheus facade for the gateway: cardinality-safe
// counters and histograms for requests, proxy calls, rate limiting, and
// auth attempts.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Facade bundles the gateway's Prometheus collectors behind typed recording
// methods so callers never touch label ordering directly.
type Facade struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	proxyRequests   *prometheus.CounterVec
	proxyDuration   *prometheus.HistogramVec
	rateLimitHits   *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
	activeConns     prometheus.Gauge
	serviceInfo     *prometheus.GaugeVec
}

// New registers the gateway's collectors against reg and returns a Facade.
func New(reg prometheus.Registerer) *Facade {
	f := &Facade{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_requests_total",
			Help: "Total requests processed",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_gateway_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: durationBuckets,
		}, []string{"method", "path"}),
		proxyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_proxy_requests_total",
			Help: "Total proxied requests",
		}, []string{"service", "status"}),
		proxyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_gateway_proxy_duration_seconds",
			Help:    "Proxy request duration",
			Buckets: durationBuckets,
		}, []string{"service"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}, []string{"client_type"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_gateway_auth_attempts_total",
			Help: "Total authentication attempts",
		}, []string{"status"}),
		activeConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "api_gateway_active_connections",
			Help: "Current active connections",
		}),
		serviceInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "api_gateway_service_info",
			Help: "API Gateway service information",
		}, []string{"version", "service"}),
	}

	reg.MustRegister(
		f.requestsTotal,
		f.requestDuration,
		f.proxyRequests,
		f.proxyDuration,
		f.rateLimitHits,
		f.authAttempts,
		f.activeConns,
		f.serviceInfo,
	)
	return f
}

// Init stamps the service info gauge. Call once at startup.
func (f *Facade) Init(version string) {
	f.serviceInfo.WithLabelValues(version, "api-gateway").Set(1)
}

// RecordRequest records one completed request against the normalized path.
func (f *Facade) RecordRequest(method, path string, status int, durationSeconds float64) {
	normalized := NormalizePath(path)
	f.requestsTotal.WithLabelValues(method, normalized, strconv.Itoa(status)).Inc()
	f.requestDuration.WithLabelValues(method, normalized).Observe(durationSeconds)
}

// RecordProxyRequest records one completed backend call.
func (f *Facade) RecordProxyRequest(service string, status int, durationSeconds float64) {
	f.proxyRequests.WithLabelValues(service, strconv.Itoa(status)).Inc()
	f.proxyDuration.WithLabelValues(service).Observe(durationSeconds)
}

// RecordRateLimitHit records one 429 denial.
func (f *Facade) RecordRateLimitHit(clientType string) {
	if clientType == "" {
		clientType = "ip"
	}
	f.rateLimitHits.WithLabelValues(clientType).Inc()
}

// RecordAuthAttempt records one auth verification outcome.
func (f *Facade) RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	f.authAttempts.WithLabelValues(status).Inc()
}

// IncActiveConnections / DecActiveConnections track in-flight requests.
func (f *Facade) IncActiveConnections() { f.activeConns.Inc() }
func (f *Facade) DecActiveConnections() { f.activeConns.Dec() }

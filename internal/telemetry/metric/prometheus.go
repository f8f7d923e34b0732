package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "respkv"

// Command outcome label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsTotal    prometheus.Counter
	ConnectionsRejected prometheus.Counter

	// Command metrics, labelled by command name (and result).
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter

	// Wire metrics
	ProtocolErrors prometheus.Counter
	BytesRead      prometheus.Counter
	BytesWritten   prometheus.Counter
}

// NewRegistry creates a registry with the application metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_active",
			Help:      "Number of open client connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total client connections accepted",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "connections_rejected_total",
			Help:      "Connections refused because max_connections was reached",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "commands_total",
			Help:      "Commands processed, by command and result",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "command_duration_seconds",
			Help:      "Command execution latency",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"command"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "server",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter",
		}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "resp",
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed RESP input",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "resp",
			Name:      "read_bytes_total",
			Help:      "Bytes read from clients",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "resp",
			Name:      "written_bytes_total",
			Help:      "Bytes written to clients",
		}),
	}

	r.reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ConnectionsRejected,
		r.CommandsTotal,
		r.CommandDuration,
		r.RateLimited,
		r.ProtocolErrors,
		r.BytesRead,
		r.BytesWritten,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// MustRegister adds extra collectors to the registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

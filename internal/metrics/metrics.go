package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nft_lifecycle"

var (
	// Registry holds the service collectors
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "route"},
	)

	gatewayProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "probes_total",
			Help:      "Gateway availability probes by outcome.",
		},
		[]string{"gateway", "result"},
	)

	gatewayResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "resolutions_total",
			Help:      "Content hash resolutions by source (cache, probe, fallback).",
		},
		[]string{"source"},
	)

	rpcEndpointFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "endpoint_failures_total",
			Help:      "RPC endpoint failures that caused a fall through to the next endpoint.",
		},
		[]string{"host"},
	)

	rpcSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "sweeps_total",
			Help:      "RPC endpoint sweeps by outcome.",
		},
		[]string{"result"},
	)

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "claims_total",
			Help:      "Claim attempts by outcome.",
		},
		[]string{"result"},
	)

	monitorEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "events_total",
			Help:      "Contract events seen by the monitor by outcome.",
		},
		[]string{"contract_type", "event", "result"},
	)

	monitorCheckpoint = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "checkpoint_block",
			Help:      "Last processed block per watched pair.",
		},
		[]string{"chain", "contract_type", "event"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		gatewayProbes,
		gatewayResolutions,
		rpcEndpointFailures,
		rpcSweeps,
		claims,
		monitorEvents,
		monitorCheckpoint,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a served request. route is the matched route
// pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordGatewayProbe(gateway string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	gatewayProbes.WithLabelValues(hostOf(gateway), result).Inc()
}

func RecordGatewayResolution(source string) {
	gatewayResolutions.WithLabelValues(source).Inc()
}

// RecordRPCEndpointFailure counts a failed endpoint by host so credentials in paths never become labels
func RecordRPCEndpointFailure(endpoint string) {
	rpcEndpointFailures.WithLabelValues(hostOf(endpoint)).Inc()
}

func RecordRPCSweep(result string) {
	rpcSweeps.WithLabelValues(result).Inc()
}

func RecordClaim(result string) {
	claims.WithLabelValues(result).Inc()
}

func RecordMonitorEvent(contractType, event, result string) {
	monitorEvents.WithLabelValues(contractType, event, result).Inc()
}

func SetMonitorCheckpoint(chain, contractType, event string, block uint64) {
	monitorCheckpoint.WithLabelValues(chain, contractType, event).Set(float64(block))
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

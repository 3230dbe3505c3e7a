// Package metrics records LLM and tool activity for the /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder is what the agent loop reports to.
type Recorder interface {
	ObserveLLM(provider string, elapsed time.Duration, err error)
	ObserveTool(tool string, elapsed time.Duration, failed bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveLLM(string, time.Duration, error) {}
func (Nop) ObserveTool(string, time.Duration, bool) {}

// Prometheus keeps its collectors on a private registry so several instances
// can coexist in one process.
type Prometheus struct {
	registry *prometheus.Registry

	llmRequests *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	toolCalls   *prometheus.CounterVec
	toolLatency *prometheus.HistogramVec
}

// NewPrometheus registers the jarvis collectors on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jarvis",
				Name:      "llm_requests_total",
				Help:      "LLM chat requests by provider and outcome.",
			},
			[]string{"provider", "status"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jarvis",
				Name:      "llm_request_duration_seconds",
				Help:      "Latency of LLM chat requests.",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"provider"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jarvis",
				Name:      "tool_calls_total",
				Help:      "Tool executions by tool and outcome.",
			},
			[]string{"tool", "status"},
		),
		toolLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jarvis",
				Name:      "tool_duration_seconds",
				Help:      "Latency of tool executions.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}

	p.registry.MustRegister(p.llmRequests, p.llmDuration, p.toolCalls, p.toolLatency)
	return p
}

func (p *Prometheus) ObserveLLM(provider string, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	p.llmRequests.WithLabelValues(provider, status).Inc()
	p.llmDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveTool(tool string, elapsed time.Duration, failed bool) {
	status := StatusOK
	if failed {
		status = StatusError
	}
	p.toolCalls.WithLabelValues(tool, status).Inc()
	p.toolLatency.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// WatchQueue exports depth() as jarvis_queue_depth{queue=name}. It is read on
// every scrape.
func (p *Prometheus) WatchQueue(name string, depth func() int) {
	p.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   "jarvis",
			Name:        "queue_depth",
			Help:        "Messages waiting on the message bus.",
			ConstLabels: prometheus.Labels{"queue": name},
		},
		func() float64 { return float64(depth()) },
	))
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

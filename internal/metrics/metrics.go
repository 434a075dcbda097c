// Package metrics owns the Prometheus collectors and the optional HTTP
// endpoint that exposes them.
package metrics

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/HendryAvila/Nexus/internal/knowledge"
	"github.com/HendryAvila/Nexus/internal/reasoning"
)

const namespace = "nexus"

// Tool call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeToolError = "tool_error"
	OutcomeError     = "error"
)

// Metrics holds every collector on a private registry, so tests can build
// as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls      *prometheus.CounterVec
	StepsCreated   *prometheus.CounterVec
	GraphNodes     prometheus.Gauge
	GraphLinks     prometheus.Gauge
	PersistSeconds prometheus.Histogram
	PersistErrors  prometheus.Counter
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		StepsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reasoning_steps_created_total",
			Help:      "Reasoning steps created by step type.",
		}, []string{"type"}),
		GraphNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the knowledge graph after the last save.",
		}),
		GraphLinks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_links",
			Help:      "Links in the knowledge graph after the last save.",
		}),
		PersistSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_persist_seconds",
			Help:      "Time spent writing the knowledge graph to storage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		PersistErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_persist_errors_total",
			Help:      "Failed knowledge graph saves.",
		}),
	}
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// StepCreated implements reasoning.Observer.
func (m *Metrics) StepCreated(t reasoning.StepType) {
	m.StepsCreated.WithLabelValues(string(t)).Inc()
}

// GraphSaved implements knowledge.Observer.
func (m *Metrics) GraphSaved(s knowledge.Stats, seconds float64, err error) {
	m.PersistSeconds.Observe(seconds)
	if err != nil {
		m.PersistErrors.Inc()
	}
	m.SetGraphSize(s)
}

// SetGraphSize sets the node and link gauges.
func (m *Metrics) SetGraphSize(s knowledge.Stats) {
	m.GraphNodes.Set(float64(s.Nodes))
	m.GraphLinks.Set(float64(s.Links))
}

// Instrument wraps a tool handler so every call is counted by outcome.
func (m *Metrics) Instrument(tool string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, req)
		outcome := OutcomeOK
		switch {
		case err != nil:
			outcome = OutcomeError
		case res != nil && res.IsError:
			outcome = OutcomeToolError
		}
		m.ToolCalls.WithLabelValues(tool, outcome).Inc()
		return res, err
	}
}

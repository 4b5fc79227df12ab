package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by lifecycle hooks. It owns its registry
// so several instances can coexist (tests, embedded hosts).
type Metrics struct {
	registry *prometheus.Registry

	dispatches       *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	phases           prometheus.Counter
	plansCancelled   prometheus.Counter
	toolCalls        *prometheus.CounterVec
	toolDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the pacer collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_dispatch_total",
			Help: "Requests dispatched, by resolved scenario",
		}, []string{"scenario", "explicit"}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_dispatch_failures_total",
			Help: "Dispatches whose handler failed or panicked",
		}, []string{"scenario"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pacer_dispatch_duration_seconds",
			Help:    "Time from resolution to response",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"scenario"}),
		phases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pacer_phases_total",
			Help: "Phases started by the phase runner",
		}),
		plansCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pacer_plans_cancelled_total",
			Help: "Plans that stopped at a phase boundary because of cancellation",
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_tool_calls_total",
			Help: "Tool invocations, by outcome (ok, cancelled, error)",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pacer_tool_duration_seconds",
			Help:    "Duration of tool executions",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"tool"}),
	}
	m.registry.MustRegister(
		m.dispatches, m.dispatchFailures, m.dispatchDuration,
		m.phases, m.plansCancelled,
		m.toolCalls, m.toolDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns the lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.dispatches.WithLabelValues(string(e.Scenario), strconv.FormatBool(e.Explicit)).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.DispatchEvent) {
			m.dispatchDuration.WithLabelValues(string(e.Scenario)).Observe(e.Elapsed.Seconds())
			if e.Failed {
				m.dispatchFailures.WithLabelValues(string(e.Scenario)).Inc()
			}
		},
		OnPhaseStart: func(*domain.PhaseEvent) {
			m.phases.Inc()
		},
		OnPlanDone: func(e *domain.PhaseEvent) {
			if e.Cancelled {
				m.plansCancelled.Inc()
			}
		},
		OnToolReturn: func(_ context.Context, e *domain.ToolEvent) {
			outcome := "ok"
			switch {
			case e.IsError:
				outcome = "error"
			case e.Cancelled:
				outcome = "cancelled"
			}
			m.toolCalls.WithLabelValues(e.ToolName, outcome).Inc()
			m.toolDuration.WithLabelValues(e.ToolName).Observe(e.Elapsed.Seconds())
		},
	}
}

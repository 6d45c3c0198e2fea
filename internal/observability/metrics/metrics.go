package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the agent loop.
type ConversationMetrics struct {
	turnsTotal      *prometheus.CounterVec
	modelCallsTotal *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	toolCallsTotal  *prometheus.CounterVec
	toolLatency     *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "driverdesk",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed user turns",
		}, []string{"status"}),
		modelCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "driverdesk",
			Subsystem: "conversation",
			Name:      "model_calls_total",
			Help:      "Total language-model invocations",
		}, []string{"phase", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "driverdesk",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of one user turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "driverdesk",
			Subsystem: "tools",
			Name:      "calls_total",
			Help:      "Total tool dispatches",
		}, []string{"tool", "status"}),
		toolLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "driverdesk",
			Subsystem: "tools",
			Name:      "latency_seconds",
			Help:      "Latency of tool handler execution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.modelCallsTotal, m.turnLatency, m.toolCallsTotal, m.toolLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
	m.turnLatency.WithLabelValues(status).Observe(seconds)
}

func (m *ConversationMetrics) ObserveModelCall(phase, status string) {
	if m == nil {
		return
	}
	m.modelCallsTotal.WithLabelValues(phase, status).Inc()
}

func (m *ConversationMetrics) ObserveToolCall(tool, status string, seconds float64) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool, status).Inc()
	m.toolLatency.WithLabelValues(tool).Observe(seconds)
}

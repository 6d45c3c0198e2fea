package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConversationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)
	m.ObserveTurn("ok", 0.5)
	m.ObserveModelCall("initial", "ok")
	m.ObserveModelCall("synthesis", "error")
	m.ObserveToolCall("book_appointment", "ok", 0.02)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveTurn("ok", 0.1)
	m.ObserveModelCall("initial", "ok")
	m.ObserveToolCall("capture_lead", "error", 0.1)
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRelayMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)
	m.ObserveInbound("text", "echo")
	m.ObserveReply(true)
	m.ObserveReply(false)
	m.ObserveRouteLatency("audio", 0.25)
}

func TestRelayMetricsNilSafe(t *testing.T) {
	var m *RelayMetrics
	m.ObserveInbound("text", "echo")
	m.ObserveReply(true)
	m.ObserveRouteLatency("text", 0.1)
}

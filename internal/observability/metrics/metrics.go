package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for the webhook relay pipeline.
type RelayMetrics struct {
	inboundTotal *prometheus.CounterVec
	replyTotal   *prometheus.CounterVec
	routeLatency *prometheus.HistogramVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linebot",
			Subsystem: "relay",
			Name:      "inbound_total",
			Help:      "Total inbound LINE messages by kind and outcome",
		}, []string{"kind", "outcome"}),
		replyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linebot",
			Subsystem: "relay",
			Name:      "reply_total",
			Help:      "Total reply sends by status",
		}, []string{"status"}),
		routeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linebot",
			Subsystem: "relay",
			Name:      "route_latency_seconds",
			Help:      "Latency of routing one inbound message to its reply",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.replyTotal, m.routeLatency)
	return m
}

func (m *RelayMetrics) ObserveInbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *RelayMetrics) ObserveReply(ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.replyTotal.WithLabelValues(status).Inc()
}

func (m *RelayMetrics) ObserveRouteLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.routeLatency.WithLabelValues(kind).Observe(seconds)
}

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ticks         prometheus.Counter
	tickDuration  prometheus.Histogram
	commands      *prometheus.CounterVec
	focusRequests *prometheus.CounterVec
	clients       prometheus.Gauge
	droppedFrames prometheus.Counter
}

// NewMetrics registers the server collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orrery",
			Name:      "ticks_total",
			Help:      "Engine ticks executed",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orrery",
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one engine tick",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orrery",
				Name:      "commands_total",
				Help:      "Client commands by action and result",
			},
			[]string{"do", "result"},
		),
		focusRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orrery",
				Name:      "focus_requests_total",
				Help:      "Focus requests by body",
			},
			[]string{"body"},
		),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orrery",
			Name:      "clients",
			Help:      "Connected websocket clients",
		}),
		droppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orrery",
			Name:      "dropped_frames_total",
			Help:      "Frames dropped for slow clients",
		}),
	}

	m.registry.MustRegister(
		m.ticks,
		m.tickDuration,
		m.commands,
		m.focusRequests,
		m.clients,
		m.droppedFrames,
	)
	return m
}

func (m *Metrics) RecordCommand(do string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(do, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

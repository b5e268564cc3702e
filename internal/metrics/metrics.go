// Package metrics exposes Prometheus collectors for the relay and the game sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "negotiation"

// Metrics records relay traffic and game progress. A nil *Metrics is a valid no-op.
type Metrics struct {
	connections    prometheus.Gauge
	frames         *prometheus.CounterVec
	sessions       prometheus.Gauge
	ignored        *prometheus.CounterVec
	rounds         *prometheus.CounterVec
	gamesFinalized prometheus.Counter
	stalls         prometheus.Counter
}

// New registers the collectors on reg, or on the default registry when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "connections",
			Help:      "Open websocket connections",
		}),
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Inbound websocket frames by outcome",
		}, []string{"result"}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Game sessions held in memory",
		}),
		ignored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_ignored_total",
			Help:      "Messages the game dropped, by reason",
		}, []string{"reason"}),
		rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Rounds closed, by phase",
		}, []string{"phase"}),
		gamesFinalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finalized_total",
			Help:      "Games that reached the final round",
		}),
		stalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_stalled_total",
			Help:      "Rounds that waited longer than the stall timeout",
		}),
	}
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// RecordFrame counts an inbound frame as relayed, malformed or readonly.
func (m *Metrics) RecordFrame(result string) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(result).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func (m *Metrics) RecordIgnored(reason string) {
	if m == nil {
		return
	}
	m.ignored.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordRound(phase string) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(phase).Inc()
}

func (m *Metrics) RecordGameFinalized() {
	if m == nil {
		return
	}
	m.gamesFinalized.Inc()
}

func (m *Metrics) RecordStall() {
	if m == nil {
		return
	}
	m.stalls.Inc()
}

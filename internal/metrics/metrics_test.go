package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.RecordFrame("relayed")
	m.RecordFrame("malformed")
	m.RecordFrame("relayed")
	m.RecordRound("normal")
	m.RecordGameFinalized()
	m.SetSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames.WithLabelValues("relayed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesFinalized))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ConnectionOpened()
		m.RecordFrame("relayed")
		m.RecordIgnored("finalized")
		m.RecordStall()
	})
}

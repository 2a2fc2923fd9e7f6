package input

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts coordinator activity.
type Metrics struct {
	gestures   prometheus.Counter
	moves      prometheus.Counter
	throttled  prometheus.Counter
	rebuilds   prometheus.Counter
	hostErrors prometheus.Counter
	moveTime   prometheus.Histogram
}

// NewMetrics creates the coordinator metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gestures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "gestures_total",
			Help:      "Completed movement gestures, one per collapsed undo entry.",
		}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "moves_total",
			Help:      "Accepted movement ticks.",
		}),
		throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "throttled_total",
			Help:      "Movement ticks dropped by the throttle.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "rebuilds_total",
			Help:      "Graph view rebuilds after pseudo-node moves.",
		}),
		hostErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "host_errors_total",
			Help:      "Movement ticks aborted by a host failure.",
		}),
		moveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphnudge",
			Subsystem: "input",
			Name:      "move_duration_seconds",
			Help:      "Time spent applying one movement tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.gestures, m.moves, m.throttled, m.rebuilds, m.hostErrors, m.moveTime)
	}
	return m
}

func (m *Metrics) recordGesture() {
	if m != nil {
		m.gestures.Inc()
	}
}

func (m *Metrics) recordMove(d time.Duration, rebuilt bool) {
	if m == nil {
		return
	}
	m.moves.Inc()
	m.moveTime.Observe(d.Seconds())
	if rebuilt {
		m.rebuilds.Inc()
	}
}

func (m *Metrics) recordThrottled() {
	if m != nil {
		m.throttled.Inc()
	}
}

func (m *Metrics) recordHostError() {
	if m != nil {
		m.hostErrors.Inc()
	}
}

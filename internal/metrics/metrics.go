package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

type Metrics struct {
	Rounds          *prometheus.CounterVec
	Resets          prometheus.Counter
	GestureFailures *prometheus.CounterVec
	Sessions        *prometheus.CounterVec
}

// New - creates the game counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	that := &Metrics{
		Rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rps_rounds_total",
				Help: "Resolved rounds by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		Resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rps_resets_total",
				Help: "Game resets",
			},
		),
		GestureFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rps_gesture_failures_total",
				Help: "Gesture or drop payloads that could not be read",
			},
			[]string{"kind"},
		),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rps_sessions_created_total",
				Help: "Game sessions created by variant",
			},
			[]string{"variant"},
		),
	}

	reg.MustRegister(that.Rounds, that.Resets, that.GestureFailures, that.Sessions)

	return that
}

func (that *Metrics) RoundResolved(variant string, outcome entity.Outcome) {
	that.Rounds.WithLabelValues(variant, string(outcome)).Inc()
}

func (that *Metrics) GameReset() {
	that.Resets.Inc()
}

func (that *Metrics) GestureFailed(kind string) {
	that.GestureFailures.WithLabelValues(kind).Inc()
}

func (that *Metrics) SessionCreated(variant string) {
	that.Sessions.WithLabelValues(variant).Inc()
}

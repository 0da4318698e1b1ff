package flow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/m3rciful/utilbot/core/telegram/state"
)

// Flow outcomes used in metrics and the journal.
const (
	OutcomeOK            = "ok"
	OutcomeUpstreamError = "upstream_error"
	OutcomeUnavailable   = "unavailable"
	OutcomeRejected      = "rejected"
	OutcomeCancelled     = "cancelled"
	OutcomeStale         = "stale"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utilbot_flow_transitions_total",
		Help: "Conversation state transitions by flow",
	}, []string{"flow", "from", "to"})

	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utilbot_flow_outcomes_total",
		Help: "Finished flows and commands by outcome",
	}, []string{"flow", "outcome"})
)

func recordTransition(kind Kind, from, to state.State) {
	transitionsTotal.WithLabelValues(string(kind), string(from), string(to)).Inc()
}

func recordOutcome(kind Kind, outcome string) {
	outcomesTotal.WithLabelValues(string(kind), outcome).Inc()
}

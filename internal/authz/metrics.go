package authz

import "github.com/prometheus/client_golang/prometheus"

// Checkpoint labels for decision metrics.
const (
	CheckpointEdge     = "edge"
	CheckpointLayout   = "layout"
	CheckpointDelivery = "delivery"
)

// Decision outcomes.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionAnon  = "anonymous"
	DecisionFault = "fault"
)

// DecisionMetrics counts authorization decisions per checkpoint.
type DecisionMetrics struct {
	decisions *prometheus.CounterVec
}

// NewDecisionMetrics registers the decision counter on the given
// registerer.
func NewDecisionMetrics(reg prometheus.Registerer) *DecisionMetrics {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_authz_decisions_total",
		Help: "Authorization decisions by checkpoint and outcome.",
	}, []string{"checkpoint", "outcome"})
	if reg != nil {
		reg.MustRegister(decisions)
	}
	return &DecisionMetrics{decisions: decisions}
}

// Observe records one decision. Nil receivers are no-ops so handlers
// can run without metrics wired.
func (m *DecisionMetrics) Observe(checkpoint, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(checkpoint, outcome).Inc()
}

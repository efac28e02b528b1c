package metrics

import (
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacks_lending",
		Subsystem: "coordinator",
		Name:      "submissions_total",
		Help:      "Count of loan operation submissions by terminal status.",
	}, []string{"operation", "network", "status"})

	submissionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stacks_lending",
		Subsystem: "coordinator",
		Name:      "submission_duration_seconds",
		Help:      "Time from accepting a submission to its terminal status.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
	}, []string{"operation", "network", "status"})

	submissionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacks_lending",
		Subsystem: "coordinator",
		Name:      "submissions_rejected_total",
		Help:      "Count of submissions rejected because another one was pending.",
	}, []string{"operation", "network"})

	submissionsPending = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stacks_lending",
		Subsystem: "coordinator",
		Name:      "submission_pending",
		Help:      "1 while a submission is waiting for the wallet gateway.",
	}, []string{"network"})
)

// Coordinator tracks metrics for the submission coordinator.
type Coordinator struct {
	network model.Network
}

// NewCoordinator constructs a metrics collector for the submission coordinator.
func NewCoordinator(network model.Network) *Coordinator {
	if network == "" {
		network = "unknown"
	}
	return &Coordinator{network: network}
}

// ObserveSubmission records a submission that reached status.
func (m Coordinator) ObserveSubmission(operation model.Operation, status model.Status, started time.Time) {
	submissionsTotal.WithLabelValues(string(operation), string(m.network), string(status)).Inc()
	submissionDuration.WithLabelValues(string(operation), string(m.network), string(status)).Observe(time.Since(started).Seconds())
}

// ObserveRejected records a submission refused while another was pending.
func (m Coordinator) ObserveRejected(operation model.Operation) {
	submissionsRejectedTotal.WithLabelValues(string(operation), string(m.network)).Inc()
}

// SetPending toggles the pending gauge.
func (m Coordinator) SetPending(pending bool) {
	v := 0.0
	if pending {
		v = 1
	}
	submissionsPending.WithLabelValues(string(m.network)).Set(v)
}

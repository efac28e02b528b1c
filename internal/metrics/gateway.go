// Package metrics exposes application metrics collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stacks_lending",
		Subsystem: "gateway",
		Name:      "operations_total",
		Help:      "Count of wallet gateway operations.",
	}, []string{"operation", "network", "status"})
	gatewayOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stacks_lending",
		Subsystem: "gateway",
		Name:      "operation_duration_seconds",
		Help:      "Duration of wallet gateway operations, including time spent waiting for the wallet owner.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms..~7m
	}, []string{"operation", "network", "status"})
)

// Gateway tracks metrics for calls into the wallet gateway.
type Gateway struct {
	network model.Network
}

// NewGateway constructs a metrics collector for gateway calls.
func NewGateway(network model.Network) *Gateway {
	if network == "" {
		network = "unknown"
	}
	return &Gateway{network: network}
}

// Observe records a single gateway call outcome and duration.
func (m Gateway) Observe(operation string, err error, started time.Time) {
	status := "success"
	switch {
	case errors.Is(err, model.ErrCancelled):
		status = "cancelled"
	case err != nil:
		status = "error"
	}

	gatewayOperationsTotal.WithLabelValues(operation, string(m.network), status).Inc()
	gatewayOperationDuration.WithLabelValues(operation, string(m.network), status).Observe(time.Since(started).Seconds())
}

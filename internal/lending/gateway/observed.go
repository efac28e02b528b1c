package gateway

import (
	"context"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

// Observed wraps a Gateway with metrics instrumentation.
type Observed struct {
	gateway Gateway
	metrics Metrics
}

// NewObserved constructs an instrumented gateway.
func NewObserved(gateway Gateway, metrics Metrics) *Observed {
	return &Observed{
		gateway: gateway,
		metrics: metrics,
	}
}

// Connect asks the wallet for an account address.
func (o *Observed) Connect(ctx context.Context) (address string, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("connect", err, started)
	}()
	return o.gateway.Connect(ctx)
}

// Submit asks the wallet to sign and broadcast call.
func (o *Observed) Submit(ctx context.Context, call model.ContractCall) (txID string, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("submit", err, started)
	}()
	return o.gateway.Submit(ctx, call)
}

// Package gateway talks to the wallet that signs and broadcasts contract calls.
package gateway

import (
	"context"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// ErrCancelled is returned when the wallet owner declines a request.
var ErrCancelled = model.ErrCancelled

type (
	// Gateway connects a wallet account and submits signed contract calls.
	Gateway interface {
		Connect(ctx context.Context) (string, error)
		Submit(ctx context.Context, call model.ContractCall) (string, error)
	}
	// Metrics records metrics for gateway calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Package coordinator drives loan operations through the wallet gateway, one submission at a time.
package coordinator

import (
	"context"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Gateway signs and broadcasts contract calls on behalf of the wallet owner.
	Gateway interface {
		Connect(ctx context.Context) (string, error)
		Submit(ctx context.Context, call model.ContractCall) (string, error)
	}
	// Session receives the connected account and the transactions that went through.
	Session interface {
		Connect(address string)
		RecordTransaction(id string)
	}
	// Metrics records metrics for submissions.
	Metrics interface {
		ObserveSubmission(operation model.Operation, status model.Status, started time.Time)
		ObserveRejected(operation model.Operation)
		SetPending(pending bool)
	}
)

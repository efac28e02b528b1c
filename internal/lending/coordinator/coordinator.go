package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/amount"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/stacks"
	"go.uber.org/zap"
)

var (
	// ErrSubmissionInFlight is returned while a previous submission is still pending.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrUnknownOperation is returned for an operation the lending contract does not expose.
	ErrUnknownOperation = errors.New("unknown loan operation")
)

// Request is a loan operation with its raw user input. Loan is read for request-loan, Ref for
// fund-loan and repay-loan.
type Request struct {
	Operation model.Operation
	Loan      model.LoanRequestParams
	Ref       model.LoanReference
}

// Coordinator validates loan operations, hands them to the gateway and tracks the outcome of the
// current submission. At most one submission is pending at any time.
type Coordinator struct {
	gateway Gateway
	session Session
	metrics Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	current model.Outcome
}

// New wires a coordinator. The current outcome starts idle.
func New(gateway Gateway, session Session, metrics Metrics, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		gateway: gateway,
		session: session,
		metrics: metrics,
		logger:  logger.Named("coordinator"),
		current: model.Outcome{Status: model.StatusIdle},
	}
}

// RequestLoan submits request-loan with [principal, interest, duration].
func (c *Coordinator) RequestLoan(ctx context.Context, params model.LoanRequestParams) (model.Outcome, error) {
	return c.Submit(ctx, Request{Operation: model.RequestLoan, Loan: params})
}

// FundLoan submits fund-loan for the referenced loan.
func (c *Coordinator) FundLoan(ctx context.Context, ref model.LoanReference) (model.Outcome, error) {
	return c.Submit(ctx, Request{Operation: model.FundLoan, Ref: ref})
}

// RepayLoan submits repay-loan for the referenced loan.
func (c *Coordinator) RepayLoan(ctx context.Context, ref model.LoanReference) (model.Outcome, error) {
	return c.Submit(ctx, Request{Operation: model.RepayLoan, Ref: ref})
}

// Submit runs req to a terminal outcome. Gateway failures end in a failed outcome and are not
// returned as errors.
func (c *Coordinator) Submit(ctx context.Context, req Request) (model.Outcome, error) {
	_, done, err := c.SubmitAsync(ctx, req)
	if err != nil {
		return model.Outcome{}, err
	}
	return <-done, nil
}

// SubmitAsync starts req and returns the outcome it entered with. The channel delivers the final
// outcome exactly once; for input that never reaches the gateway it is already filled.
//
// Empty input is ignored: the returned outcome is idle and the current outcome is left as is.
// Malformed input ends in a failed outcome without calling the gateway.
func (c *Coordinator) SubmitAsync(ctx context.Context, req Request) (model.Outcome, <-chan model.Outcome, error) {
	if !known(req.Operation) {
		return model.Outcome{}, nil, fmt.Errorf("%w %q", ErrUnknownOperation, req.Operation)
	}

	done := make(chan model.Outcome, 1)
	if req.empty() {
		out := model.Outcome{Operation: req.Operation, Status: model.StatusIdle}
		done <- out
		return out, done, nil
	}

	started := time.Now()
	call, encodeErr := req.encode()

	c.mu.Lock()
	if c.current.Status == model.StatusPending {
		c.mu.Unlock()
		c.metrics.ObserveRejected(req.Operation)
		return model.Outcome{}, nil, fmt.Errorf("%s: %w", req.Operation, ErrSubmissionInFlight)
	}

	if encodeErr != nil {
		out := model.Outcome{Operation: req.Operation, Status: model.StatusFailed, Err: encodeErr}
		c.current = out
		c.mu.Unlock()

		c.logger.Info("rejected malformed input", zap.String("operation", string(req.Operation)), zap.Error(encodeErr))
		c.metrics.ObserveSubmission(req.Operation, model.StatusFailed, started)
		done <- out
		return out, done, nil
	}

	pending := model.Outcome{Operation: req.Operation, Status: model.StatusPending}
	c.current = pending
	c.metrics.SetPending(true)
	c.mu.Unlock()

	go func() {
		done <- c.resolve(ctx, call, started)
	}()
	return pending, done, nil
}

// Current returns the outcome of the latest submission.
func (c *Coordinator) Current() model.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Connect asks the gateway for an account and records it in the session. A declined request or a
// wallet without accounts reports false with no error.
func (c *Coordinator) Connect(ctx context.Context) (model.Account, bool, error) {
	address, err := c.gateway.Connect(ctx)
	if err != nil {
		if cancelled(err) {
			c.logger.Info("wallet connect declined")
			return model.Account{}, false, nil
		}
		return model.Account{}, false, fmt.Errorf("connect wallet: %w", err)
	}
	if address == "" {
		return model.Account{}, false, nil
	}

	addr, err := stacks.ParseAddress(address)
	if err != nil {
		return model.Account{}, false, fmt.Errorf("connect wallet: %w", err)
	}

	account := model.Account{Address: addr.String()}
	c.session.Connect(account.Address)
	c.logger.Info("wallet connected", zap.String("address", account.Address))
	return account, true, nil
}

func (c *Coordinator) resolve(ctx context.Context, call model.ContractCall, started time.Time) model.Outcome {
	log := c.logger.With(zap.String("operation", string(call.Operation)), zap.Uint64s("args", call.Args))

	out := model.Outcome{Operation: call.Operation}
	txID, err := c.gateway.Submit(ctx, call)
	switch {
	case err == nil && txID != "":
		out.Status = model.StatusSucceeded
		out.TxID = txID
		c.session.RecordTransaction(txID)
		log.Info("transaction submitted", zap.String("tx_id", txID))
	case err == nil:
		out.Status = model.StatusFailed
		log.Error("gateway returned empty transaction id")
	case cancelled(err):
		out.Status = model.StatusCancelled
		log.Info("submission cancelled", zap.Error(err))
	default:
		out.Status = model.StatusFailed
		log.Error("gateway submission failed", zap.Error(err))
	}

	c.mu.Lock()
	c.current = out
	c.metrics.SetPending(false)
	c.mu.Unlock()

	c.metrics.ObserveSubmission(call.Operation, out.Status, started)
	return out
}

func (r Request) empty() bool {
	if r.Operation == model.RequestLoan {
		return r.Loan.Principal == ""
	}
	return r.Ref.LoanID == ""
}

func (r Request) encode() (model.ContractCall, error) {
	call := model.ContractCall{Operation: r.Operation}
	if r.Operation != model.RequestLoan {
		id, err := amount.EncodeInteger(r.Ref.LoanID)
		if err != nil {
			return model.ContractCall{}, fmt.Errorf("loan id: %w", err)
		}
		call.Args = []uint64{id}
		return call, nil
	}

	principal, err := amount.EncodePrincipal(r.Loan.Principal)
	if err != nil {
		return model.ContractCall{}, fmt.Errorf("principal: %w", err)
	}
	interest, err := amount.EncodeInteger(r.Loan.InterestRate)
	if err != nil {
		return model.ContractCall{}, fmt.Errorf("interest rate: %w", err)
	}
	duration, err := amount.EncodeInteger(r.Loan.DurationBlocks)
	if err != nil {
		return model.ContractCall{}, fmt.Errorf("duration: %w", err)
	}
	call.Args = []uint64{principal, interest, duration}
	return call, nil
}

func known(op model.Operation) bool {
	switch op {
	case model.RequestLoan, model.FundLoan, model.RepayLoan:
		return true
	}
	return false
}

func cancelled(err error) bool {
	return errors.Is(err, model.ErrCancelled) || errors.Is(err, context.Canceled)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/bootstrap"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/display"
	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

var errNoAccount = errors.New("wallet did not share an account")

// environment is shared by every command. opts is filled by the parser before a command runs.
type environment struct {
	ctx    context.Context
	logger *zap.Logger
	out    io.Writer
	opts   bootstrap.Options
}

type connectCommand struct {
	env *environment
}

type requestLoanCommand struct {
	Amount   string `long:"amount" description:"principal in STX, for example 1.5"`
	Interest string `long:"interest" description:"interest rate in percent" default:"10"`
	Duration string `long:"duration" description:"loan duration in blocks" default:"144"`

	env *environment
}

type fundLoanCommand struct {
	LoanID string `long:"loan-id" description:"id of the loan to fund"`

	env *environment
}

type repayLoanCommand struct {
	LoanID string `long:"loan-id" description:"id of the loan to repay"`

	env *environment
}

func (c *connectCommand) Execute([]string) error {
	app, err := c.env.connect()
	if err != nil {
		return err
	}
	v := app.View()
	_, err = fmt.Fprintf(c.env.out, "account: %s\n", v.Account)
	return err
}

func (c *requestLoanCommand) Execute([]string) error {
	return c.env.submit(func(ctx context.Context, app *bootstrap.App) (model.Outcome, error) {
		return app.Coordinator.RequestLoan(ctx, model.LoanRequestParams{
			Principal:      c.Amount,
			InterestRate:   c.Interest,
			DurationBlocks: c.Duration,
		})
	})
}

func (c *fundLoanCommand) Execute([]string) error {
	return c.env.submit(func(ctx context.Context, app *bootstrap.App) (model.Outcome, error) {
		return app.Coordinator.FundLoan(ctx, model.LoanReference{LoanID: c.LoanID})
	})
}

func (c *repayLoanCommand) Execute([]string) error {
	return c.env.submit(func(ctx context.Context, app *bootstrap.App) (model.Outcome, error) {
		return app.Coordinator.RepayLoan(ctx, model.LoanReference{LoanID: c.LoanID})
	})
}

func (e *environment) connect() (*bootstrap.App, error) {
	app, err := bootstrap.Build(e.opts, e.logger)
	if err != nil {
		return nil, fmt.Errorf("init lending client: %w", err)
	}
	_, ok, err := app.Coordinator.Connect(e.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoAccount
	}
	return app, nil
}

func (e *environment) submit(op func(context.Context, *bootstrap.App) (model.Outcome, error)) error {
	app, err := e.connect()
	if err != nil {
		return err
	}

	out, err := op(e.ctx, app)
	if err != nil {
		return err
	}
	return report(e.out, out, app.View())
}

func report(w io.Writer, out model.Outcome, v display.View) error {
	switch out.Status {
	case model.StatusIdle:
		_, err := fmt.Fprintln(w, "nothing to submit")
		return err
	case model.StatusSucceeded:
		_, err := fmt.Fprintf(w, "%s submitted by %s\ntx: %s\n%s\n", out.Operation, v.AccountShort, out.TxID, v.TxLink)
		return err
	case model.StatusFailed:
		if out.Err != nil {
			return fmt.Errorf("%s: %w", out.Operation, out.Err)
		}
		return fmt.Errorf("%s failed", out.Operation)
	default:
		return fmt.Errorf("%s %s", out.Operation, out.Status)
	}
}

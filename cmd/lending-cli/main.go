package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	env := &environment{ctx: ctx, logger: logger, out: os.Stdout}
	parser := flags.NewParser(&env.opts, flags.Default)
	if err := addCommands(parser, env); err != nil {
		logger.Fatal("failed to register commands", zap.Error(err))
	}

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				return
			}
			os.Exit(2)
		}
		logger.Fatal("lending cli failed", zap.Error(err))
	}
}

func addCommands(parser *flags.Parser, env *environment) error {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"connect", "Connect a wallet account", "Asks the wallet to share an account and prints it.", &connectCommand{env: env}},
		{"request-loan", "Request a loan", "Submits request-loan with the principal, the interest rate and the duration.", &requestLoanCommand{env: env}},
		{"fund-loan", "Fund a loan", "Submits fund-loan for an existing loan.", &fundLoanCommand{env: env}},
		{"repay-loan", "Repay a loan", "Submits repay-loan for an existing loan.", &repayLoanCommand{env: env}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}
	return nil
}

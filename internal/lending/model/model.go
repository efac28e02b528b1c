// Package model holds the types shared by the lending client components.
package model

import "errors"

// ErrCancelled reports that the wallet owner declined to sign.
var ErrCancelled = errors.New("cancelled by wallet")

// Operation names a public function of the lending contract.
type Operation string

const (
	RequestLoan Operation = "request-loan"
	FundLoan    Operation = "fund-loan"
	RepayLoan   Operation = "repay-loan"
)

// Status is the lifecycle state of a submission.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition follows s.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusCancelled || s == StatusFailed
}

// Network is the Stacks network a client talks to.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Account is the connected wallet account.
type Account struct {
	Address string
}

// LoanRequestParams is the raw user input of a loan request.
type LoanRequestParams struct {
	Principal      string
	InterestRate   string
	DurationBlocks string
}

// LoanReference identifies an existing loan by its raw user input.
type LoanReference struct {
	LoanID string
}

// ContractCall is an encoded loan operation ready for signing.
type ContractCall struct {
	Operation Operation
	Args      []uint64
}

// Outcome is the observable result of a submission.
type Outcome struct {
	Operation Operation
	Status    Status
	TxID      string
	Err       error
}

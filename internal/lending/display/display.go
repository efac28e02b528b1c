// Package display projects the session and the current submission into what the user sees.
package display

import (
	"fmt"
	"net/url"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

const (
	DefaultExplorerURL = "https://explorer.hiro.so"
	DefaultChain       = "mainnet"

	shortPrefix = 12
	shortSuffix = 6
)

// Explorer renders transaction links for a block explorer.
type Explorer struct {
	base  *url.URL
	chain string
}

// NewExplorer parses baseURL. An empty chain falls back to mainnet.
func NewExplorer(baseURL, chain string) (*Explorer, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse explorer url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("explorer url %q must be absolute", baseURL)
	}
	if chain == "" {
		chain = DefaultChain
	}
	return &Explorer{base: base, chain: chain}, nil
}

// TxLink returns the explorer page of a transaction, or "" for an empty id.
func (e *Explorer) TxLink(txID string) string {
	if txID == "" {
		return ""
	}
	link := e.base.JoinPath("txid", txID)
	link.RawQuery = url.Values{"chain": []string{e.chain}}.Encode()
	return link.String()
}

// ShortAddress keeps the first 12 and last 6 characters of an address.
func ShortAddress(address string) string {
	if len(address) <= shortPrefix+shortSuffix {
		return address
	}
	return address[:shortPrefix] + "..." + address[len(address)-shortSuffix:]
}

// SessionReader is the read side of the session.
type SessionReader interface {
	CurrentAccount() (model.Account, bool)
	LastTransaction() (string, bool)
}

// View is the read-only state rendered to the user.
type View struct {
	Connected    bool            `json:"connected"`
	Account      string          `json:"account,omitempty"`
	AccountShort string          `json:"accountShort,omitempty"`
	Busy         bool            `json:"busy"`
	Operation    model.Operation `json:"operation,omitempty"`
	Status       model.Status    `json:"status"`
	TxID         string          `json:"txId,omitempty"`
	TxLink       string          `json:"txLink,omitempty"`
}

// Project builds the view. Errors carried by the outcome are not part of it.
func Project(session SessionReader, current model.Outcome, explorer *Explorer) View {
	v := View{
		Busy:      current.Status == model.StatusPending,
		Operation: current.Operation,
		Status:    current.Status,
	}
	if v.Status == "" {
		v.Status = model.StatusIdle
	}
	if acc, ok := session.CurrentAccount(); ok {
		v.Connected = true
		v.Account = acc.Address
		v.AccountShort = ShortAddress(acc.Address)
	}
	if txID, ok := session.LastTransaction(); ok {
		v.TxID = txID
		v.TxLink = explorer.TxLink(txID)
	}
	return v
}

// Package session tracks the connected account and the latest submitted transaction.
package session

import (
	"sync/atomic"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

// State holds the session values. Writes replace whole values so readers never see a partial update.
type State struct {
	account atomic.Pointer[model.Account]
	lastTx  atomic.Pointer[string]
}

// New returns an empty session with no account and no transaction.
func New() *State {
	return &State{}
}

// Connect records address as the active account, replacing any previous one.
func (s *State) Connect(address string) {
	s.account.Store(&model.Account{Address: address})
}

// CurrentAccount returns the active account if one is connected.
func (s *State) CurrentAccount() (model.Account, bool) {
	acc := s.account.Load()
	if acc == nil {
		return model.Account{}, false
	}
	return *acc, true
}

// RecordTransaction stores id as the most recent transaction.
func (s *State) RecordTransaction(id string) {
	s.lastTx.Store(&id)
}

// LastTransaction returns the most recent transaction id if any.
func (s *State) LastTransaction() (string, bool) {
	id := s.lastTx.Load()
	if id == nil {
		return "", false
	}
	return *id, true
}

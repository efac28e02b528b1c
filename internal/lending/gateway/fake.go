package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/stacks-lending/internal/lending/model"
)

// Fake approves every request without a wallet. Transaction ids are derived from the call so
// repeated calls with the same arguments yield the same id.
type Fake struct {
	Address string
}

// Connect returns the configured address.
func (f Fake) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Address, nil
}

// Submit hashes the call into a transaction id.
func (f Fake) Submit(ctx context.Context, call model.ContractCall) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if call.Operation == "" {
		return "", errors.New("missing operation")
	}

	parts := make([]string, 0, len(call.Args)+2)
	parts = append(parts, f.Address, string(call.Operation))
	for _, arg := range call.Args {
		parts = append(parts, strconv.FormatUint(arg, 10))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return "0x" + hex.EncodeToString(sum[:]), nil
}

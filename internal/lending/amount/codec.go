// Package amount converts user input into the integer encoding of the lending contract.
package amount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseUnitsPerSTX is the number of base units in one display unit.
const BaseUnitsPerSTX = 1_000_000

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidInteger = errors.New("invalid integer")
)

// maxIntegerDigits bounds the integer digits of a principal. Anything longer overflows uint64
// once scaled, so it is rejected before any rescaling arithmetic.
const maxIntegerDigits = 20

var (
	scale      = decimal.NewFromInt(BaseUnitsPerSTX)
	maxEncoded = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
)

// EncodePrincipal converts a decimal amount into base units, dropping any fractional remainder.
func EncodePrincipal(text string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidAmount, text, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w %q: negative", ErrInvalidAmount, text)
	}
	if d.IsZero() {
		return 0, nil
	}

	// value = coefficient * 10^exponent, so its integer part has digits+exponent digits
	digits := int64(len(d.Coefficient().String())) + int64(d.Exponent())
	if digits > maxIntegerDigits {
		return 0, fmt.Errorf("%w %q: exceeds uint64 range", ErrInvalidAmount, text)
	}
	if digits < -6 {
		return 0, nil
	}

	units := d.Mul(scale).Floor()
	if units.GreaterThan(maxEncoded) {
		return 0, fmt.Errorf("%w %q: exceeds uint64 range", ErrInvalidAmount, text)
	}
	return units.BigInt().Uint64(), nil
}

// EncodeInteger parses a non-negative base-10 integer.
func EncodeInteger(text string) (uint64, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "-") {
		return 0, fmt.Errorf("%w %q: negative", ErrInvalidInteger, text)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(trimmed, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidInteger, text, err)
	}
	return v, nil
}

// Package stacks parses Stacks account addresses and contract identifiers.
package stacks

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

	hash160Size  = 20
	checksumSize = 4
)

// Address versions used on mainnet and testnet.
const (
	VersionMainnetSingleSig byte = 22
	VersionMainnetMultiSig  byte = 20
	VersionTestnetSingleSig byte = 26
	VersionTestnetMultiSig  byte = 21
)

var ErrInvalidAddress = errors.New("invalid stacks address")

// Address is a decoded c32check account address.
type Address struct {
	Version byte
	Hash160 [hash160Size]byte
}

// ParseAddress decodes s and verifies its checksum.
func ParseAddress(s string) (Address, error) {
	normalized := normalize(s)
	if len(normalized) < 3 || normalized[0] != 'S' {
		return Address{}, fmt.Errorf("%w %q: missing S prefix", ErrInvalidAddress, s)
	}

	version := strings.IndexByte(c32Alphabet, normalized[1])
	if version < 0 {
		return Address{}, fmt.Errorf("%w %q: bad version character", ErrInvalidAddress, s)
	}
	if !knownVersion(byte(version)) {
		return Address{}, fmt.Errorf("%w %q: unknown version %d", ErrInvalidAddress, s, version)
	}

	payload, err := c32Decode(normalized[2:])
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %w", ErrInvalidAddress, s, err)
	}
	if len(payload) != hash160Size+checksumSize {
		return Address{}, fmt.Errorf("%w %q: payload is %d bytes", ErrInvalidAddress, s, len(payload))
	}

	addr := Address{Version: byte(version)}
	copy(addr.Hash160[:], payload[:hash160Size])
	if !bytes.Equal(addr.checksum(), payload[hash160Size:]) {
		return Address{}, fmt.Errorf("%w %q: checksum mismatch", ErrInvalidAddress, s)
	}
	return addr, nil
}

// String renders the address in c32check form.
func (a Address) String() string {
	payload := append(a.Hash160[:], a.checksum()...)
	return "S" + string(c32Alphabet[a.Version&0x1f]) + c32Encode(payload)
}

// Mainnet reports whether the address belongs to mainnet.
func (a Address) Mainnet() bool {
	return a.Version == VersionMainnetSingleSig || a.Version == VersionMainnetMultiSig
}

func (a Address) checksum() []byte {
	data := make([]byte, 0, 1+hash160Size)
	data = append(data, a.Version)
	data = append(data, a.Hash160[:]...)
	return chainhash.DoubleHashB(data)[:checksumSize]
}

func knownVersion(v byte) bool {
	switch v {
	case VersionMainnetSingleSig, VersionMainnetMultiSig, VersionTestnetSingleSig, VersionTestnetMultiSig:
		return true
	}
	return false
}

// normalize applies the c32 substitutions for characters that are easy to confuse.
func normalize(s string) string {
	return strings.NewReplacer("O", "0", "L", "1", "I", "1").Replace(strings.ToUpper(strings.TrimSpace(s)))
}

// c32Encode renders data as a base-32 number, keeping one leading zero digit per leading zero byte.
func c32Encode(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(32)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, c32Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		digits = append(digits, c32Alphabet[0])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

func c32Decode(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == c32Alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	base := big.NewInt(32)
	for i := zeros; i < len(s); i++ {
		idx := strings.IndexByte(c32Alphabet, s[i])
		if idx < 0 {
			return nil, fmt.Errorf("invalid c32 character %q", s[i])
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(idx)))
	}
	return append(make([]byte, zeros), n.Bytes()...), nil
}

package stacks

import (
	"fmt"
	"regexp"
	"strings"
)

var contractNamePattern = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9]|[-_])*$`)

const maxContractNameLength = 128

// ContractID identifies a deployed Clarity contract as "<address>.<name>".
type ContractID struct {
	Address Address
	Name    string
}

// ParseContractID parses a fully qualified contract identifier.
func ParseContractID(s string) (ContractID, error) {
	addrPart, name, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return ContractID{}, fmt.Errorf("contract id %q: missing contract name", s)
	}
	addr, err := ParseAddress(addrPart)
	if err != nil {
		return ContractID{}, fmt.Errorf("contract id %q: %w", s, err)
	}
	if len(name) > maxContractNameLength || !contractNamePattern.MatchString(name) {
		return ContractID{}, fmt.Errorf("contract id %q: invalid contract name %q", s, name)
	}
	return ContractID{Address: addr, Name: name}, nil
}

func (c ContractID) String() string {
	return c.Address.String() + "." + c.Name
}

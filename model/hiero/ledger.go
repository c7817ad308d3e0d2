package hiero

import (
	"fmt"
	"strings"
)

// LedgerID identifies the network an entity ID belongs to. It is mixed into
// entity ID checksums so that an ID copied from one network fails validation
// on another.
type LedgerID uint8

const (
	Mainnet    LedgerID = 0
	Testnet    LedgerID = 1
	Previewnet LedgerID = 2
	LocalNode  LedgerID = 3
)

// ParseLedgerID accepts a network name or its single byte hex form.
func ParseLedgerID(s string) (LedgerID, error) {
	switch strings.ToLower(s) {
	case "mainnet", "00":
		return Mainnet, nil
	case "testnet", "01":
		return Testnet, nil
	case "previewnet", "02":
		return Previewnet, nil
	case "local-node", "03":
		return LocalNode, nil
	}
	return 0, fmt.Errorf("%w: unknown ledger %q", ErrInvalidFormat, s)
}

// Bytes returns the ledger ID as used by the checksum algorithm.
func (l LedgerID) Bytes() []byte {
	return []byte{byte(l)}
}

func (l LedgerID) String() string {
	switch l {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Previewnet:
		return "previewnet"
	case LocalNode:
		return "local-node"
	}
	return fmt.Sprintf("%02x", byte(l))
}

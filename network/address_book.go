package network

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// AddressBook maps node accounts to the gRPC address they are reached at.
type AddressBook struct {
	nodes     []hiero.AccountID
	addresses map[hiero.AccountID]string
}

// NewAddressBook builds an address book from gRPC addresses and the account
// of the node listening on each. Every node must have a single address.
func NewAddressBook(addresses map[string]hiero.AccountID) (*AddressBook, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("address book must contain at least one node")
	}

	book := &AddressBook{
		nodes:     make([]hiero.AccountID, 0, len(addresses)),
		addresses: make(map[hiero.AccountID]string, len(addresses)),
	}
	for address, account := range addresses {
		node := account.WithoutChecksum()
		if existing, ok := book.addresses[node]; ok {
			return nil, fmt.Errorf("node %s is listed at both %s and %s", node, existing, address)
		}
		book.addresses[node] = address
		book.nodes = append(book.nodes, node)
	}
	slices.SortFunc(book.nodes, func(a, b hiero.AccountID) int {
		return a.Compare(b)
	})

	return book, nil
}

// Address returns the gRPC address of node.
func (b *AddressBook) Address(node hiero.AccountID) (string, error) {
	address, ok := b.addresses[node.WithoutChecksum()]
	if !ok {
		return "", NewUnknownNodeError(node)
	}
	return address, nil
}

// Nodes returns the node accounts ordered by ID.
func (b *AddressBook) Nodes() []hiero.AccountID {
	return slices.Clone(b.nodes)
}

func (b *AddressBook) Len() int {
	return len(b.nodes)
}

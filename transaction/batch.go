package transaction

import (
	"github.com/ledgerworks/hashgraph-go/crypto"
)

// Batchify prepares the transaction to be an inner transaction of a batch
// signed by batchKey. The transaction is pinned to the reserved zero node,
// frozen and signed by the network operator. A batchified transaction can no
// longer be executed on its own.
func (t *Transaction) Batchify(network Network, batchKey crypto.PublicKey) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if batchKey == nil {
		return NewPreconditionError("batch key must be set")
	}
	t.batchKey = batchKey
	return t.SignWithOperator(network)
}

// IsBatchified returns whether the transaction carries a batch key.
func (t *Transaction) IsBatchified() bool {
	return t.batchKey != nil
}

package transaction

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// SignableNodeBody is the exact body prepared for one node and transaction
// ID, as it must be signed.
type SignableNodeBody struct {
	NodeID        hiero.AccountID
	TransactionID hiero.TransactionID
	Body          []byte
}

func (t *Transaction) currentCell() int {
	return t.matrix.cell(t.transactionIDs.index, t.nodeAccountIDs.index)
}

// GetTransactionHash returns the hash of the envelope sent to the current
// node.
func (t *Transaction) GetTransactionHash() ([]byte, error) {
	if err := t.requireFrozen(); err != nil {
		return nil, err
	}
	t.lockIDs()

	envelope, err := t.buildCell(t.currentCell())
	if err != nil {
		return nil, err
	}
	return crypto.Hash(envelope.GetSignedTransactionBytes()), nil
}

// GetTransactionHashPerNode returns the hash of the envelope prepared for
// each node, for the current transaction ID.
func (t *Transaction) GetTransactionHashPerNode() (map[hiero.AccountID][]byte, error) {
	if err := t.requireFrozen(); err != nil {
		return nil, err
	}
	if err := t.buildAll(); err != nil {
		return nil, err
	}
	t.lockIDs()
	return t.hashesOfRow(t.transactionIDs.index), nil
}

func (t *Transaction) hashesOfRow(row int) map[hiero.AccountID][]byte {
	hashes := make(map[hiero.AccountID][]byte, t.nodeAccountIDs.len())
	for i, node := range t.nodeAccountIDs.items {
		envelope := t.matrix.built[t.matrix.cell(row, i)]
		hashes[node.WithoutChecksum()] = crypto.Hash(envelope.GetSignedTransactionBytes())
	}
	return hashes
}

// GetTransactionSize returns the encoded size of the envelope sent to the
// current node, signatures included.
func (t *Transaction) GetTransactionSize() (int, error) {
	if !t.IsFrozen() {
		return 0, NewPreconditionError("transaction must have been frozen before getting its size, try calling Freeze")
	}
	envelope, err := t.buildCell(t.currentCell())
	if err != nil {
		return 0, err
	}
	return proto.Size(envelope), nil
}

// GetTransactionBodySize returns the size of the body prepared for the
// current node.
func (t *Transaction) GetTransactionBodySize() (int, error) {
	if !t.IsFrozen() {
		return 0, NewPreconditionError("transaction must have been frozen before getting its body size, try calling Freeze")
	}
	return len(t.matrix.bodies[t.currentCell()]), nil
}

// SignableNodeBodies returns every body of the transaction along with the node
// and transaction ID it is prepared for.
func (t *Transaction) SignableNodeBodies() ([]SignableNodeBody, error) {
	if !t.IsFrozen() {
		return nil, NewPreconditionError("transaction must have been frozen before getting signable bodies, try calling Freeze")
	}

	bodies := make([]SignableNodeBody, 0, t.matrix.len())
	for row := 0; row < t.matrix.rows(); row++ {
		var id hiero.TransactionID
		if row < t.transactionIDs.len() {
			id = t.transactionIDs.items[row]
		}
		for i, node := range t.nodeAccountIDs.items {
			bodies = append(bodies, SignableNodeBody{
				NodeID:        node,
				TransactionID: id,
				Body:          t.matrix.bodies[t.matrix.cell(row, i)],
			})
		}
	}
	return bodies, nil
}

// SignableBody returns the body prepared for the given node and transaction
// ID.
func (t *Transaction) SignableBody(id hiero.TransactionID, node hiero.AccountID) ([]byte, error) {
	bodies, err := t.SignableNodeBodies()
	if err != nil {
		return nil, err
	}
	for _, body := range bodies {
		if body.TransactionID.Equal(id) && body.NodeID.Equal(node) {
			return body.Body, nil
		}
	}
	return nil, fmt.Errorf("transaction is not prepared for transaction ID %s and node %s", id, node)
}

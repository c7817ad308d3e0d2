package transaction

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// KeySignature is a signature together with the key that made it.
type KeySignature struct {
	PublicKey crypto.PublicKey
	Signature []byte
}

// SignatureMap holds the signatures of the body prepared for each node.
type SignatureMap map[hiero.AccountID][]KeySignature

// Sign registers key to sign every body of the transaction.
func (t *Transaction) Sign(key crypto.PrivateKey) error {
	return t.SignWith(key.PublicKey(), key.Sign)
}

// SignWith registers a signer producing signatures for key. Bodies are signed
// lazily when they are needed; registering a key twice does nothing.
func (t *Transaction) SignWith(key crypto.PublicKey, signer Signer) error {
	if !t.IsFrozen() {
		return NewPreconditionError("signing requires transaction to be frozen")
	}
	if t.keyAlreadySigned(key) {
		return nil
	}

	t.matrix.invalidate()
	t.publicKeys = append(t.publicKeys, key)
	t.signers = append(t.signers, localSigner{sign: signer})
	return nil
}

// SignWithOperator freezes the transaction with the network if needed and
// signs it with the network operator.
func (t *Transaction) SignWithOperator(network Network) error {
	operator := network.Operator()
	if operator == nil {
		return NewPreconditionError("network must have an operator to sign with the operator")
	}
	if err := t.FreezeWith(network); err != nil {
		return err
	}
	return t.SignWith(operator.PublicKey, operator.Signer)
}

func (t *Transaction) keyAlreadySigned(key crypto.PublicKey) bool {
	for _, existing := range t.publicKeys {
		if crypto.KeysEqual(existing, key) {
			return true
		}
	}
	return false
}

// AddSignature attaches a signature made outside of this transaction. The
// transaction must be prepared for exactly one node; it is frozen if needed
// and its IDs can no longer be regenerated.
func (t *Transaction) AddSignature(key crypto.PublicKey, signature []byte) error {
	if t.nodeAccountIDs.len() != 1 {
		return NewPreconditionError("transaction did not have exactly one node ID set")
	}
	if err := t.Freeze(); err != nil {
		return err
	}
	if t.keyAlreadySigned(key) {
		return nil
	}

	t.lockIDs()
	t.matrix.invalidate()
	t.publicKeys = append(t.publicKeys, key)
	t.signers = append(t.signers, externalSignature{})
	t.matrix.addSignature(0, convert.SignaturePairToMessage(key, signature))
	return nil
}

// AddSignatureFor attaches a signature made outside of this transaction to
// the body prepared for the given transaction ID and node.
func (t *Transaction) AddSignatureFor(key crypto.PublicKey, signature []byte, id hiero.TransactionID, node hiero.AccountID) error {
	if err := t.Freeze(); err != nil {
		return err
	}

	matched := false
	for cell := 0; cell < t.matrix.len(); cell++ {
		body := &services.TransactionBody{}
		if err := proto.Unmarshal(t.matrix.bodies[cell], body); err != nil {
			return fmt.Errorf("could not decode body %d: %w", cell, err)
		}
		cellID, err := convert.MessageToTransactionID(body.GetTransactionID())
		if err != nil {
			return fmt.Errorf("could not decode transaction ID of body %d: %w", cell, err)
		}
		cellNode, err := convert.MessageToAccountID(body.GetNodeAccountID())
		if err != nil {
			return fmt.Errorf("could not decode node account ID of body %d: %w", cell, err)
		}
		if cellID.String() != id.String() || cellNode.String() != node.String() {
			continue
		}

		matched = true
		if !t.matrix.hasSignature(cell, key) {
			t.matrix.addSignature(cell, convert.SignaturePairToMessage(key, signature))
		}
	}
	if !matched {
		return NewPreconditionError("transaction is not prepared for transaction ID %s and node %s", id, node)
	}

	t.lockIDs()
	if !t.keyAlreadySigned(key) {
		t.publicKeys = append(t.publicKeys, key)
		t.signers = append(t.signers, externalSignature{})
	}
	return nil
}

// RemoveSignature removes every signature made by key, along with its signer.
func (t *Transaction) RemoveSignature(key crypto.PublicKey) error {
	if !t.IsFrozen() {
		return NewPreconditionError("removing a signature requires transaction to be frozen")
	}

	index := -1
	for i, existing := range t.publicKeys {
		if crypto.KeysEqual(existing, key) {
			index = i
			break
		}
	}
	if index < 0 {
		return NewPreconditionError("the public key %s has not signed this transaction", key)
	}

	t.publicKeys = append(t.publicKeys[:index], t.publicKeys[index+1:]...)
	t.signers = append(t.signers[:index], t.signers[index+1:]...)
	t.removeSignaturePairs(key)
	return nil
}

// RemoveAllSignatures removes every signature and signer of the transaction.
func (t *Transaction) RemoveAllSignatures() error {
	if !t.IsFrozen() {
		return NewPreconditionError("removing signatures requires transaction to be frozen")
	}
	for _, key := range t.publicKeys {
		t.removeSignaturePairs(key)
	}
	t.publicKeys = nil
	t.signers = nil
	return nil
}

func (t *Transaction) removeSignaturePairs(key crypto.PublicKey) {
	for cell := range t.matrix.sigPairs {
		kept := t.matrix.sigPairs[cell][:0]
		for _, pair := range t.matrix.sigPairs[cell] {
			if keyMatchesPrefix(key, pair.GetPubKeyPrefix()) {
				continue
			}
			kept = append(kept, pair)
		}
		t.matrix.sigPairs[cell] = kept
		t.matrix.built[cell] = nil
	}
}

// signCell adds the signatures of every local signer missing from a cell.
func (t *Transaction) signCell(cell int) error {
	for i, key := range t.publicKeys {
		signer, ok := t.signers[i].(localSigner)
		if !ok {
			continue
		}
		if t.matrix.hasSignature(cell, key) {
			continue
		}

		signature, err := signer.sign(t.matrix.bodies[cell])
		if err != nil {
			return fmt.Errorf("could not sign transaction with %s: %w", key, err)
		}
		t.matrix.addSignature(cell, convert.SignaturePairToMessage(key, signature))
	}
	return nil
}

// buildCell returns the signed envelope of a cell.
func (t *Transaction) buildCell(cell int) (*services.Transaction, error) {
	if t.matrix.built[cell] != nil {
		return t.matrix.built[cell], nil
	}
	if err := t.signCell(cell); err != nil {
		return nil, err
	}
	return t.matrix.envelope(cell)
}

func (t *Transaction) buildAll() error {
	for cell := 0; cell < t.matrix.len(); cell++ {
		if _, err := t.buildCell(cell); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transaction) lockIDs() {
	t.transactionIDs.locked = true
	t.nodeAccountIDs.locked = true
}

// GetSignatures returns the signatures of the first chunk, per node.
func (t *Transaction) GetSignatures() (SignatureMap, error) {
	if err := t.requireFrozen(); err != nil {
		return nil, err
	}
	if err := t.buildAll(); err != nil {
		return nil, err
	}
	t.lockIDs()
	return t.signaturesOfRow(0)
}

func (t *Transaction) signaturesOfRow(row int) (SignatureMap, error) {
	signatures := make(SignatureMap, t.nodeAccountIDs.len())
	for i, node := range t.nodeAccountIDs.items {
		cell := t.matrix.cell(row, i)
		keySignatures := make([]KeySignature, 0, len(t.matrix.sigPairs[cell]))
		for _, pair := range t.matrix.sigPairs[cell] {
			key, signature, err := convert.MessageToSignaturePair(pair)
			if err != nil {
				return nil, fmt.Errorf("could not read signature of node %s: %w", node, err)
			}
			keySignatures = append(keySignatures, KeySignature{PublicKey: key, Signature: signature})
		}
		signatures[node.WithoutChecksum()] = keySignatures
	}
	return signatures, nil
}

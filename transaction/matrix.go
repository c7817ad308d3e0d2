package transaction

import (
	"bytes"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
)

var marshalOptions = proto.MarshalOptions{Deterministic: true}

// signatureSource tells where the signature of a registered public key comes
// from.
type signatureSource interface {
	isSignatureSource()
}

// localSigner signs every cell lazily when the cell is built.
type localSigner struct {
	sign Signer
}

// externalSignature marks a key whose signatures were attached as bytes,
// either through AddSignature or by deserialization. The signatures live in
// the matrix cells.
type externalSignature struct{}

func (localSigner) isSignatureSource()       {}
func (externalSignature) isSignatureSource() {}

// signableMatrix holds one cell per (transaction ID, node) pair, laid out row
// by row: cell = row*nodeCount + node. Each cell carries the exact body bytes
// nodes will see, the signatures collected so far and, once built, the
// envelope sent on the wire. A built envelope is the cache for a cell and is
// dropped whenever the cell's signatures change.
type signableMatrix struct {
	nodeCount int
	bodies    [][]byte
	sigPairs  [][]*services.SignaturePair
	built     []*services.Transaction
}

func newSignableMatrix(nodeCount int) *signableMatrix {
	return &signableMatrix{nodeCount: nodeCount}
}

func (m *signableMatrix) appendCell(body []byte, pairs []*services.SignaturePair, built *services.Transaction) {
	m.bodies = append(m.bodies, body)
	m.sigPairs = append(m.sigPairs, pairs)
	m.built = append(m.built, built)
}

func (m *signableMatrix) len() int {
	if m == nil {
		return 0
	}
	return len(m.bodies)
}

func (m *signableMatrix) rows() int {
	if m == nil || m.nodeCount == 0 {
		return 0
	}
	return len(m.bodies) / m.nodeCount
}

func (m *signableMatrix) cell(row, node int) int {
	return row*m.nodeCount + node
}

// invalidate drops every built envelope.
func (m *signableMatrix) invalidate() {
	if m == nil {
		return
	}
	for i := range m.built {
		m.built[i] = nil
	}
}

func (m *signableMatrix) hasSignature(cell int, key crypto.PublicKey) bool {
	for _, pair := range m.sigPairs[cell] {
		if keyMatchesPrefix(key, pair.GetPubKeyPrefix()) {
			return true
		}
	}
	return false
}

func keyMatchesPrefix(key crypto.PublicKey, prefix []byte) bool {
	return len(prefix) > 0 && bytes.HasPrefix(key.Bytes(), prefix)
}

func (m *signableMatrix) addSignature(cell int, pair *services.SignaturePair) {
	m.sigPairs[cell] = append(m.sigPairs[cell], pair)
	m.built[cell] = nil
}

// envelope returns the wire envelope of a cell, building it from the body and
// the signatures collected so far when it is not cached.
func (m *signableMatrix) envelope(cell int) (*services.Transaction, error) {
	if m.built[cell] != nil {
		return m.built[cell], nil
	}

	signed, err := marshalOptions.Marshal(&services.SignedTransaction{
		BodyBytes: m.bodies[cell],
		SigMap:    &services.SignatureMap{SigPair: m.sigPairs[cell]},
	})
	if err != nil {
		return nil, err
	}

	m.built[cell] = &services.Transaction{SignedTransactionBytes: signed}
	return m.built[cell], nil
}

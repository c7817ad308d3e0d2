package transaction

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/sdk"
	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// ToBytes serializes the transaction as a transaction list holding one
// envelope per (transaction ID, node) pair. A transaction not yet prepared for
// any node is serialized as a single unsigned envelope.
func (t *Transaction) ToBytes() ([]byte, error) {
	if t.nodeAccountIDs.isEmpty() {
		return t.unpreparedBytes()
	}

	if !t.IsFrozen() {
		if err := t.freeze(0); err != nil {
			return nil, err
		}
	}
	if err := t.buildAll(); err != nil {
		return nil, err
	}

	list := &sdk.TransactionList{
		TransactionList: append([]*services.Transaction(nil), t.matrix.built...),
	}
	return marshalOptions.Marshal(list)
}

func (t *Transaction) unpreparedBytes() ([]byte, error) {
	body := t.spawnBody(0)
	if !t.transactionIDs.isEmpty() {
		body.TransactionID = convert.TransactionIDToMessage(t.transactionIDs.first())
	}

	bodyBytes, err := marshalOptions.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("could not encode transaction body: %w", err)
	}
	signed, err := marshalOptions.Marshal(&services.SignedTransaction{
		BodyBytes: bodyBytes,
		SigMap:    &services.SignatureMap{},
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode signed transaction: %w", err)
	}

	return marshalOptions.Marshal(&sdk.TransactionList{
		TransactionList: []*services.Transaction{{SignedTransactionBytes: signed}},
	})
}

// parsedCell is one envelope of a deserialized transaction.
type parsedCell struct {
	envelope *services.Transaction
	signed   *services.SignedTransaction
	body     *services.TransactionBody
}

// parsedRow groups the envelopes of one transaction ID, keyed by node, in the
// order they were read.
type parsedRow struct {
	id    hiero.TransactionID
	hasID bool
	nodes []hiero.AccountID
	cells map[string]parsedCell
}

func (r *parsedRow) cell(i int) parsedCell {
	return r.cells[r.nodes[i].String()]
}

// FromBytes deserializes a transaction written by ToBytes, or a single
// transaction envelope. Envelopes carrying the body and signatures directly
// are accepted too. The returned transaction is frozen if it carries
// signatures.
func FromBytes(data []byte) (Executable, error) {
	list := &sdk.TransactionList{}
	if err := proto.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("could not decode transaction list: %w", err)
	}

	envelopes := list.GetTransactionList()
	if len(envelopes) == 0 {
		single := &services.Transaction{}
		if err := proto.Unmarshal(data, single); err != nil {
			return nil, fmt.Errorf("could not decode transaction: %w", err)
		}
		envelopes = []*services.Transaction{single}
	}

	rows, err := groupEnvelopes(envelopes)
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// normalizeEnvelope wraps a body and signature map set directly on the
// envelope into a signed transaction.
func normalizeEnvelope(envelope *services.Transaction) (*services.Transaction, *services.SignedTransaction, error) {
	if len(envelope.GetSignedTransactionBytes()) == 0 {
		signed := &services.SignedTransaction{
			BodyBytes: envelope.GetBodyBytes(),
			SigMap:    envelope.GetSigMap(),
		}
		signedBytes, err := marshalOptions.Marshal(signed)
		if err != nil {
			return nil, nil, fmt.Errorf("could not encode signed transaction: %w", err)
		}
		return &services.Transaction{SignedTransactionBytes: signedBytes}, signed, nil
	}

	signed := &services.SignedTransaction{}
	if err := proto.Unmarshal(envelope.GetSignedTransactionBytes(), signed); err != nil {
		return nil, nil, fmt.Errorf("could not decode signed transaction: %w", err)
	}
	return envelope, signed, nil
}

func groupEnvelopes(envelopes []*services.Transaction) ([]*parsedRow, error) {
	var rows []*parsedRow
	byID := make(map[string]*parsedRow)

	for i, raw := range envelopes {
		envelope, signed, err := normalizeEnvelope(raw)
		if err != nil {
			return nil, fmt.Errorf("could not read envelope %d: %w", i, err)
		}

		body := &services.TransactionBody{}
		if err := proto.Unmarshal(signed.GetBodyBytes(), body); err != nil {
			return nil, fmt.Errorf("could not decode body of envelope %d: %w", i, err)
		}

		id, err := convert.MessageToTransactionID(body.GetTransactionID())
		if err != nil {
			return nil, fmt.Errorf("could not read transaction ID of envelope %d: %w", i, err)
		}
		node := batchNodeAccountID
		if body.GetNodeAccountID() != nil {
			node, err = convert.MessageToAccountID(body.GetNodeAccountID())
			if err != nil {
				return nil, fmt.Errorf("could not read node account ID of envelope %d: %w", i, err)
			}
		}

		key := id.String()
		row, ok := byID[key]
		if !ok {
			row = &parsedRow{id: id, hasID: body.GetTransactionID() != nil, cells: make(map[string]parsedCell)}
			byID[key] = row
			rows = append(rows, row)
		}

		if _, duplicate := row.cells[node.String()]; duplicate {
			return nil, fmt.Errorf("envelope %d repeats transaction %s for node %s", i, id, node)
		}
		row.nodes = append(row.nodes, node)
		row.cells[node.String()] = parsedCell{envelope: envelope, signed: signed, body: body}
	}

	return rows, nil
}

// fromRows rebuilds the transaction from grouped envelopes. Every row must
// hold the same nodes, and the bodies of a row may only differ by node.
func fromRows(rows []*parsedRow) (Executable, error) {
	first := rows[0]
	sourceBody := first.cell(0).body

	tx, core, err := fromBody(sourceBody, firstBodies(rows))
	if err != nil {
		return nil, err
	}

	// envelopes prepared for the reserved zero node outside of a batch are
	// placeholders for a transaction that was not prepared for any node yet
	if first.nodes[0].Equal(batchNodeAccountID) && sourceBody.GetBatchKey() == nil {
		if first.hasID {
			core.transactionIDs.set([]hiero.TransactionID{first.id})
		}
		return tx, nil
	}

	nodes := first.nodes
	matrix := newSignableMatrix(len(nodes))
	var ids []hiero.TransactionID

	for r, row := range rows {
		if len(row.nodes) != len(nodes) {
			return nil, NewStructuralMismatchError(r, "nodeAccountID")
		}
		if row.hasID {
			ids = append(ids, row.id)
		}

		for i, node := range nodes {
			cell, ok := row.cells[node.String()]
			if !ok {
				return nil, NewStructuralMismatchError(r, "nodeAccountID")
			}
			if i > 0 {
				if err := requireBodiesMatch(r, row.cell(0).body, cell.body); err != nil {
					return nil, err
				}
			}
			matrix.appendCell(cell.signed.GetBodyBytes(), cell.signed.GetSigMap().GetSigPair(), cell.envelope)
		}
	}

	if err := core.restore(nodes, ids, matrix); err != nil {
		return nil, err
	}
	return tx, nil
}

func firstBodies(rows []*parsedRow) []*services.TransactionBody {
	bodies := make([]*services.TransactionBody, len(rows))
	for i, row := range rows {
		bodies[i] = row.cell(0).body
	}
	return bodies
}

// restore installs the deserialized matrix. Keys found in the first cell are
// registered as external signatures, and their presence freezes the
// transaction.
func (t *Transaction) restore(nodes []hiero.AccountID, ids []hiero.TransactionID, matrix *signableMatrix) error {
	t.nodeAccountIDs.set(nodes)
	t.transactionIDs.set(ids)
	t.matrix = matrix

	for _, pair := range matrix.sigPairs[0] {
		key, _, err := convert.MessageToSignaturePair(pair)
		if err != nil {
			return fmt.Errorf("could not read signature: %w", err)
		}
		if !t.keyAlreadySigned(key) {
			t.publicKeys = append(t.publicKeys, key)
			t.signers = append(t.signers, externalSignature{})
		}
	}

	if len(t.publicKeys) > 0 {
		frozen := proto.Clone(t.sourceBody).(*services.TransactionBody)
		frozen.NodeAccountID = nil
		t.frozenBody = frozen
		t.lockIDs()
	}
	return nil
}

// fromBody builds the concrete transaction matching the data of body. rows
// holds the first body of every chunk when the transaction was deserialized.
func fromBody(body *services.TransactionBody, rows []*services.TransactionBody) (Executable, *Transaction, error) {
	switch body.GetData().(type) {
	case *services.TransactionBody_CryptoTransfer:
		tx, err := transferTransactionFromBody(body)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read transfer transaction: %w", err)
		}
		return tx, &tx.Transaction, nil
	case *services.TransactionBody_ConsensusSubmitMessage:
		tx, err := topicMessageSubmitTransactionFromBody(body, rows)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read topic message submit transaction: %w", err)
		}
		return tx, &tx.Transaction, nil
	case *services.TransactionBody_FileAppend:
		tx, err := fileAppendTransactionFromBody(body, rows)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read file append transaction: %w", err)
		}
		return tx, &tx.Transaction, nil
	case *services.TransactionBody_ScheduleCreate:
		tx, err := scheduleCreateTransactionFromBody(body)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read schedule create transaction: %w", err)
		}
		return tx, &tx.Transaction, nil
	default:
		return nil, nil, NewUnsupportedOperationError(fmt.Sprintf("transaction body data %T is not supported", body.GetData()))
	}
}

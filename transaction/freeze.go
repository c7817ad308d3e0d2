package transaction

import (
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// Freeze fixes the transaction bodies. The transaction ID and the node
// account IDs must have been set explicitly.
func (t *Transaction) Freeze() error {
	return t.FreezeWith(nil)
}

// FreezeWith fixes the transaction bodies, generating the transaction ID from
// the network operator and selecting nodes from the network when they were
// not set explicitly. Freezing a frozen transaction does nothing. A failed
// freeze leaves the transaction as it was.
func (t *Transaction) FreezeWith(network Network) (err error) {
	if t.IsFrozen() {
		return nil
	}

	prevIDs, prevNodes := t.transactionIDs, t.nodeAccountIDs
	defer func() {
		if err != nil {
			t.transactionIDs, t.nodeAccountIDs = prevIDs, prevNodes
		}
	}()

	if t.transactionIDs.isEmpty() {
		if network == nil || network.Operator() == nil {
			return NewPreconditionError("transaction ID must be set, or an operator must be provided with FreezeWith")
		}
		t.transactionIDs.set([]hiero.TransactionID{hiero.GenerateTransactionID(network.Operator().AccountID)})
	}

	if t.nodeAccountIDs.isEmpty() {
		switch {
		case t.batchKey != nil:
			t.nodeAccountIDs.set([]hiero.AccountID{batchNodeAccountID})
		case network == nil:
			return NewPreconditionError("node account IDs must be set, or a network must be provided with FreezeWith")
		default:
			nodes, err := network.SelectNodeAccountIDs()
			if err != nil {
				return fmt.Errorf("could not select nodes for transaction: %w", err)
			}
			t.nodeAccountIDs.set(nodes)
		}
	}

	var networkFee hiero.Hbar
	if network != nil {
		networkFee = network.Settings().DefaultMaxTransactionFee
	}
	return t.freeze(networkFee)
}

// freeze builds the frozen body and every cell of the matrix. Nothing is
// committed if an error is returned.
func (t *Transaction) freeze(networkFee hiero.Hbar) error {
	body := t.spawnBody(networkFee)

	chunks, err := t.requiredChunks()
	if err != nil {
		return err
	}

	prevIDs := t.transactionIDs
	if !t.transactionIDs.isEmpty() {
		t.generateTransactionIDs(t.transactionIDs.first(), chunks)
		body.TransactionID = convert.TransactionIDToMessage(t.transactionIDs.first())
	}

	if err := t.rebuildMatrix(body, chunks); err != nil {
		t.transactionIDs = prevIDs
		return fmt.Errorf("could not build transaction bodies: %w", err)
	}

	t.frozenBody = body
	return nil
}

func (t *Transaction) fee(networkFee hiero.Hbar) hiero.Hbar {
	if t.maxTransactionFee != nil {
		return *t.maxTransactionFee
	}
	if networkFee > 0 {
		return networkFee
	}
	return t.defaultMaxTransactionFee
}

// spawnBody builds the body shared by every cell, without transaction ID or
// node account ID.
func (t *Transaction) spawnBody(networkFee hiero.Hbar) *services.TransactionBody {
	body := &services.TransactionBody{
		TransactionFee:           uint64(t.fee(networkFee).Tinybars()),
		TransactionValidDuration: convert.DurationToMessage(t.validDuration),
		Memo:                     t.memo,
		MaxCustomFees:            convert.CustomFeeLimitsToMessages(t.customFeeLimits),
	}
	if t.batchKey != nil {
		body.BatchKey = convert.KeyToMessage(t.batchKey)
	}
	t.kind.fillBody(body)
	return body
}

func (t *Transaction) requiredChunks() (int, error) {
	if ck, ok := t.kind.(chunkedKind); ok {
		return ck.chunked().requiredChunks()
	}
	return 1, nil
}

// generateTransactionIDs replaces the transaction IDs by count IDs whose
// valid starts follow initial by one nanosecond each. The lock state of the
// list is kept.
func (t *Transaction) generateTransactionIDs(initial hiero.TransactionID, count int) {
	ids := make([]hiero.TransactionID, count)
	ids[0] = initial

	payer, hasPayer := initial.AccountID()
	start, hasStart := initial.ValidStart()
	for i := 1; i < count; i++ {
		if hasPayer && hasStart {
			ids[i] = hiero.NewTransactionID(payer, start.Add(time.Duration(i)))
		} else {
			ids[i] = initial
		}
	}

	t.transactionIDs.set(ids)
}

// rebuildMatrix derives every cell from body. Row bodies get their own
// transaction ID and chunk, cell bodies their node account ID. Signatures
// collected so far are dropped.
func (t *Transaction) rebuildMatrix(body *services.TransactionBody, rows int) error {
	nodes := t.nodeAccountIDs.items
	matrix := newSignableMatrix(len(nodes))

	var initialID hiero.TransactionID
	if !t.transactionIDs.isEmpty() {
		initialID = t.transactionIDs.first()
	}
	ck, chunked := t.kind.(chunkedKind)

	for row := 0; row < rows; row++ {
		rowBody := proto.Clone(body).(*services.TransactionBody)
		if row < t.transactionIDs.len() {
			rowBody.TransactionID = convert.TransactionIDToMessage(t.transactionIDs.items[row])
		}
		if chunked {
			ck.fillChunk(rowBody, initialID, row, rows)
		}

		for _, node := range nodes {
			cellBody := proto.Clone(rowBody).(*services.TransactionBody)
			cellBody.NodeAccountID = convert.AccountIDToMessage(node)

			bodyBytes, err := marshalOptions.Marshal(cellBody)
			if err != nil {
				return err
			}
			matrix.appendCell(bodyBytes, nil, nil)
		}
	}

	t.matrix = matrix
	return nil
}

// regenerateTransactionIDs replaces the transaction IDs of a frozen
// transaction by fresh ones for the same payer and rebuilds every cell.
func (t *Transaction) regenerateTransactionIDs() error {
	payer, ok := t.transactionIDs.first().AccountID()
	if !ok {
		return NewPreconditionError("cannot regenerate a transaction ID without payer")
	}

	rows := t.transactionIDs.len()
	t.generateTransactionIDs(hiero.GenerateTransactionID(payer), rows)

	body := proto.Clone(t.frozenBody).(*services.TransactionBody)
	body.TransactionID = convert.TransactionIDToMessage(t.transactionIDs.first())
	if err := t.rebuildMatrix(body, rows); err != nil {
		return fmt.Errorf("could not rebuild transaction bodies: %w", err)
	}
	t.frozenBody = body
	return nil
}

// scheduledBody builds the body of this transaction as the payload of a
// schedule.
func (t *Transaction) scheduledBody() (*services.SchedulableTransactionBody, error) {
	body := &services.SchedulableTransactionBody{
		TransactionFee: uint64(t.fee(0).Tinybars()),
		Memo:           t.memo,
		MaxCustomFees:  convert.CustomFeeLimitsToMessages(t.customFeeLimits),
	}
	if err := t.kind.fillScheduledBody(body); err != nil {
		return nil, err
	}
	return body, nil
}

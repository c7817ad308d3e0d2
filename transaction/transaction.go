package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// DefaultValidDuration is how long a transaction stays valid after its valid
// start unless set otherwise.
const DefaultValidDuration = 120 * time.Second

// batchNodeAccountID is the node slot inner transactions of a batch are
// prepared for.
var batchNodeAccountID = hiero.AccountID{}

// kind is implemented by every concrete transaction type and fills in the
// parts of the bodies that are specific to it.
type kind interface {
	fillBody(body *services.TransactionBody)
	fillScheduledBody(body *services.SchedulableTransactionBody) error
	validateChecksums(ledger hiero.LedgerID) error
	method() string
}

// chunkedKind is implemented by kinds whose payload is split over several
// transactions.
type chunkedKind interface {
	kind
	chunked() *ChunkedTransaction
	fillChunk(body *services.TransactionBody, initialID hiero.TransactionID, chunk, total int)
}

// Executable is the behaviour shared by every transaction kind. It is
// returned by FromBytes and FromScheduledTransaction when the kind is only
// known at runtime.
type Executable interface {
	Freeze() error
	FreezeWith(network Network) error
	IsFrozen() bool

	Sign(key crypto.PrivateKey) error
	SignWith(key crypto.PublicKey, signer Signer) error
	SignWithOperator(network Network) error
	AddSignature(key crypto.PublicKey, signature []byte) error
	GetSignatures() (SignatureMap, error)

	GetTransactionHash() ([]byte, error)
	GetTransactionHashPerNode() (map[hiero.AccountID][]byte, error)

	Execute(ctx context.Context, network Network) (*Response, error)
	ExecuteAsync(ctx context.Context, network Network) *Future[*Response]

	Schedule() (*ScheduleCreateTransaction, error)
	ToBytes() ([]byte, error)

	TransactionID() (hiero.TransactionID, error)
	NodeAccountIDs() []hiero.AccountID
	Memo() string
}

// Transaction is the state shared by every transaction kind: the IDs it is
// prepared for, its signatures and the frozen body. Concrete kinds embed it.
//
// A transaction is frozen once its bodies are fixed. Every setter fails on a
// frozen transaction.
//
// Transaction is not safe for concurrent use.
type Transaction struct {
	kind kind

	// sourceBody is the body a transaction was deserialized or converted
	// from, nil for transactions built from scratch.
	sourceBody *services.TransactionBody
	// frozenBody is the body every cell was derived from. A transaction is
	// frozen iff it is non-nil.
	frozenBody *services.TransactionBody

	nodeAccountIDs lockableList[hiero.AccountID]
	transactionIDs lockableList[hiero.TransactionID]
	matrix         *signableMatrix

	publicKeys []crypto.PublicKey
	signers    []signatureSource

	memo                     string
	maxTransactionFee        *hiero.Hbar
	defaultMaxTransactionFee hiero.Hbar
	validDuration            time.Duration
	customFeeLimits          []hiero.CustomFeeLimit
	batchKey                 crypto.PublicKey
	regenerateTransactionID  *bool
}

func (t *Transaction) init(k kind) {
	t.kind = k
	t.validDuration = DefaultValidDuration
	t.defaultMaxTransactionFee = hiero.DefaultMaxTransactionFee
}

// initFromBody copies the common fields of a body into an unfrozen
// transaction.
func (t *Transaction) initFromBody(k kind, body *services.TransactionBody) error {
	t.init(k)
	t.sourceBody = body
	t.memo = body.GetMemo()

	if body.GetTransactionFee() != 0 {
		fee := hiero.HbarFromTinybars(int64(body.GetTransactionFee()))
		t.maxTransactionFee = &fee
	}
	if body.GetTransactionValidDuration() != nil {
		t.validDuration = convert.MessageToDuration(body.GetTransactionValidDuration())
	}

	limits, err := convert.MessagesToCustomFeeLimits(body.GetMaxCustomFees())
	if err != nil {
		return err
	}
	t.customFeeLimits = limits

	if body.GetBatchKey() != nil {
		key, err := convert.MessageToKey(body.GetBatchKey())
		if err != nil {
			return fmt.Errorf("could not convert batch key: %w", err)
		}
		t.batchKey = key
	}
	return nil
}

func (t *Transaction) requireNotFrozen() error {
	if t.IsFrozen() {
		return errFrozen
	}
	return nil
}

func (t *Transaction) requireFrozen() error {
	if !t.IsFrozen() {
		return errNotFrozen
	}
	return nil
}

// IsFrozen returns whether the transaction bodies are fixed.
func (t *Transaction) IsFrozen() bool {
	return t.frozenBody != nil
}

// SetNodeAccountIDs sets the nodes the transaction is prepared for. Nodes set
// explicitly are never replaced by node selection.
func (t *Transaction) SetNodeAccountIDs(ids []hiero.AccountID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.nodeAccountIDs.set(append([]hiero.AccountID(nil), ids...))
	t.nodeAccountIDs.locked = true
	return nil
}

func (t *Transaction) NodeAccountIDs() []hiero.AccountID {
	return t.nodeAccountIDs.clone()
}

// SetTransactionID sets the ID of the transaction. An explicit ID is never
// regenerated.
func (t *Transaction) SetTransactionID(id hiero.TransactionID) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.transactionIDs.set([]hiero.TransactionID{id})
	t.transactionIDs.locked = true
	return nil
}

// TransactionID returns the current transaction ID. Once read, the ID is
// locked and is no longer regenerated on expiry.
func (t *Transaction) TransactionID() (hiero.TransactionID, error) {
	if t.transactionIDs.isEmpty() {
		return hiero.TransactionID{}, NewPreconditionError("no transaction ID generated yet, try freezing the transaction or setting the transaction ID")
	}
	t.transactionIDs.locked = true
	return t.transactionIDs.current(), nil
}

func (t *Transaction) SetMemo(memo string) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.memo = memo
	return nil
}

func (t *Transaction) Memo() string {
	return t.memo
}

// SetMaxTransactionFee sets the most the payer is willing to pay for the
// transaction.
func (t *Transaction) SetMaxTransactionFee(fee hiero.Hbar) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	if fee < 0 {
		return fmt.Errorf("max transaction fee must be non-negative, got %s", fee)
	}
	t.maxTransactionFee = &fee
	return nil
}

// MaxTransactionFee returns the explicitly set fee, if any.
func (t *Transaction) MaxTransactionFee() (hiero.Hbar, bool) {
	if t.maxTransactionFee == nil {
		return 0, false
	}
	return *t.maxTransactionFee, true
}

func (t *Transaction) SetTransactionValidDuration(d time.Duration) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.validDuration = d
	return nil
}

func (t *Transaction) TransactionValidDuration() time.Duration {
	return t.validDuration
}

// SetCustomFeeLimits sets the most the payer is willing to pay in custom fees.
func (t *Transaction) SetCustomFeeLimits(limits []hiero.CustomFeeLimit) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.customFeeLimits = append([]hiero.CustomFeeLimit(nil), limits...)
	return nil
}

func (t *Transaction) AddCustomFeeLimit(limit hiero.CustomFeeLimit) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.customFeeLimits = append(t.customFeeLimits, limit)
	return nil
}

func (t *Transaction) CustomFeeLimits() []hiero.CustomFeeLimit {
	return append([]hiero.CustomFeeLimit(nil), t.customFeeLimits...)
}

// SetBatchKey sets the key that must sign the batch this transaction is
// included in.
func (t *Transaction) SetBatchKey(key crypto.PublicKey) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.batchKey = key
	return nil
}

func (t *Transaction) BatchKey() crypto.PublicKey {
	return t.batchKey
}

// SetRegenerateTransactionID overrides the network setting deciding whether
// an expired transaction ID is regenerated.
func (t *Transaction) SetRegenerateTransactionID(regenerate bool) error {
	if err := t.requireNotFrozen(); err != nil {
		return err
	}
	t.regenerateTransactionID = &regenerate
	return nil
}

// RegenerateTransactionID returns the explicit setting, if any.
func (t *Transaction) RegenerateTransactionID() (bool, bool) {
	if t.regenerateTransactionID == nil {
		return false, false
	}
	return *t.regenerateTransactionID, true
}

func (t *Transaction) shouldRegenerate(settings Settings) bool {
	if t.regenerateTransactionID != nil {
		return *t.regenerateTransactionID
	}
	return settings.RegenerateTransactionID
}

// validateAllChecksums checks every entity ID of the transaction against ledger.
func (t *Transaction) validateAllChecksums(ledger hiero.LedgerID) error {
	for _, node := range t.nodeAccountIDs.items {
		if err := node.ValidateChecksum(ledger); err != nil {
			return err
		}
	}
	for _, id := range t.transactionIDs.items {
		if err := id.ValidateChecksum(ledger); err != nil {
			return err
		}
	}
	for _, limit := range t.customFeeLimits {
		if limit.PayerID != nil {
			if err := limit.PayerID.ValidateChecksum(ledger); err != nil {
				return err
			}
		}
	}
	return t.kind.validateChecksums(ledger)
}

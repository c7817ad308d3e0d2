package transaction

import (
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

const createScheduleMethod = "/proto.ScheduleService/createSchedule"

// Schedule wraps the transaction in a ScheduleCreateTransaction. The
// transaction must not be frozen nor prepared for nodes; its transaction ID,
// if set, is carried over to the schedule.
func (t *Transaction) Schedule() (*ScheduleCreateTransaction, error) {
	if err := t.requireNotFrozen(); err != nil {
		return nil, err
	}
	if !t.nodeAccountIDs.isEmpty() {
		return nil, NewPreconditionError("the underlying transaction for a scheduled transaction cannot have node account IDs set")
	}

	body, err := t.scheduledBody()
	if err != nil {
		return nil, err
	}

	schedule := NewScheduleCreateTransaction()
	schedule.scheduled = body
	if !t.transactionIDs.isEmpty() {
		schedule.transactionIDs.set([]hiero.TransactionID{t.transactionIDs.first()})
		schedule.transactionIDs.locked = true
	}
	return schedule, nil
}

// FromScheduledTransaction rebuilds an unfrozen transaction from the body a
// schedule carries.
func FromScheduledTransaction(scheduled *services.SchedulableTransactionBody) (Executable, error) {
	body := &services.TransactionBody{
		TransactionFee: scheduled.GetTransactionFee(),
		Memo:           scheduled.GetMemo(),
		MaxCustomFees:  scheduled.GetMaxCustomFees(),
	}

	switch data := scheduled.GetData().(type) {
	case *services.SchedulableTransactionBody_CryptoTransfer:
		body.Data = &services.TransactionBody_CryptoTransfer{CryptoTransfer: data.CryptoTransfer}
	case *services.SchedulableTransactionBody_ConsensusSubmitMessage:
		body.Data = &services.TransactionBody_ConsensusSubmitMessage{ConsensusSubmitMessage: data.ConsensusSubmitMessage}
	case *services.SchedulableTransactionBody_FileAppend:
		body.Data = &services.TransactionBody_FileAppend{FileAppend: data.FileAppend}
	default:
		return nil, NewUnsupportedOperationError(fmt.Sprintf("scheduled transaction data %T is not supported", data))
	}

	tx, _, err := fromBody(body, nil)
	return tx, err
}

// ScheduleCreateTransaction creates a schedule holding a transaction to be
// executed once it collected the signatures it requires.
type ScheduleCreateTransaction struct {
	Transaction

	scheduled      *services.SchedulableTransactionBody
	payerAccountID *hiero.AccountID
	adminKey       crypto.PublicKey
	scheduleMemo   string
	expirationTime *time.Time
	waitForExpiry  bool
}

var _ Executable = (*ScheduleCreateTransaction)(nil)

func NewScheduleCreateTransaction() *ScheduleCreateTransaction {
	tx := &ScheduleCreateTransaction{}
	tx.init(tx)
	tx.defaultMaxTransactionFee = 5 * hiero.OneHbar
	return tx
}

func scheduleCreateTransactionFromBody(body *services.TransactionBody) (*ScheduleCreateTransaction, error) {
	tx := &ScheduleCreateTransaction{}
	if err := tx.initFromBody(tx, body); err != nil {
		return nil, err
	}

	create := body.GetScheduleCreate()
	tx.scheduled = create.GetScheduledTransactionBody()
	tx.scheduleMemo = create.GetMemo()
	tx.waitForExpiry = create.GetWaitForExpiry()

	if create.GetPayerAccountID() != nil {
		payer, err := convert.MessageToAccountID(create.GetPayerAccountID())
		if err != nil {
			return nil, fmt.Errorf("could not convert schedule payer: %w", err)
		}
		tx.payerAccountID = &payer
	}
	if create.GetAdminKey() != nil {
		key, err := convert.MessageToKey(create.GetAdminKey())
		if err != nil {
			return nil, fmt.Errorf("could not convert schedule admin key: %w", err)
		}
		tx.adminKey = key
	}
	if create.GetExpirationTime() != nil {
		expiration := convert.MessageToTimestamp(create.GetExpirationTime())
		tx.expirationTime = &expiration
	}
	return tx, nil
}

// SetScheduledTransaction sets the transaction to schedule.
func (tx *ScheduleCreateTransaction) SetScheduledTransaction(scheduled Executable) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	schedule, err := scheduled.Schedule()
	if err != nil {
		return err
	}
	tx.scheduled = schedule.scheduled
	return nil
}

// ScheduledTransaction rebuilds the scheduled transaction.
func (tx *ScheduleCreateTransaction) ScheduledTransaction() (Executable, error) {
	if tx.scheduled == nil {
		return nil, NewPreconditionError("no scheduled transaction set")
	}
	return FromScheduledTransaction(tx.scheduled)
}

func (tx *ScheduleCreateTransaction) SetPayerAccountID(payer hiero.AccountID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.payerAccountID = &payer
	return nil
}

func (tx *ScheduleCreateTransaction) PayerAccountID() (hiero.AccountID, bool) {
	if tx.payerAccountID == nil {
		return hiero.AccountID{}, false
	}
	return *tx.payerAccountID, true
}

func (tx *ScheduleCreateTransaction) SetAdminKey(key crypto.PublicKey) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.adminKey = key
	return nil
}

func (tx *ScheduleCreateTransaction) AdminKey() crypto.PublicKey {
	return tx.adminKey
}

func (tx *ScheduleCreateTransaction) SetScheduleMemo(memo string) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.scheduleMemo = memo
	return nil
}

func (tx *ScheduleCreateTransaction) ScheduleMemo() string {
	return tx.scheduleMemo
}

func (tx *ScheduleCreateTransaction) SetExpirationTime(expiration time.Time) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.expirationTime = &expiration
	return nil
}

func (tx *ScheduleCreateTransaction) SetWaitForExpiry(wait bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.waitForExpiry = wait
	return nil
}

func (tx *ScheduleCreateTransaction) fillBody(body *services.TransactionBody) {
	create := &services.ScheduleCreateTransactionBody{
		ScheduledTransactionBody: tx.scheduled,
		Memo:                     tx.scheduleMemo,
		WaitForExpiry:            tx.waitForExpiry,
	}
	if tx.payerAccountID != nil {
		create.PayerAccountID = convert.AccountIDToMessage(*tx.payerAccountID)
	}
	if tx.adminKey != nil {
		create.AdminKey = convert.KeyToMessage(tx.adminKey)
	}
	if tx.expirationTime != nil {
		create.ExpirationTime = convert.TimestampToMessage(*tx.expirationTime)
	}
	body.Data = &services.TransactionBody_ScheduleCreate{ScheduleCreate: create}
}

func (tx *ScheduleCreateTransaction) fillScheduledBody(*services.SchedulableTransactionBody) error {
	return NewUnsupportedOperationError("cannot schedule a ScheduleCreateTransaction")
}

func (tx *ScheduleCreateTransaction) validateChecksums(ledger hiero.LedgerID) error {
	if tx.payerAccountID != nil {
		return tx.payerAccountID.ValidateChecksum(ledger)
	}
	return nil
}

func (tx *ScheduleCreateTransaction) method() string {
	return createScheduleMethod
}

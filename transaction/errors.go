package transaction

import (
	"errors"
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// Status is the response code returned by nodes in precheck and receipts.
type Status = services.ResponseCodeEnum

// PreconditionError indicates a call made in a state that does not allow it,
// such as mutating a frozen transaction or signing an unfrozen one.
type PreconditionError struct {
	msg string
}

var _ error = (*PreconditionError)(nil)

func NewPreconditionError(msg string, args ...interface{}) PreconditionError {
	return PreconditionError{msg: fmt.Sprintf(msg, args...)}
}

func (e PreconditionError) Error() string {
	return e.msg
}

// IsPreconditionError returns whether the given error is a PreconditionError
func IsPreconditionError(err error) bool {
	var preconditionErr PreconditionError
	return errors.As(err, &preconditionErr)
}

var errFrozen = NewPreconditionError("transaction is immutable; it has at least one signature or has been explicitly frozen")
var errNotFrozen = NewPreconditionError("transaction must have been frozen before calculating the hash will be stable, try calling Freeze")

// StructuralMismatchError indicates that the bodies of a deserialized
// transaction differ between nodes of the same chunk.
type StructuralMismatchError struct {
	Row  int
	Path string
}

var _ error = (*StructuralMismatchError)(nil)

func NewStructuralMismatchError(row int, path string) StructuralMismatchError {
	return StructuralMismatchError{Row: row, Path: path}
}

func (e StructuralMismatchError) Error() string {
	return fmt.Sprintf("transaction bodies of chunk %d differ between nodes at %s", e.Row, e.Path)
}

// IsStructuralMismatchError returns whether the given error is a StructuralMismatchError
func IsStructuralMismatchError(err error) bool {
	var mismatchErr StructuralMismatchError
	return errors.As(err, &mismatchErr)
}

// PrecheckStatusError is returned when a node rejects a transaction in
// precheck with a status that is not retried.
type PrecheckStatusError struct {
	Status        Status
	TransactionID hiero.TransactionID
	NodeID        hiero.AccountID
}

var _ error = (*PrecheckStatusError)(nil)

func NewPrecheckStatusError(status Status, id hiero.TransactionID, node hiero.AccountID) PrecheckStatusError {
	return PrecheckStatusError{Status: status, TransactionID: id, NodeID: node}
}

func (e PrecheckStatusError) Error() string {
	return fmt.Sprintf("transaction %s failed precheck on node %s with status %s", e.TransactionID, e.NodeID, e.Status)
}

// IsPrecheckStatusError returns whether the given error is a PrecheckStatusError
func IsPrecheckStatusError(err error) bool {
	var precheckErr PrecheckStatusError
	return errors.As(err, &precheckErr)
}

// ReceiptStatusError is returned when a receipt reached a final status other
// than SUCCESS.
type ReceiptStatusError struct {
	Status        Status
	TransactionID hiero.TransactionID
	Receipt       *Receipt
}

var _ error = (*ReceiptStatusError)(nil)

func NewReceiptStatusError(status Status, id hiero.TransactionID, receipt *Receipt) ReceiptStatusError {
	return ReceiptStatusError{Status: status, TransactionID: id, Receipt: receipt}
}

func (e ReceiptStatusError) Error() string {
	return fmt.Sprintf("receipt for transaction %s contained error status %s", e.TransactionID, e.Status)
}

// IsReceiptStatusError returns whether the given error is a ReceiptStatusError
func IsReceiptStatusError(err error) bool {
	var receiptErr ReceiptStatusError
	return errors.As(err, &receiptErr)
}

// MaxAttemptsExceededError is returned when every allowed attempt to submit a
// transaction failed with a retryable error.
type MaxAttemptsExceededError struct {
	Attempts int
	Err      error
}

var _ error = (*MaxAttemptsExceededError)(nil)

func NewMaxAttemptsExceededError(attempts int, err error) MaxAttemptsExceededError {
	return MaxAttemptsExceededError{Attempts: attempts, Err: err}
}

func (e MaxAttemptsExceededError) Error() string {
	return fmt.Sprintf("exceeded maximum attempts (%d) for request, last error: %v", e.Attempts, e.Err)
}

func (e MaxAttemptsExceededError) Unwrap() error {
	return e.Err
}

// IsMaxAttemptsExceededError returns whether the given error is a MaxAttemptsExceededError
func IsMaxAttemptsExceededError(err error) bool {
	var attemptsErr MaxAttemptsExceededError
	return errors.As(err, &attemptsErr)
}

// UnsupportedOperationError is returned for operations a transaction kind
// never allows, such as scheduling a schedule.
type UnsupportedOperationError struct {
	msg string
}

var _ error = (*UnsupportedOperationError)(nil)

func NewUnsupportedOperationError(msg string) UnsupportedOperationError {
	return UnsupportedOperationError{msg: msg}
}

func (e UnsupportedOperationError) Error() string {
	return e.msg
}

// IsUnsupportedOperationError returns whether the given error is an UnsupportedOperationError
func IsUnsupportedOperationError(err error) bool {
	var unsupportedErr UnsupportedOperationError
	return errors.As(err, &unsupportedErr)
}

package network

import (
	"errors"
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// UnknownNodeError is returned when a node account is not in the address book.
type UnknownNodeError struct {
	Node hiero.AccountID
}

var _ error = (*UnknownNodeError)(nil)

func NewUnknownNodeError(node hiero.AccountID) UnknownNodeError {
	return UnknownNodeError{Node: node}
}

func (e UnknownNodeError) Error() string {
	return fmt.Sprintf("node %s is not in the address book", e.Node)
}

// IsUnknownNodeError returns whether the given error is an UnknownNodeError
func IsUnknownNodeError(err error) bool {
	var unknownErr UnknownNodeError
	return errors.As(err, &unknownErr)
}

// ReceiptPrecheckError is returned when a node refuses a receipt query with a
// status that is not retried.
type ReceiptPrecheckError struct {
	Status        services.ResponseCodeEnum
	TransactionID hiero.TransactionID
	Node          hiero.AccountID
}

var _ error = (*ReceiptPrecheckError)(nil)

func NewReceiptPrecheckError(status services.ResponseCodeEnum, id hiero.TransactionID, node hiero.AccountID) ReceiptPrecheckError {
	return ReceiptPrecheckError{Status: status, TransactionID: id, Node: node}
}

func (e ReceiptPrecheckError) Error() string {
	return fmt.Sprintf("receipt query for transaction %s failed precheck on node %s with status %s", e.TransactionID, e.Node, e.Status)
}

// IsReceiptPrecheckError returns whether the given error is a ReceiptPrecheckError
func IsReceiptPrecheckError(err error) bool {
	var precheckErr ReceiptPrecheckError
	return errors.As(err, &precheckErr)
}

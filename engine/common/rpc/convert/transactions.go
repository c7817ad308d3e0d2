package convert

import (
	"errors"
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// ErrEmptyMessage is returned when a required protobuf message is missing.
var ErrEmptyMessage = errors.New("protobuf message is empty")

// TimestampToMessage converts a time.Time to a protobuf message
func TimestampToMessage(t time.Time) *services.Timestamp {
	return &services.Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// MessageToTimestamp converts a protobuf message to a time.Time in UTC
func MessageToTimestamp(m *services.Timestamp) time.Time {
	return time.Unix(m.GetSeconds(), int64(m.GetNanos())).UTC()
}

// DurationToMessage converts a time.Duration to a protobuf message, truncated to seconds
func DurationToMessage(d time.Duration) *services.Duration {
	return &services.Duration{Seconds: int64(d / time.Second)}
}

// MessageToDuration converts a protobuf message to a time.Duration
func MessageToDuration(m *services.Duration) time.Duration {
	return time.Duration(m.GetSeconds()) * time.Second
}

// TransactionIDToMessage converts a hiero.TransactionID to a protobuf message.
// The zero ID converts to nil.
func TransactionIDToMessage(id hiero.TransactionID) *services.TransactionID {
	if id.IsZero() && !id.Scheduled && id.Nonce == nil {
		return nil
	}

	m := &services.TransactionID{Scheduled: id.Scheduled}
	if account, ok := id.AccountID(); ok {
		m.AccountID = AccountIDToMessage(account)
	}
	if validStart, ok := id.ValidStart(); ok {
		m.TransactionValidStart = TimestampToMessage(validStart)
	}
	if id.Nonce != nil {
		m.Nonce = *id.Nonce
	}
	return m
}

// MessageToTransactionID converts a protobuf message to a hiero.TransactionID.
// A nil message converts to the zero ID.
func MessageToTransactionID(m *services.TransactionID) (hiero.TransactionID, error) {
	if m == nil {
		return hiero.TransactionID{}, nil
	}

	var id hiero.TransactionID
	switch {
	case m.GetAccountID() != nil && m.GetTransactionValidStart() != nil:
		account, err := MessageToAccountID(m.GetAccountID())
		if err != nil {
			return hiero.TransactionID{}, fmt.Errorf("could not convert transaction payer: %w", err)
		}
		id = hiero.NewTransactionID(account, MessageToTimestamp(m.GetTransactionValidStart()))
	case m.GetAccountID() != nil || m.GetTransactionValidStart() != nil:
		return hiero.TransactionID{}, fmt.Errorf("could not convert transaction ID: payer and valid start must be set together")
	}

	id.Scheduled = m.GetScheduled()
	if m.GetNonce() != 0 {
		id = id.WithNonce(m.GetNonce())
	}
	return id, nil
}

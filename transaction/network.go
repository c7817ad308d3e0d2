package transaction

import (
	"context"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/rs/zerolog"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module"
)

const (
	DefaultMaxAttempts = 10
	DefaultMinBackoff  = 250 * time.Millisecond
	DefaultMaxBackoff  = 8 * time.Second
)

// Signer signs the given transaction body bytes.
type Signer func(message []byte) ([]byte, error)

// Operator is the account paying for transactions by default, together with
// the key able to sign for it.
type Operator struct {
	AccountID hiero.AccountID
	PublicKey crypto.PublicKey
	Signer    Signer
}

// NewOperator builds an operator signing with a private key.
func NewOperator(account hiero.AccountID, key crypto.PrivateKey) *Operator {
	return &Operator{
		AccountID: account,
		PublicKey: key.PublicKey(),
		Signer:    key.Sign,
	}
}

// Settings controls how transactions are frozen and executed against a network.
type Settings struct {
	LedgerID                 hiero.LedgerID
	AutoValidateChecksums    bool
	RegenerateTransactionID  bool
	DefaultMaxTransactionFee hiero.Hbar
	MaxAttempts              int
	MinBackoff               time.Duration
	MaxBackoff               time.Duration
	// RequestTimeout bounds a whole execution, retries included, when the
	// caller's context has no deadline.
	RequestTimeout time.Duration
}

// Network is what transactions need from the network they are sent to.
type Network interface {
	// Operator returns the default payer, or nil when none is configured.
	Operator() *Operator

	// SelectNodeAccountIDs picks the nodes a transaction is prepared for.
	SelectNodeAccountIDs() ([]hiero.AccountID, error)

	// Submit sends a transaction to a node using the given gRPC method and
	// returns the node's precheck response.
	Submit(ctx context.Context, node hiero.AccountID, method string, tx *services.Transaction) (*services.TransactionResponse, error)

	// GetReceipt waits until the receipt of the transaction reaches a final
	// status, asking the given nodes first.
	GetReceipt(ctx context.Context, id hiero.TransactionID, nodes []hiero.AccountID) (*services.TransactionReceipt, error)

	Settings() Settings
	Logger() zerolog.Logger
	Metrics() module.TransactionMetrics
}

// asyncRunner is implemented by networks that run asynchronous executions on
// their own worker pool.
type asyncRunner interface {
	Go(task func())
}

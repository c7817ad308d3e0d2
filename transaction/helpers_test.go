package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module/metrics"
	"github.com/ledgerworks/hashgraph-go/transaction"
	txmock "github.com/ledgerworks/hashgraph-go/transaction/mock"
	"github.com/ledgerworks/hashgraph-go/utils/unittest"
)

func settingsFixture() transaction.Settings {
	return transaction.Settings{
		LedgerID:                hiero.Testnet,
		RegenerateTransactionID: true,
		MaxAttempts:             3,
		MinBackoff:              time.Millisecond,
		MaxBackoff:              2 * time.Millisecond,
	}
}

// networkMock returns a network whose operator, settings, logger and metrics
// may be queried any number of times.
func networkMock(t *testing.T, operator *transaction.Operator, settings transaction.Settings) *txmock.Network {
	network := txmock.NewNetwork(t)
	network.On("Operator").Return(operator).Maybe()
	network.On("Settings").Return(settings).Maybe()
	network.On("Logger").Return(unittest.Logger()).Maybe()
	network.On("Metrics").Return(metrics.NewNoopCollector()).Maybe()
	return network
}

func operatorFixture(t *testing.T) (*transaction.Operator, crypto.PrivateKey) {
	key := unittest.PrivateKeyFixture(t, crypto.ED25519)
	return transaction.NewOperator(unittest.AccountIDFixture(), key), key
}

// transferFixture returns an unfrozen transfer paid by payer, prepared for
// nodes when any are given.
func transferFixture(t *testing.T, payer hiero.AccountID, nodes ...hiero.AccountID) *transaction.TransferTransaction {
	tx := transaction.NewTransferTransaction()
	require.NoError(t, tx.AddHbarTransfer(payer, -hiero.OneHbar))
	require.NoError(t, tx.AddHbarTransfer(hiero.AccountIDFromNum(1002), hiero.OneHbar))
	if len(nodes) > 0 {
		require.NoError(t, tx.SetNodeAccountIDs(nodes))
	}
	return tx
}

func frozenTransferFixture(t *testing.T, nodes ...hiero.AccountID) *transaction.TransferTransaction {
	payer := unittest.AccountIDFixture()
	tx := transferFixture(t, payer, nodes...)
	require.NoError(t, tx.SetTransactionID(unittest.TransactionIDForPayer(payer)))
	require.NoError(t, tx.Freeze())
	return tx
}

func decodeBody(t *testing.T, b []byte) *services.TransactionBody {
	body := &services.TransactionBody{}
	require.NoError(t, proto.Unmarshal(b, body))
	return body
}

func decodeSigned(t *testing.T, envelope *services.Transaction) *services.SignedTransaction {
	signed := &services.SignedTransaction{}
	require.NoError(t, proto.Unmarshal(envelope.GetSignedTransactionBytes(), signed))
	return signed
}

func responseWith(status services.ResponseCodeEnum) *services.TransactionResponse {
	return &services.TransactionResponse{NodeTransactionPrecheckCode: status}
}

func transactionIDOf(t *testing.T, body *services.TransactionBody) hiero.TransactionID {
	id, err := convert.MessageToTransactionID(body.GetTransactionID())
	require.NoError(t, err)
	return id
}

func ctxFixture(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

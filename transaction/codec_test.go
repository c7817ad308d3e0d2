package transaction_test

import (
	"testing"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/sdk"
	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/transaction"
	"github.com/ledgerworks/hashgraph-go/utils/unittest"
)

func decodeList(t *testing.T, b []byte) *sdk.TransactionList {
	list := &sdk.TransactionList{}
	require.NoError(t, proto.Unmarshal(b, list))
	return list
}

func TestToBytes(t *testing.T) {
	t.Run("one envelope per transaction ID and node", func(t *testing.T) {
		nodes := unittest.NodeAccountIDsFixture(3)
		tx := frozenTransferFixture(t, nodes...)

		b, err := tx.ToBytes()
		require.NoError(t, err)

		list := decodeList(t, b)
		require.Len(t, list.GetTransactionList(), 3)
		for i, envelope := range list.GetTransactionList() {
			body := decodeBody(t, decodeSigned(t, envelope).GetBodyBytes())
			assert.Equal(t, nodes[i].Num, body.GetNodeAccountID().GetAccountNum())
		}
	})

	t.Run("unprepared transaction", func(t *testing.T) {
		payer := unittest.AccountIDFixture()
		tx := transferFixture(t, payer)
		id := unittest.TransactionIDForPayer(payer)
		require.NoError(t, tx.SetTransactionID(id))

		b, err := tx.ToBytes()
		require.NoError(t, err)
		list := decodeList(t, b)
		require.Len(t, list.GetTransactionList(), 1)
		signed := decodeSigned(t, list.GetTransactionList()[0])
		assert.Empty(t, signed.GetSigMap().GetSigPair())
		body := decodeBody(t, signed.GetBodyBytes())
		assert.Nil(t, body.GetNodeAccountID())

		restored, err := transaction.FromBytes(b)
		require.NoError(t, err)
		assert.False(t, restored.IsFrozen())
		assert.Empty(t, restored.NodeAccountIDs())
		restoredID, err := restored.TransactionID()
		require.NoError(t, err)
		assert.True(t, restoredID.Equal(id))
	})
}

func TestFromBytes(t *testing.T) {
	nodes := unittest.NodeAccountIDsFixture(2)

	t.Run("signed round trip is byte identical", func(t *testing.T) {
		tx := frozenTransferFixture(t, nodes...)
		key := unittest.PrivateKeyFixture(t, crypto.ED25519)
		require.NoError(t, tx.Sign(key))

		b, err := tx.ToBytes()
		require.NoError(t, err)

		restored, err := transaction.FromBytes(b)
		require.NoError(t, err)
		require.True(t, restored.IsFrozen())
		assert.Equal(t, nodes, restored.NodeAccountIDs())

		transfer, ok := restored.(*transaction.TransferTransaction)
		require.True(t, ok)
		assert.ElementsMatch(t, tx.HbarTransfers(), transfer.HbarTransfers())

		again, err := restored.ToBytes()
		require.NoError(t, err)
		assert.Equal(t, b, again)

		signatures, err := restored.GetSignatures()
		require.NoError(t, err)
		for _, node := range nodes {
			require.Len(t, signatures[node], 1)
			assert.True(t, crypto.KeysEqual(key.PublicKey(), signatures[node][0].PublicKey))
		}

		// deserialized signatures freeze the transaction
		assert.True(t, transaction.IsPreconditionError(transfer.SetMemo("memo")))
	})

	t.Run("unsigned round trip stays editable", func(t *testing.T) {
		tx := frozenTransferFixture(t, nodes...)
		b, err := tx.ToBytes()
		require.NoError(t, err)

		restored, err := transaction.FromBytes(b)
		require.NoError(t, err)
		assert.False(t, restored.IsFrozen())

		again, err := restored.ToBytes()
		require.NoError(t, err)
		assert.Equal(t, b, again)

		// serializing froze the transaction, start over from the bytes
		restored, err = transaction.FromBytes(b)
		require.NoError(t, err)
		transfer := restored.(*transaction.TransferTransaction)
		require.NoError(t, transfer.SetMemo("edited"))
		require.NoError(t, transfer.Freeze())
		edited, err := transfer.ToBytes()
		require.NoError(t, err)
		body := decodeBody(t, decodeSigned(t, decodeList(t, edited).GetTransactionList()[0]).GetBodyBytes())
		assert.Equal(t, "edited", body.GetMemo())
	})

	t.Run("legacy envelope", func(t *testing.T) {
		key := unittest.PrivateKeyFixture(t, crypto.ED25519)
		payer := unittest.AccountIDFixture()
		id := unittest.TransactionIDForPayer(payer)

		bodyBytes, err := proto.Marshal(&services.TransactionBody{
			TransactionID:  convert.TransactionIDToMessage(id),
			NodeAccountID:  convert.AccountIDToMessage(nodes[0]),
			TransactionFee: uint64(hiero.OneHbar),
			Memo:           "legacy",
			Data: &services.TransactionBody_CryptoTransfer{CryptoTransfer: &services.CryptoTransferTransactionBody{
				Transfers: convert.TransfersToMessage([]hiero.Transfer{
					{AccountID: payer, Amount: -1},
					{AccountID: hiero.AccountIDFromNum(1002), Amount: 1},
				}),
			}},
		})
		require.NoError(t, err)
		signature, err := key.Sign(bodyBytes)
		require.NoError(t, err)

		b, err := proto.Marshal(&services.Transaction{
			BodyBytes: bodyBytes,
			SigMap: &services.SignatureMap{SigPair: []*services.SignaturePair{
				convert.SignaturePairToMessage(key.PublicKey(), signature),
			}},
		})
		require.NoError(t, err)

		restored, err := transaction.FromBytes(b)
		require.NoError(t, err)
		require.True(t, restored.IsFrozen())
		assert.Equal(t, "legacy", restored.Memo())

		restoredID, err := restored.TransactionID()
		require.NoError(t, err)
		assert.True(t, restoredID.Equal(id))

		signatures, err := restored.GetSignatures()
		require.NoError(t, err)
		require.Len(t, signatures[nodes[0]], 1)
		assert.True(t, key.PublicKey().Verify(bodyBytes, signatures[nodes[0]][0].Signature))

		// the envelope is written back in the current form
		written, err := restored.ToBytes()
		require.NoError(t, err)
		signed := decodeSigned(t, decodeList(t, written).GetTransactionList()[0])
		assert.Equal(t, bodyBytes, signed.GetBodyBytes())
	})

	t.Run("bodies differing between nodes", func(t *testing.T) {
		payer := unittest.AccountIDFixture()
		id := unittest.TransactionIDForPayer(payer)

		build := func(memo string) *sdk.TransactionList {
			tx := transferFixture(t, payer, nodes...)
			require.NoError(t, tx.SetTransactionID(id))
			require.NoError(t, tx.SetMemo(memo))
			require.NoError(t, tx.Freeze())
			b, err := tx.ToBytes()
			require.NoError(t, err)
			return decodeList(t, b)
		}

		list := build("first")
		list.TransactionList[1] = build("second").GetTransactionList()[1]
		b, err := proto.Marshal(list)
		require.NoError(t, err)

		_, err = transaction.FromBytes(b)
		require.Error(t, err)
		var mismatch transaction.StructuralMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 0, mismatch.Row)
		assert.Equal(t, "memo", mismatch.Path)
	})

	t.Run("chunk missing a node", func(t *testing.T) {
		tx := transaction.NewTopicMessageSubmitTransaction()
		require.NoError(t, tx.SetMessage(unittest.RandomBytes(1500)))
		require.NoError(t, tx.SetNodeAccountIDs(nodes))
		require.NoError(t, tx.SetTransactionID(unittest.TransactionIDFixture()))
		require.NoError(t, tx.Freeze())

		b, err := tx.ToBytes()
		require.NoError(t, err)
		list := decodeList(t, b)
		require.Len(t, list.GetTransactionList(), 4)
		list.TransactionList = list.TransactionList[:3]
		b, err = proto.Marshal(list)
		require.NoError(t, err)

		_, err = transaction.FromBytes(b)
		var mismatch transaction.StructuralMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 1, mismatch.Row)
		assert.Equal(t, "nodeAccountID", mismatch.Path)
	})

	t.Run("repeated envelope", func(t *testing.T) {
		tx := frozenTransferFixture(t, nodes...)
		b, err := tx.ToBytes()
		require.NoError(t, err)
		list := decodeList(t, b)
		list.TransactionList = append(list.TransactionList, list.TransactionList[0])
		b, err = proto.Marshal(list)
		require.NoError(t, err)

		_, err = transaction.FromBytes(b)
		assert.Error(t, err)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		bodyBytes, err := proto.Marshal(&services.TransactionBody{
			TransactionID: convert.TransactionIDToMessage(unittest.TransactionIDFixture()),
			NodeAccountID: convert.AccountIDToMessage(nodes[0]),
			Data:          &services.TransactionBody_CryptoDelete{CryptoDelete: &services.CryptoDeleteTransactionBody{}},
		})
		require.NoError(t, err)
		signedBytes, err := proto.Marshal(&services.SignedTransaction{BodyBytes: bodyBytes})
		require.NoError(t, err)
		b, err := proto.Marshal(&sdk.TransactionList{TransactionList: []*services.Transaction{{SignedTransactionBytes: signedBytes}}})
		require.NoError(t, err)

		_, err = transaction.FromBytes(b)
		assert.True(t, transaction.IsUnsupportedOperationError(err))
	})

	t.Run("chunked round trip", func(t *testing.T) {
		message := unittest.RandomBytes(2500)
		tx := transaction.NewTopicMessageSubmitTransaction()
		require.NoError(t, tx.SetTopicID(hiero.TopicID{Num: 42}))
		require.NoError(t, tx.SetMessage(message))
		require.NoError(t, tx.SetNodeAccountIDs(nodes))
		require.NoError(t, tx.SetTransactionID(unittest.TransactionIDFixture()))
		require.NoError(t, tx.Freeze())
		require.NoError(t, tx.Sign(unittest.PrivateKeyFixture(t, crypto.ED25519)))

		b, err := tx.ToBytes()
		require.NoError(t, err)
		restored, err := transaction.FromBytes(b)
		require.NoError(t, err)

		topic, ok := restored.(*transaction.TopicMessageSubmitTransaction)
		require.True(t, ok)
		assert.Equal(t, message, topic.Message())
		assert.Equal(t, transaction.DefaultTopicMessageChunkSize, topic.ChunkSize())
		topicID, ok := topic.TopicID()
		require.True(t, ok)
		assert.Equal(t, int64(42), topicID.Num)

		again, err := restored.ToBytes()
		require.NoError(t, err)
		assert.Equal(t, b, again)
	})
}

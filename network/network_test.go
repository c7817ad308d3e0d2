package network

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"pgregory.net/rapid"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module/metrics"
	"github.com/ledgerworks/hashgraph-go/network/connection"
	"github.com/ledgerworks/hashgraph-go/utils/unittest"
)

const submitMethod = "/proto.CryptoService/cryptoTransfer"

// receiptAnswer is the precheck and receipt status a node answers a receipt
// query with.
type receiptAnswer struct {
	precheck services.ResponseCodeEnum
	status   services.ResponseCodeEnum
}

// fakeNode is an in-process node. Receipt queries are answered from receipts
// in order, the last answer being repeated.
type fakeNode struct {
	mu        sync.Mutex
	precheck  services.ResponseCodeEnum
	receipts  []receiptAnswer
	submitted []*services.Transaction
	queried   []*services.Query
}

func (f *fakeNode) handle(_ interface{}, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch method {
	case submitMethod:
		tx := &services.Transaction{}
		if err := stream.RecvMsg(tx); err != nil {
			return err
		}
		f.submitted = append(f.submitted, tx)
		return stream.SendMsg(&services.TransactionResponse{NodeTransactionPrecheckCode: f.precheck})

	case getReceiptMethod:
		query := &services.Query{}
		if err := stream.RecvMsg(query); err != nil {
			return err
		}
		f.queried = append(f.queried, query)

		answer := f.receipts[0]
		if len(f.receipts) > 1 {
			f.receipts = f.receipts[1:]
		}
		return stream.SendMsg(&services.Response{
			Response: &services.Response_TransactionGetReceipt{
				TransactionGetReceipt: &services.TransactionGetReceiptResponse{
					Header:  &services.ResponseHeader{NodeTransactionPrecheckCode: answer.precheck},
					Receipt: &services.TransactionReceipt{Status: answer.status},
				},
			},
		})
	}
	return status.Errorf(codes.Unimplemented, "unknown method %s", method)
}

func (f *fakeNode) receiptQueries() []*services.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*services.Query(nil), f.queried...)
}

func (f *fakeNode) transactions() []*services.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*services.Transaction(nil), f.submitted...)
}

func startFakeNode(t *testing.T, receipts ...receiptAnswer) (*fakeNode, string) {
	if len(receipts) == 0 {
		receipts = []receiptAnswer{{services.ResponseCodeEnum_OK, services.ResponseCodeEnum_SUCCESS}}
	}
	node := &fakeNode{precheck: services.ResponseCodeEnum_OK, receipts: receipts}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := grpc.NewServer(grpc.UnknownServiceHandler(node.handle))
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	return node, listener.Addr().String()
}

// closedAddress returns an address nothing listens on.
func closedAddress(t *testing.T) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())
	return address
}

func networkFixture(t *testing.T, addresses map[string]hiero.AccountID, config Config) *Network {
	book, err := NewAddressBook(addresses)
	require.NoError(t, err)

	cache, err := connection.NewCache(unittest.Logger(), metrics.NewNoopCollector(), 10)
	require.NoError(t, err)
	connections := connection.NewManager(unittest.Logger(), metrics.NewNoopCollector(), cache, connection.Config{
		Timeout: 2 * time.Second,
	})

	if config.ReceiptMinBackoff == 0 {
		config.ReceiptMinBackoff = time.Millisecond
		config.ReceiptMaxBackoff = 5 * time.Millisecond
	}
	n := New(unittest.Logger(), metrics.NewNoopCollector(), book, connections, config)
	t.Cleanup(func() {
		assert.NoError(t, n.Close())
	})
	return n
}

func fakeAddresses(n int) map[string]hiero.AccountID {
	addresses := make(map[string]hiero.AccountID, n)
	for i, node := range unittest.NodeAccountIDsFixture(n) {
		addresses[fmt.Sprintf("node-%d.example.com:50211", i)] = node
	}
	return addresses
}

func TestSelectNodeAccountIDs(t *testing.T) {
	t.Run("a third of the address book", func(t *testing.T) {
		n := networkFixture(t, fakeAddresses(7), Config{})

		nodes, err := n.SelectNodeAccountIDs()
		require.NoError(t, err)
		require.Len(t, nodes, 3)

		seen := make(map[hiero.AccountID]struct{})
		for _, node := range nodes {
			_, err := n.AddressBook().Address(node)
			require.NoError(t, err)
			seen[node] = struct{}{}
		}
		assert.Len(t, seen, 3)
	})

	t.Run("capped by the configured maximum", func(t *testing.T) {
		n := networkFixture(t, fakeAddresses(9), Config{MaxNodesPerTransaction: 1})

		nodes, err := n.SelectNodeAccountIDs()
		require.NoError(t, err)
		assert.Len(t, nodes, 1)
	})

	t.Run("selected nodes are a third rounded up", rapid.MakeCheck(func(t *rapid.T) {
		size := rapid.IntRange(1, 30).Draw(t, "size")

		book, err := NewAddressBook(fakeAddresses(size))
		require.NoError(t, err)
		n := &Network{book: book}

		nodes, err := n.SelectNodeAccountIDs()
		require.NoError(t, err)
		assert.Len(t, nodes, (size+2)/3)
	}))
}

func TestSubmit(t *testing.T) {
	node, address := startFakeNode(t)
	account := hiero.AccountIDFromNum(3)
	n := networkFixture(t, map[string]hiero.AccountID{address: account}, Config{})

	tx := &services.Transaction{SignedTransactionBytes: unittest.RandomBytes(64)}

	t.Run("returns the precheck response", func(t *testing.T) {
		resp, err := n.Submit(unittest.Context(t), account, submitMethod, tx)
		require.NoError(t, err)
		assert.Equal(t, services.ResponseCodeEnum_OK, resp.GetNodeTransactionPrecheckCode())

		submitted := node.transactions()
		require.Len(t, submitted, 1)
		assert.True(t, proto.Equal(tx, submitted[0]))
	})

	t.Run("precheck statuses are returned as is", func(t *testing.T) {
		node.mu.Lock()
		node.precheck = services.ResponseCodeEnum_BUSY
		node.mu.Unlock()

		resp, err := n.Submit(unittest.Context(t), account, submitMethod, tx)
		require.NoError(t, err)
		assert.Equal(t, services.ResponseCodeEnum_BUSY, resp.GetNodeTransactionPrecheckCode())
	})

	t.Run("unknown nodes", func(t *testing.T) {
		_, err := n.Submit(unittest.Context(t), hiero.AccountIDFromNum(99), submitMethod, tx)
		assert.True(t, IsUnknownNodeError(err))
	})

	t.Run("unavailable nodes keep the status code", func(t *testing.T) {
		down := hiero.AccountIDFromNum(4)
		n := networkFixture(t, map[string]hiero.AccountID{closedAddress(t): down}, Config{})

		_, err := n.Submit(unittest.Context(t), down, submitMethod, tx)
		assert.Equal(t, codes.Unavailable, status.Code(err))
	})
}

func TestGetReceipt(t *testing.T) {
	id := unittest.TransactionIDFixture()
	ok := services.ResponseCodeEnum_OK

	t.Run("polls until the status is final", func(t *testing.T) {
		node, address := startFakeNode(t,
			receiptAnswer{services.ResponseCodeEnum_RECEIPT_NOT_FOUND, services.ResponseCodeEnum_UNKNOWN},
			receiptAnswer{ok, services.ResponseCodeEnum_UNKNOWN},
			receiptAnswer{ok, services.ResponseCodeEnum_SUCCESS},
		)
		account := hiero.AccountIDFromNum(3)
		n := networkFixture(t, map[string]hiero.AccountID{address: account}, Config{})

		receipt, err := n.GetReceipt(unittest.Context(t), id, []hiero.AccountID{account})
		require.NoError(t, err)
		assert.Equal(t, services.ResponseCodeEnum_SUCCESS, receipt.GetStatus())
		queries := node.receiptQueries()
		require.Len(t, queries, 3)

		queried := queries[0].GetTransactionGetReceipt()
		assert.True(t, proto.Equal(convert.TransactionIDToMessage(id), queried.GetTransactionID()))
	})

	t.Run("failed transactions are final", func(t *testing.T) {
		_, address := startFakeNode(t, receiptAnswer{ok, services.ResponseCodeEnum_INSUFFICIENT_PAYER_BALANCE})
		account := hiero.AccountIDFromNum(3)
		n := networkFixture(t, map[string]hiero.AccountID{address: account}, Config{})

		receipt, err := n.GetReceipt(unittest.Context(t), id, []hiero.AccountID{account})
		require.NoError(t, err)
		assert.Equal(t, services.ResponseCodeEnum_INSUFFICIENT_PAYER_BALANCE, receipt.GetStatus())
	})

	t.Run("precheck failures are returned", func(t *testing.T) {
		node, address := startFakeNode(t, receiptAnswer{services.ResponseCodeEnum_INVALID_TRANSACTION_ID, services.ResponseCodeEnum_UNKNOWN})
		account := hiero.AccountIDFromNum(3)
		n := networkFixture(t, map[string]hiero.AccountID{address: account}, Config{})

		_, err := n.GetReceipt(unittest.Context(t), id, []hiero.AccountID{account})
		require.True(t, IsReceiptPrecheckError(err))
		assert.Len(t, node.receiptQueries(), 1)
	})

	t.Run("unavailable nodes are skipped", func(t *testing.T) {
		node, address := startFakeNode(t)
		down := hiero.AccountIDFromNum(3)
		up := hiero.AccountIDFromNum(4)
		n := networkFixture(t, map[string]hiero.AccountID{
			closedAddress(t): down,
			address:          up,
		}, Config{})

		receipt, err := n.GetReceipt(unittest.Context(t), id, []hiero.AccountID{down})
		require.NoError(t, err)
		assert.Equal(t, services.ResponseCodeEnum_SUCCESS, receipt.GetStatus())
		assert.Len(t, node.receiptQueries(), 1)
	})

	t.Run("gives up when no node answers", func(t *testing.T) {
		down := hiero.AccountIDFromNum(3)
		n := networkFixture(t, map[string]hiero.AccountID{closedAddress(t): down}, Config{})

		_, err := n.GetReceipt(unittest.Context(t), id, []hiero.AccountID{down})
		assert.Equal(t, codes.Unavailable, status.Code(err))
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		_, address := startFakeNode(t, receiptAnswer{ok, services.ResponseCodeEnum_UNKNOWN})
		account := hiero.AccountIDFromNum(3)
		n := networkFixture(t, map[string]hiero.AccountID{address: account}, Config{})

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := n.GetReceipt(ctx, id, []hiero.AccountID{account})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

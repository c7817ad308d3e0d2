package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/transaction"
	txmock "github.com/ledgerworks/hashgraph-go/transaction/mock"
	"github.com/ledgerworks/hashgraph-go/utils/unittest"
)

const transferMethod = "/proto.CryptoService/cryptoTransfer"

type ExecuteSuite struct {
	suite.Suite

	operator    *transaction.Operator
	operatorKey crypto.PrivateKey
	nodes       []hiero.AccountID
	settings    transaction.Settings
	network     *txmock.Network
}

func TestExecute(t *testing.T) {
	suite.Run(t, new(ExecuteSuite))
}

func (s *ExecuteSuite) SetupTest() {
	s.operator, s.operatorKey = operatorFixture(s.T())
	s.nodes = unittest.NodeAccountIDsFixture(3)
	s.settings = settingsFixture()
	s.network = networkMock(s.T(), s.operator, s.settings)
}

func (s *ExecuteSuite) transfer() *transaction.TransferTransaction {
	return transferFixture(s.T(), s.operator.AccountID, s.nodes...)
}

func (s *ExecuteSuite) expectSubmit(node hiero.AccountID, response *services.TransactionResponse, err error) *mock.Call {
	return s.network.
		On("Submit", mock.Anything, node, transferMethod, mock.Anything).
		Return(response, err).
		Once()
}

// TestSuccess checks the envelope sent to the first node is signed by the
// operator paying for it.
func (s *ExecuteSuite) TestSuccess() {
	var submitted *services.Transaction
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil).
		Run(func(args mock.Arguments) {
			submitted = args.Get(3).(*services.Transaction)
		})

	tx := s.transfer()
	response, err := tx.Execute(ctxFixture(s.T()), s.network)
	s.Require().NoError(err)

	s.Assert().True(response.NodeID.Equal(s.nodes[0]))
	s.Assert().True(response.ValidateStatus)

	signed := decodeSigned(s.T(), submitted)
	body := decodeBody(s.T(), signed.GetBodyBytes())
	s.Assert().True(transactionIDOf(s.T(), body).Equal(response.TransactionID))
	s.Require().Len(signed.GetSigMap().GetSigPair(), 1)
	s.Assert().True(s.operatorKey.PublicKey().Verify(signed.GetBodyBytes(), signed.GetSigMap().GetSigPair()[0].GetEd25519()))

	hash, err := tx.GetTransactionHash()
	s.Require().NoError(err)
	s.Assert().Equal(hash, response.Hash)
}

func (s *ExecuteSuite) TestBusyRetriesSameNode() {
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_BUSY), nil)
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil)

	response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
	s.Require().NoError(err)
	s.Assert().True(response.NodeID.Equal(s.nodes[0]))
	s.network.AssertNumberOfCalls(s.T(), "Submit", 2)
}

func (s *ExecuteSuite) TestPlatformNotActiveMovesToNextNode() {
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_PLATFORM_NOT_ACTIVE), nil)
	s.expectSubmit(s.nodes[1], responseWith(services.ResponseCodeEnum_OK), nil)

	response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
	s.Require().NoError(err)
	s.Assert().True(response.NodeID.Equal(s.nodes[1]))
}

func (s *ExecuteSuite) TestTransportErrors() {
	s.Run("unavailable node is skipped", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], nil, status.Error(codes.Unavailable, "connection refused"))
		s.expectSubmit(s.nodes[1], nil, status.Error(codes.Internal, "stream terminated by RST_STREAM with error code: PROTOCOL_ERROR"))
		s.expectSubmit(s.nodes[2], responseWith(services.ResponseCodeEnum_OK), nil)

		response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)
		s.Assert().True(response.NodeID.Equal(s.nodes[2]))
	})

	s.Run("open circuit is skipped", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], nil, gobreaker.ErrOpenState)
		s.expectSubmit(s.nodes[1], responseWith(services.ResponseCodeEnum_OK), nil)

		response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)
		s.Assert().True(response.NodeID.Equal(s.nodes[1]))
	})

	s.Run("other errors are fatal", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], nil, status.Error(codes.InvalidArgument, "bad request"))

		_, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
		s.Require().Error(err)
		s.Assert().False(transaction.IsMaxAttemptsExceededError(err))
		s.Assert().Equal(codes.InvalidArgument, status.Code(unwrapAll(err)))
	})
}

func (s *ExecuteSuite) TestExpiredTransactionID() {
	s.Run("generated ID is regenerated", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_TRANSACTION_EXPIRED), nil)
		var resubmitted *services.Transaction
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil).
			Run(func(args mock.Arguments) {
				resubmitted = args.Get(3).(*services.Transaction)
			})

		tx := s.transfer()
		s.Require().NoError(tx.FreezeWith(s.network))
		bodies, err := tx.SignableNodeBodies()
		s.Require().NoError(err)
		expired := bodies[0].TransactionID

		response, err := tx.Execute(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)
		s.Assert().False(response.TransactionID.Equal(expired))

		// the new body is signed again by the operator
		signed := decodeSigned(s.T(), resubmitted)
		s.Assert().True(transactionIDOf(s.T(), decodeBody(s.T(), signed.GetBodyBytes())).Equal(response.TransactionID))
		s.Require().Len(signed.GetSigMap().GetSigPair(), 1)
		s.Assert().True(s.operatorKey.PublicKey().Verify(signed.GetBodyBytes(), signed.GetSigMap().GetSigPair()[0].GetEd25519()))
	})

	s.Run("explicit ID is not regenerated", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_TRANSACTION_EXPIRED), nil)

		tx := s.transfer()
		s.Require().NoError(tx.SetTransactionID(hiero.GenerateTransactionID(s.operator.AccountID)))

		_, err := tx.Execute(ctxFixture(s.T()), s.network)
		var precheck transaction.PrecheckStatusError
		s.Require().ErrorAs(err, &precheck)
		s.Assert().Equal(services.ResponseCodeEnum_TRANSACTION_EXPIRED, precheck.Status)
	})

	s.Run("regeneration disabled", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_TRANSACTION_EXPIRED), nil)

		tx := s.transfer()
		s.Require().NoError(tx.SetRegenerateTransactionID(false))
		_, err := tx.Execute(ctxFixture(s.T()), s.network)
		s.Assert().True(transaction.IsPrecheckStatusError(err))
	})
}

func (s *ExecuteSuite) TestMaxAttemptsExceeded() {
	s.network.
		On("Submit", mock.Anything, mock.Anything, transferMethod, mock.Anything).
		Return(responseWith(services.ResponseCodeEnum_BUSY), nil)

	_, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
	s.Require().Error(err)

	var attemptsErr transaction.MaxAttemptsExceededError
	s.Require().ErrorAs(err, &attemptsErr)
	s.Assert().Equal(s.settings.MaxAttempts, attemptsErr.Attempts)
	s.Assert().True(transaction.IsPrecheckStatusError(err))
	s.network.AssertNumberOfCalls(s.T(), "Submit", s.settings.MaxAttempts)
}

func (s *ExecuteSuite) TestPrecheckFailure() {
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_INSUFFICIENT_PAYER_BALANCE), nil)

	_, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
	var precheck transaction.PrecheckStatusError
	s.Require().ErrorAs(err, &precheck)
	s.Assert().Equal(services.ResponseCodeEnum_INSUFFICIENT_PAYER_BALANCE, precheck.Status)
	s.Assert().True(precheck.NodeID.Equal(s.nodes[0]))
	s.Assert().False(transaction.IsMaxAttemptsExceededError(err))
}

func (s *ExecuteSuite) TestContextCancelled() {
	settings := s.settings
	settings.MinBackoff = time.Minute
	settings.MaxBackoff = time.Minute
	network := networkMock(s.T(), s.operator, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	network.
		On("Submit", mock.Anything, s.nodes[0], transferMethod, mock.Anything).
		Return(responseWith(services.ResponseCodeEnum_BUSY), nil).
		Run(func(mock.Arguments) { cancel() }).
		Once()

	var err error
	unittest.RequireReturnsBefore(s.T(), func() {
		_, err = s.transfer().Execute(ctx, network)
	}, 5*time.Second)
	s.Assert().ErrorIs(err, context.Canceled)
}

func (s *ExecuteSuite) TestReceipt() {
	s.Run("success", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil)

		response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)

		s.network.
			On("GetReceipt", mock.Anything, response.TransactionID, []hiero.AccountID{s.nodes[0]}).
			Return(&services.TransactionReceipt{Status: services.ResponseCodeEnum_SUCCESS}, nil).
			Once()

		receipt, err := response.GetReceipt(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)
		s.Assert().Equal(services.ResponseCodeEnum_SUCCESS, receipt.Status)
	})

	s.Run("failure status", func() {
		s.SetupTest()
		s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil)
		s.network.
			On("GetReceipt", mock.Anything, mock.Anything, mock.Anything).
			Return(&services.TransactionReceipt{Status: services.ResponseCodeEnum_INVALID_SIGNATURE}, nil).
			Twice()

		response, err := s.transfer().Execute(ctxFixture(s.T()), s.network)
		s.Require().NoError(err)

		receipt, err := response.GetReceipt(ctxFixture(s.T()), s.network)
		s.Require().Error(err)
		s.Assert().True(transaction.IsReceiptStatusError(err))
		s.Assert().Equal(services.ResponseCodeEnum_INVALID_SIGNATURE, receipt.Status)

		response.ValidateStatus = false
		_, err = response.GetReceipt(ctxFixture(s.T()), s.network)
		s.Assert().NoError(err)
	})
}

func (s *ExecuteSuite) TestBatchifiedTransactionIsNotExecuted() {
	batchKey := unittest.PrivateKeyFixture(s.T(), crypto.ED25519).PublicKey()

	tx := transferFixture(s.T(), s.operator.AccountID)
	s.Require().NoError(tx.Batchify(s.network, batchKey))
	s.Assert().True(tx.IsBatchified())
	s.Assert().True(tx.IsFrozen())
	s.Assert().Equal([]hiero.AccountID{{}}, tx.NodeAccountIDs())

	_, err := tx.Execute(ctxFixture(s.T()), s.network)
	s.Assert().True(transaction.IsUnsupportedOperationError(err))

	// batchified transactions are restored with their reserved node
	b, err := tx.ToBytes()
	s.Require().NoError(err)
	restored, err := transaction.FromBytes(b)
	s.Require().NoError(err)
	s.Assert().True(restored.IsFrozen())
	s.Assert().Equal([]hiero.AccountID{{}}, restored.NodeAccountIDs())
}

func (s *ExecuteSuite) TestExecuteAsync() {
	s.expectSubmit(s.nodes[0], responseWith(services.ResponseCodeEnum_OK), nil)

	future := s.transfer().ExecuteAsync(ctxFixture(s.T()), s.network)
	unittest.RequireReturnsBefore(s.T(), func() { <-future.Done() }, time.Second)

	response, err := future.Await(ctxFixture(s.T()))
	s.Require().NoError(err)
	s.Assert().True(response.NodeID.Equal(s.nodes[0]))
}

func TestBatchify(t *testing.T) {
	operator, _ := operatorFixture(t)
	network := networkMock(t, operator, settingsFixture())

	tx := transferFixture(t, operator.AccountID)
	err := tx.Batchify(network, nil)
	assert.True(t, transaction.IsPreconditionError(err))
	assert.False(t, tx.IsFrozen())

	require.NoError(t, tx.Batchify(network, unittest.PrivateKeyFixture(t, crypto.ED25519).PublicKey()))
	err = tx.Batchify(network, unittest.PrivateKeyFixture(t, crypto.ED25519).PublicKey())
	assert.True(t, transaction.IsPreconditionError(err))
}

func unwrapAll(err error) error {
	for {
		next, ok := err.(interface{ Unwrap() error })
		if !ok || next.Unwrap() == nil {
			return err
		}
		err = next.Unwrap()
	}
}

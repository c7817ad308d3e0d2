package transaction

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module"
)

var tracer = otel.Tracer("github.com/ledgerworks/hashgraph-go/transaction")

var rstStream = regexp.MustCompile(`(?is)\brst[^0-9a-zA-Z]stream\b`)

// executionState is what an attempt decided about the execution.
type executionState int

const (
	executionSuccess executionState = iota
	// executionRetry retries the same node after backing off.
	executionRetry
	// executionServerError retries on the next node.
	executionServerError
	// executionRequestError stops the execution.
	executionRequestError
)

// Execute freezes the transaction with the network if needed, signs it with
// the operator when the operator pays for it and submits it to the prepared
// nodes until one accepts it in precheck.
func (t *Transaction) Execute(ctx context.Context, network Network) (*Response, error) {
	return t.execute(ctx, network)
}

// ExecuteAsync runs Execute in the background.
func (t *Transaction) ExecuteAsync(ctx context.Context, network Network) *Future[*Response] {
	return runAsync(network, func() (*Response, error) {
		return t.Execute(ctx, network)
	})
}

func (t *Transaction) execute(ctx context.Context, network Network) (*Response, error) {
	if t.batchKey != nil {
		return nil, NewUnsupportedOperationError("cannot execute a batchified transaction outside of a batch transaction")
	}
	if err := t.onExecute(network); err != nil {
		return nil, err
	}

	settings := network.Settings()
	if _, ok := ctx.Deadline(); !ok && settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.RequestTimeout)
		defer cancel()
	}

	method := t.kind.method()
	ctx, span := tracer.Start(ctx, "transaction.Execute", trace.WithAttributes(
		attribute.String("method", method),
		attribute.String("transaction_id", t.transactionIDs.current().String()),
	))
	defer span.End()

	start := time.Now()
	response, err := t.submitWithRetry(ctx, network, settings)
	network.Metrics().TransactionExecuted(method, time.Since(start), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("node", response.NodeID.String()))
	return response, nil
}

// onExecute prepares the transaction for submission.
func (t *Transaction) onExecute(network Network) error {
	if err := t.FreezeWith(network); err != nil {
		return err
	}

	settings := network.Settings()
	if settings.AutoValidateChecksums {
		if err := t.validateAllChecksums(settings.LedgerID); err != nil {
			return fmt.Errorf("could not validate checksums: %w", err)
		}
	}

	if t.transactionIDs.isEmpty() || t.nodeAccountIDs.isEmpty() {
		return NewPreconditionError("transaction must have a transaction ID and node account IDs to be executed")
	}

	operator := network.Operator()
	payer, ok := t.transactionIDs.first().AccountID()
	if operator != nil && ok && payer.Equal(operator.AccountID) {
		return t.SignWith(operator.PublicKey, operator.Signer)
	}
	return nil
}

func newBackoff(settings Settings, maxAttempts int) retry.Backoff {
	minBackoff := settings.MinBackoff
	if minBackoff <= 0 {
		minBackoff = DefaultMinBackoff
	}
	maxBackoff := settings.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultMaxBackoff
	}

	backoff := retry.NewExponential(minBackoff)
	backoff = retry.WithCappedDuration(maxBackoff, backoff)
	return retry.WithMaxRetries(uint64(maxAttempts-1), backoff)
}

// submitWithRetry submits the current cell, moving between nodes and
// regenerating transaction IDs as the precheck statuses require.
func (t *Transaction) submitWithRetry(ctx context.Context, network Network, settings Settings) (*Response, error) {
	maxAttempts := settings.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	backoff := newBackoff(settings, maxAttempts)

	method := t.kind.method()
	metrics := network.Metrics()
	log := network.Logger().With().
		Str("component", "transaction").
		Str("method", method).
		Logger()

	attempt := 0
	var response *Response
	var lastErr error

	retryable := func(err error) error {
		lastErr = err
		if attempt >= maxAttempts {
			return NewMaxAttemptsExceededError(attempt, err)
		}
		return retry.RetryableError(err)
	}

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		node := t.nodeAccountIDs.current()
		id := t.transactionIDs.current()

		envelope, err := t.buildCell(t.currentCell())
		if err != nil {
			return err
		}

		submitted := time.Now()
		resp, err := network.Submit(ctx, node, method, envelope)
		if err != nil {
			metrics.TransactionSubmissionFailed(method, node.String())
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !shouldRetryExceptionally(err) {
				return fmt.Errorf("could not submit transaction %s to node %s: %w", id, node, err)
			}

			log.Debug().Err(err).
				Str("node", node.String()).
				Int("attempt", attempt).
				Msg("transport error, trying next node")
			t.nodeAccountIDs.advance()
			return retryable(fmt.Errorf("could not submit transaction %s to node %s: %w", id, node, err))
		}

		precheck := resp.GetNodeTransactionPrecheckCode()
		metrics.TransactionSubmitted(method, node.String(), precheck.String(), time.Since(submitted))
		log.Trace().
			Str("node", node.String()).
			Str("transaction_id", id.String()).
			Int("attempt", attempt).
			Str("status", precheck.String()).
			Msg("transaction submitted")

		switch t.executionState(precheck, settings, metrics, log) {
		case executionSuccess:
			response = &Response{
				NodeID:         node,
				TransactionID:  id,
				Hash:           crypto.Hash(envelope.GetSignedTransactionBytes()),
				ValidateStatus: true,
			}
			t.transactionIDs.advance()
			return nil
		case executionRetry:
			return retryable(NewPrecheckStatusError(precheck, id, node))
		case executionServerError:
			t.nodeAccountIDs.advance()
			return retryable(NewPrecheckStatusError(precheck, id, node))
		default:
			return NewPrecheckStatusError(precheck, id, node)
		}
	})
	if err != nil {
		if lastErr != nil && errors.Is(err, lastErr) && !IsMaxAttemptsExceededError(err) {
			return nil, NewMaxAttemptsExceededError(attempt, lastErr)
		}
		return nil, err
	}
	return response, nil
}

// executionState classifies a precheck status. An expired transaction ID is
// regenerated here when allowed.
func (t *Transaction) executionState(precheck Status, settings Settings, metrics module.TransactionMetrics, log zerolog.Logger) executionState {
	switch precheck {
	case services.ResponseCodeEnum_OK:
		return executionSuccess
	case services.ResponseCodeEnum_BUSY, services.ResponseCodeEnum_INVALID_NODE_ACCOUNT:
		return executionRetry
	case services.ResponseCodeEnum_PLATFORM_NOT_ACTIVE, services.ResponseCodeEnum_PLATFORM_TRANSACTION_NOT_CREATED:
		return executionServerError
	case services.ResponseCodeEnum_TRANSACTION_EXPIRED:
		if !t.shouldRegenerate(settings) || t.transactionIDs.locked {
			return executionRequestError
		}
		if err := t.regenerateTransactionIDs(); err != nil {
			log.Warn().Err(err).Msg("could not regenerate expired transaction ID")
			return executionRequestError
		}
		metrics.TransactionIDRegenerated()
		log.Debug().
			Str("transaction_id", t.transactionIDs.current().String()).
			Msg("regenerated expired transaction ID")
		return executionRetry
	default:
		return executionRequestError
	}
}

// shouldRetryExceptionally reports whether a transport error is worth trying
// on another node.
func shouldRetryExceptionally(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.Unavailable, codes.ResourceExhausted:
		return true
	case codes.Internal:
		return rstStream.MatchString(s.Message())
	default:
		return false
	}
}

// Receipt is the outcome of a transaction reached consensus.
type Receipt struct {
	Status                 Status
	TopicSequenceNumber    uint64
	TopicRunningHash       []byte
	ScheduledTransactionID *hiero.TransactionID
}

// Response is returned once a node accepted a transaction in precheck.
type Response struct {
	NodeID        hiero.AccountID
	TransactionID hiero.TransactionID
	Hash          []byte
	// ValidateStatus makes GetReceipt fail on receipts whose status is not
	// SUCCESS.
	ValidateStatus bool
}

// GetReceipt waits for the receipt of the transaction, asking the node that
// accepted it.
func (r *Response) GetReceipt(ctx context.Context, network Network) (*Receipt, error) {
	message, err := network.GetReceipt(ctx, r.TransactionID, []hiero.AccountID{r.NodeID})
	if err != nil {
		return nil, fmt.Errorf("could not get receipt of transaction %s: %w", r.TransactionID, err)
	}

	receipt := &Receipt{
		Status:              message.GetStatus(),
		TopicSequenceNumber: message.GetTopicSequenceNumber(),
		TopicRunningHash:    message.GetTopicRunningHash(),
	}
	if message.GetScheduledTransactionID() != nil {
		id, err := convert.MessageToTransactionID(message.GetScheduledTransactionID())
		if err != nil {
			return nil, fmt.Errorf("could not convert scheduled transaction ID: %w", err)
		}
		receipt.ScheduledTransactionID = &id
	}

	if r.ValidateStatus && receipt.Status != services.ResponseCodeEnum_SUCCESS {
		return receipt, NewReceiptStatusError(receipt.Status, r.TransactionID, receipt)
	}
	return receipt, nil
}

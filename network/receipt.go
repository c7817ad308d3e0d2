package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/sethvargo/go-retry"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

const (
	getReceiptMethod = "/proto.CryptoService/getTransactionReceipts"

	// maxReceiptFailedRounds is the number of rounds in which every node
	// failed before receipt polling gives up.
	maxReceiptFailedRounds = 3
)

// receiptNotReadyError is returned by a node that does not know the final
// status of a transaction yet.
type receiptNotReadyError struct {
	status services.ResponseCodeEnum
}

func (e receiptNotReadyError) Error() string {
	return fmt.Sprintf("receipt is not available yet: %s", e.status)
}

func isReceiptNotReady(err error) bool {
	var notReady receiptNotReadyError
	return errors.As(err, &notReady)
}

func isRetriedReceiptStatus(s services.ResponseCodeEnum) bool {
	switch s {
	case services.ResponseCodeEnum_UNKNOWN,
		services.ResponseCodeEnum_BUSY,
		services.ResponseCodeEnum_RECEIPT_NOT_FOUND,
		services.ResponseCodeEnum_RECORD_NOT_FOUND,
		services.ResponseCodeEnum_PLATFORM_NOT_ACTIVE:
		return true
	default:
		return false
	}
}

// GetReceipt polls the receipt of the transaction until it reaches a final
// status. The given nodes are asked first, then the rest of the address book.
// Polling stops when ctx is done.
func (n *Network) GetReceipt(ctx context.Context, id hiero.TransactionID, nodes []hiero.AccountID) (*services.TransactionReceipt, error) {
	started := time.Now()
	log := n.log.With().Str("transaction_id", id.String()).Logger()

	backoff := retry.NewExponential(n.config.ReceiptMinBackoff)
	backoff = retry.WithCappedDuration(n.config.ReceiptMaxBackoff, backoff)

	candidates := n.receiptNodes(nodes)
	failedRounds := 0
	var receipt *services.TransactionReceipt

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := n.communicator.CallAvailableNode(candidates, func(node hiero.AccountID) error {
			r, err := n.queryReceipt(ctx, node, id)
			if err != nil {
				return err
			}
			receipt = r
			return nil
		}, func(err error) bool {
			return isReceiptNotReady(err) || IsReceiptPrecheckError(err)
		})
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case IsReceiptPrecheckError(err):
			return err
		case isReceiptNotReady(err):
			log.Trace().Err(err).Msg("receipt not ready")
			return retry.RetryableError(err)
		}

		failedRounds++
		if failedRounds >= maxReceiptFailedRounds {
			return fmt.Errorf("no node answered the receipt query: %w", err)
		}
		log.Debug().Err(err).Int("round", failedRounds).Msg("receipt query failed on every node")
		return retry.RetryableError(err)
	})
	if err != nil {
		n.metrics.ReceiptFetched(time.Since(started), "failed")
		return nil, fmt.Errorf("could not get receipt of transaction %s: %w", id, err)
	}

	n.metrics.ReceiptFetched(time.Since(started), receipt.GetStatus().String())
	return receipt, nil
}

func (n *Network) queryReceipt(ctx context.Context, node hiero.AccountID, id hiero.TransactionID) (*services.TransactionReceipt, error) {
	query := &services.Query{
		Query: &services.Query_TransactionGetReceipt{
			TransactionGetReceipt: &services.TransactionGetReceiptQuery{
				Header:        &services.QueryHeader{ResponseType: services.ResponseType_ANSWER_ONLY},
				TransactionID: convert.TransactionIDToMessage(id),
			},
		},
	}

	resp := &services.Response{}
	if err := n.invoke(ctx, node, getReceiptMethod, query, resp); err != nil {
		return nil, err
	}

	answer := resp.GetTransactionGetReceipt()
	precheck := answer.GetHeader().GetNodeTransactionPrecheckCode()
	switch {
	case precheck == services.ResponseCodeEnum_OK:
	case isRetriedReceiptStatus(precheck):
		return nil, receiptNotReadyError{status: precheck}
	default:
		return nil, NewReceiptPrecheckError(precheck, id, node)
	}

	receipt := answer.GetReceipt()
	if isRetriedReceiptStatus(receipt.GetStatus()) {
		return nil, receiptNotReadyError{status: receipt.GetStatus()}
	}
	return receipt, nil
}

// receiptNodes lists the preferred nodes followed by every other node of the
// address book.
func (n *Network) receiptNodes(preferred []hiero.AccountID) []hiero.AccountID {
	seen := make(map[hiero.AccountID]struct{}, n.book.Len())
	nodes := make([]hiero.AccountID, 0, n.book.Len())
	for _, node := range append(append([]hiero.AccountID(nil), preferred...), n.book.Nodes()...) {
		key := node.WithoutChecksum()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		nodes = append(nodes, key)
	}
	return nodes
}

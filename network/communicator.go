package network

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/sony/gobreaker"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// maxFailedRequestCount is the number of failed nodes after which a call
// gives up.
const maxFailedRequestCount = 3

var errNoNodes = errors.New("no nodes to call")

// NodeCommunicator calls nodes one after the other until one of them answers.
type NodeCommunicator struct {
	circuitBreakerEnabled bool
}

func NewNodeCommunicator(circuitBreakerEnabled bool) *NodeCommunicator {
	return &NodeCommunicator{circuitBreakerEnabled: circuitBreakerEnabled}
}

// CallAvailableNode calls the given nodes in order until a call succeeds.
// Errors accumulate until maxFailedRequestCount nodes failed. Nodes whose
// circuit breaker is open are skipped without counting as failed; when every
// node was skipped the open-state error is returned. A call
// failing with an error for which terminal returns true is returned at once.
func (c *NodeCommunicator) CallAvailableNode(
	nodes []hiero.AccountID,
	call func(node hiero.AccountID) error,
	terminal func(err error) bool,
) error {
	var errs *multierror.Error
	var skipped error

	for _, node := range nodes {
		err := call(node)
		if err == nil {
			return nil
		}

		if terminal != nil && terminal(err) {
			return err
		}

		if c.circuitBreakerEnabled && errors.Is(err, gobreaker.ErrOpenState) {
			skipped = err
			continue
		}

		errs = multierror.Append(errs, err)
		if len(errs.Errors) >= maxFailedRequestCount {
			return errs.ErrorOrNil()
		}
	}

	if errs == nil {
		// every node was skipped, or there were none
		if skipped != nil {
			return skipped
		}
		return errNoNodes
	}
	return errs.ErrorOrNil()
}

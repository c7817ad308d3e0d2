package module

import (
	"time"
)

// GRPCConnectionPoolMetrics tracks the cache of gRPC connections to consensus nodes.
type GRPCConnectionPoolMetrics interface {
	// TotalConnectionsInPool updates the number of connections stored in the pool, and the size of the pool
	TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint)

	// ConnectionFromPoolReused tracks the number of times a connection is reused from the connection pool
	ConnectionFromPoolReused()

	// ConnectionAddedToPool tracks the number of times a node is added to the connection pool
	ConnectionAddedToPool()

	// NewConnectionEstablished tracks the number of times a new grpc connection is established
	NewConnectionEstablished()

	// ConnectionFromPoolInvalidated tracks the number of times a cached grpc connection is invalidated and closed
	ConnectionFromPoolInvalidated()

	// ConnectionFromPoolEvicted tracks the number of times a cached connection is evicted from the cache
	ConnectionFromPoolEvicted()
}

// TransactionMetrics tracks the submission of transactions to the network.
type TransactionMetrics interface {
	// TransactionSubmitted tracks a single submission attempt of a transaction to a node
	// and the precheck status the node answered with.
	TransactionSubmitted(method string, node string, status string, dur time.Duration)

	// TransactionSubmissionFailed is called when submitting to a node failed without a precheck status
	TransactionSubmissionFailed(method string, node string)

	// TransactionIDRegenerated tracks how often expired transaction IDs were regenerated
	TransactionIDRegenerated()

	// TransactionExecuted reports the total time spent executing a transaction, retries included
	TransactionExecuted(method string, dur time.Duration, success bool)

	// ReceiptFetched reports the time spent polling for a receipt and its final status
	ReceiptFetched(dur time.Duration, status string)
}

// SDKMetrics groups every metric the client reports.
type SDKMetrics interface {
	GRPCConnectionPoolMetrics
	TransactionMetrics
}

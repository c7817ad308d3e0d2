package metrics

const (
	namespaceSDK = "hashgraph_sdk"
)

const (
	subsystemConnectionPool = "connection_pool"
	subsystemTransactions   = "transactions"
	subsystemReceipts       = "receipts"
)

const (
	LabelMethod  = "method"
	LabelNode    = "node"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
)

package metrics

import (
	"time"

	"github.com/ledgerworks/hashgraph-go/module"
)

type NoopCollector struct{}

var _ module.SDKMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint)              {}
func (nc *NoopCollector) ConnectionFromPoolReused()                                                         {}
func (nc *NoopCollector) ConnectionAddedToPool()                                                            {}
func (nc *NoopCollector) NewConnectionEstablished()                                                         {}
func (nc *NoopCollector) ConnectionFromPoolInvalidated()                                                    {}
func (nc *NoopCollector) ConnectionFromPoolEvicted()                                                        {}
func (nc *NoopCollector) TransactionSubmitted(method string, node string, status string, dur time.Duration) {}
func (nc *NoopCollector) TransactionSubmissionFailed(method string, node string)                            {}
func (nc *NoopCollector) TransactionIDRegenerated()                                                         {}
func (nc *NoopCollector) TransactionExecuted(method string, dur time.Duration, success bool)                {}
func (nc *NoopCollector) ReceiptFetched(dur time.Duration, status string)                                   {}

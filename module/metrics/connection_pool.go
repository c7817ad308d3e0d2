package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ledgerworks/hashgraph-go/module"
)

// ConnectionPoolCollector the metrics for the gRPC connection cache
type ConnectionPoolCollector struct {
	connectionsInPool     *prometheus.GaugeVec
	connectionReused      prometheus.Counter
	connectionAdded       prometheus.Counter
	connectionEstablished prometheus.Counter
	connectionInvalidated prometheus.Counter
	connectionEvicted     prometheus.Counter
}

var _ module.GRPCConnectionPoolMetrics = (*ConnectionPoolCollector)(nil)

// NewConnectionPoolCollector creates a collector registered on registerer
func NewConnectionPoolCollector(registerer prometheus.Registerer) *ConnectionPoolCollector {
	factory := promauto.With(registerer)

	return &ConnectionPoolCollector{
		connectionsInPool: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "connections",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "number of connections in the pool against the pool size",
		}, []string{"result"}),
		connectionReused: factory.NewCounter(prometheus.CounterOpts{
			Name:      "reused_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "counter for the number of times connections get reused",
		}),
		connectionAdded: factory.NewCounter(prometheus.CounterOpts{
			Name:      "added_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "counter for the number of times connections are added to the pool",
		}),
		connectionEstablished: factory.NewCounter(prometheus.CounterOpts{
			Name:      "established_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "counter for the number of times new connections are established",
		}),
		connectionInvalidated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "invalidated_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "counter for the number of times connections are invalidated",
		}),
		connectionEvicted: factory.NewCounter(prometheus.CounterOpts{
			Name:      "evicted_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemConnectionPool,
			Help:      "counter for the number of times a cached connection is evicted from the pool",
		}),
	}
}

func (cc *ConnectionPoolCollector) TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint) {
	cc.connectionsInPool.WithLabelValues("connections").Set(float64(connectionCount))
	cc.connectionsInPool.WithLabelValues("pool_size").Set(float64(connectionPoolSize))
}

func (cc *ConnectionPoolCollector) ConnectionFromPoolReused() {
	cc.connectionReused.Inc()
}

func (cc *ConnectionPoolCollector) ConnectionAddedToPool() {
	cc.connectionAdded.Inc()
}

func (cc *ConnectionPoolCollector) NewConnectionEstablished() {
	cc.connectionEstablished.Inc()
}

func (cc *ConnectionPoolCollector) ConnectionFromPoolInvalidated() {
	cc.connectionInvalidated.Inc()
}

func (cc *ConnectionPoolCollector) ConnectionFromPoolEvicted() {
	cc.connectionEvicted.Inc()
}

// SDKCollector combines the connection pool and transaction collectors
type SDKCollector struct {
	*ConnectionPoolCollector
	*TransactionCollector
}

var _ module.SDKMetrics = (*SDKCollector)(nil)

// NewSDKCollector registers every client metric on registerer
func NewSDKCollector(registerer prometheus.Registerer) *SDKCollector {
	return &SDKCollector{
		ConnectionPoolCollector: NewConnectionPoolCollector(registerer),
		TransactionCollector:    NewTransactionCollector(registerer),
	}
}

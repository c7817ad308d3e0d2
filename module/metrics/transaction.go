package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ledgerworks/hashgraph-go/module"
)

// TransactionCollector the metrics for transaction submission
type TransactionCollector struct {
	submissions       *prometheus.CounterVec
	submissionLatency *prometheus.HistogramVec
	submissionFailed  *prometheus.CounterVec
	idsRegenerated    prometheus.Counter
	executions        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
	receiptDuration   *prometheus.HistogramVec
}

var _ module.TransactionMetrics = (*TransactionCollector)(nil)

// NewTransactionCollector creates a collector registered on registerer
func NewTransactionCollector(registerer prometheus.Registerer) *TransactionCollector {
	factory := promauto.With(registerer)

	return &TransactionCollector{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "submissions_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "counter for transaction submissions to nodes, by precheck status",
		}, []string{LabelMethod, LabelNode, LabelStatus}),
		submissionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "submission_duration_seconds",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "the duration of a single submission round trip to a node",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelMethod}),
		submissionFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "submission_failures_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "counter for submissions that failed before a precheck status was received",
		}, []string{LabelMethod, LabelNode}),
		idsRegenerated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "ids_regenerated_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "counter for transaction ID regenerations after TRANSACTION_EXPIRED",
		}),
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "executions_total",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "counter for executed transactions, retries included",
		}, []string{LabelMethod, LabelOutcome}),
		executionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "execution_duration_seconds",
			Namespace: namespaceSDK,
			Subsystem: subsystemTransactions,
			Help:      "the duration of an execution, retries included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{LabelMethod}),
		receiptDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "fetch_duration_seconds",
			Namespace: namespaceSDK,
			Subsystem: subsystemReceipts,
			Help:      "the duration of polling for a receipt until it reached a final status",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{LabelStatus}),
	}
}

// TransactionSubmitted tracks one submission attempt and the node's precheck status
func (tc *TransactionCollector) TransactionSubmitted(method string, node string, status string, dur time.Duration) {
	tc.submissions.WithLabelValues(method, node, status).Inc()
	tc.submissionLatency.WithLabelValues(method).Observe(dur.Seconds())
}

// TransactionSubmissionFailed tracks submissions that did not reach a precheck
func (tc *TransactionCollector) TransactionSubmissionFailed(method string, node string) {
	tc.submissionFailed.WithLabelValues(method, node).Inc()
}

func (tc *TransactionCollector) TransactionIDRegenerated() {
	tc.idsRegenerated.Inc()
}

func (tc *TransactionCollector) TransactionExecuted(method string, dur time.Duration, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	tc.executions.WithLabelValues(method, outcome).Inc()
	tc.executionDuration.WithLabelValues(method).Observe(dur.Seconds())
}

func (tc *TransactionCollector) ReceiptFetched(dur time.Duration, status string) {
	tc.receiptDuration.WithLabelValues(status).Observe(dur.Seconds())
}

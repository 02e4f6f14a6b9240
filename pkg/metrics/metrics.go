package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_cycles_total",
		Help: "The total number of protocol cycles by outcome",
	}, []string{"protocol", "status"})

	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_operations_total",
		Help: "The total number of protocol operations by outcome",
	}, []string{"protocol", "operation", "status"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_operation_duration_seconds",
		Help:    "Time taken to complete a protocol operation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // Start at 1s with 10 buckets doubling in size
	}, []string{"protocol", "operation"})

	TransactionsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_transactions_sent_total",
		Help: "The total number of transactions submitted on chain",
	}, []string{"protocol"})

	GasUsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_gas_used",
		Help:    "Gas used by confirmed transactions",
		Buckets: prometheus.ExponentialBuckets(21000, 2, 10), // Start at 21000 with 10 buckets doubling in size
	}, []string{"protocol"})

	AccountBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bot_account_balance_wei",
		Help: "Native balance per account at the start of its run",
	}, []string{"account"})

	FloorSubstitutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_floor_substitutions_total",
		Help: "Number of amount draws replaced by the floor amount",
	}, []string{"protocol"})

	RetriesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_retries_executed_total",
		Help: "Number of operation retries that were executed",
	}, []string{"protocol", "error_type"})

	PermanentErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_permanent_errors_total",
		Help: "Total number of permanent errors that won't be retried",
	}, []string{"protocol", "error_type"})

	BatchesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_batches_completed_total",
		Help: "The total number of completed scheduler batches",
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_batch_duration_seconds",
		Help:    "Time taken to run a full scheduler batch",
		Buckets: prometheus.ExponentialBuckets(60, 2, 10), // Start at 60s with 10 buckets doubling in size
	})

	NextBatchIn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_next_batch_seconds",
		Help: "Seconds until the next scheduled batch",
	})

	AccountsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_accounts_skipped_total",
		Help: "Number of accounts skipped after a cycle failure",
	}, []string{"protocol"})
)

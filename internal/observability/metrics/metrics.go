package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "republica_rpc_requests_total",
		Help: "Total number of RPC requests",
	}, []string{"procedure", "code"})

	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "republica_rpc_request_duration_seconds",
		Help:    "Duration of RPC requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure", "code"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "republica_http_requests_total",
		Help: "Total number of plain HTTP requests (health, metrics)",
	}, []string{"method", "path", "status"})

	paymentsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "republica_payments_registered_total",
		Help: "Count of payments registered",
	})

	expensesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "republica_expenses_settled_total",
		Help: "Count of expenses that transitioned to paid",
	})

	expensesOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "republica_expenses_overdue_total",
		Help: "Count of expenses moved to overdue by the scanner",
	})

	membersDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "republica_members_deactivated_total",
		Help: "Count of members deactivated",
	})

	summaryCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "republica_summary_cache_total",
		Help: "House summary cache lookups by result",
	}, []string{"result"})
)

// ObserveRPC records a unary RPC with its Connect code ("ok" on success).
func ObserveRPC(procedure, code string, duration time.Duration) {
	rpcRequestsTotal.WithLabelValues(procedure, code).Inc()
	rpcRequestDuration.WithLabelValues(procedure, code).Observe(duration.Seconds())
}

// ObserveHTTPRequest records a plain HTTP request metric
func ObserveHTTPRequest(method, path, status string) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func IncPaymentsRegistered() {
	paymentsRegistered.Inc()
}

func IncExpensesSettled() {
	expensesSettled.Inc()
}

// AddExpensesOverdue adds n to the overdue counter. Non-positive n is ignored.
func AddExpensesOverdue(n int64) {
	if n <= 0 {
		return
	}
	expensesOverdue.Add(float64(n))
}

func IncMembersDeactivated() {
	membersDeactivated.Inc()
}

// ObserveSummaryCache records a summary cache lookup: "hit", "miss" or "unavailable".
func ObserveSummaryCache(result string) {
	summaryCache.WithLabelValues(result).Inc()
}

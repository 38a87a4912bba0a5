package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zuno_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"route"})
)

// 互动流水
var (
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_interactions_total",
		Help: "Ledger mutations by interaction type and outcome",
	}, []string{"type", "outcome"})

	FollowTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_follow_transitions_total",
		Help: "Follow graph transitions",
	}, []string{"transition"})
)

// 信息流
var (
	FeedQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_feed_queries_total",
		Help: "Feed queries by mode and variant",
	}, []string{"variant", "mode"})

	SearchFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zuno_search_sql_fallback_total",
		Help: "Search requests served by SQL because Elasticsearch was unavailable",
	})
)

// 后台任务
var (
	ReconcileCorrectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_reconcile_corrections_total",
		Help: "Counters rewritten by reconciliation",
	}, []string{"target"})

	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_job_runs_total",
		Help: "Background job runs by outcome",
	}, []string{"job", "outcome"})

	CDCEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zuno_cdc_events_total",
		Help: "Canal events consumed by table and operation",
	}, []string{"table", "operation"})
)

// Outcome 统一的结果标签
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NoRuleLabel is the rule label used when a question matched no rule.
const NoRuleLabel = "none"

var (
	RuleMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_rule_matches_total",
			Help: "Total number of analyzed questions by matched heuristic rule",
		},
		[]string{"rule"},
	)

	ChatSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_submissions_total",
			Help: "Total number of chat submissions by outcome",
		},
		[]string{"outcome"},
	)

	ReplyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_reply_duration_seconds",
			Help:    "Time from submission to assistant reply, including the typing delay",
			Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 3, 5},
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

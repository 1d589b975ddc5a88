// Package metrics defines and registers all custom Prometheus metrics for
// the marketplace session gateway. It is the single source of truth for
// metric names, labels, and help strings. Metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "account_not_found",
//     "role_mismatch", or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions cleared in reaction to an upstream
// authentication failure. Concurrent failures for one session count once.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions force-cleared after an upstream 401.",
	},
)

// SessionHydrationsTotal counts session-cookie hydrations.
// Label:
//   - outcome: "authenticated", "anonymous", or "error"
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of per-request session hydrations, by outcome.",
	},
	[]string{"outcome"},
)

// AccessDecisionsTotal counts route-guard decisions.
// Label:
//   - decision: "allow", "deny", or "redirect"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of route guard decisions, labelled by decision.",
	},
	[]string{"decision"},
)

// UpstreamRequestDuration measures latency of calls to the marketplace
// backend. Labels:
//   - endpoint: logical endpoint name (e.g. "exchange_token", "list_lands")
//   - status: HTTP status class ("2xx", "4xx", "5xx") or "error"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the marketplace backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)

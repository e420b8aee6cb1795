// Package metrics defines and registers the custom Prometheus metrics of the
// premium API. It is the single source of truth for metric names, labels and
// help strings. All metrics register with the default registry on import;
// HTTP request metrics come from the echoprometheus middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "premium"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "ok", "missing_fields", "invalid_payload", "user_exists", "bad_credentials"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by result.",
	},
	[]string{"action", "result"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersTotal counts order creation and capture outcomes.
// Labels:
//   - step: "create" or "capture"
//   - result: "ok", "replayed", "not_completed", "provider_error", "storage_error"
var OrdersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_total",
		Help:      "Total number of payment order operations, by step and result.",
	},
	[]string{"step", "result"},
)

// PremiumPromotionsTotal counts accounts promoted to premium by a capture.
var PremiumPromotionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promotions_total",
		Help:      "Total number of accounts promoted to premium.",
	},
)

// ── Payment provider metrics ──────────────────────────────────────────────────

// ProviderRequestDuration measures calls to the payment provider.
// Labels:
//   - operation: "token", "create_order", "capture_order"
//   - outcome: "ok" or "error"
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of payment provider API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

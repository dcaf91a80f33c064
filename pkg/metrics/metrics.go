package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rolla", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rolla", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// AuthSyncFailures counts user writes where the document store side
	// succeeded but the identity-provider mirror call failed and was swallowed.
	AuthSyncFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rolla", Name: "auth_sync_failures_total", Help: "Swallowed identity-provider failures by user operation."},
		[]string{"op"},
	)
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rolla", Name: "uploads_total", Help: "Upload attempts by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthSyncFailures)
	reg.MustRegister(UploadsTotal)
}

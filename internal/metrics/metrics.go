package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "codelsoft_users"

// NewMutationCounter counts user mutations by result label, e.g.
// "user_created_total".
func NewMutationCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "User mutations by outcome.",
		},
		[]string{"result"})
}

// NewRPCHistogram tracks RPC latency by method and status code.
func NewRPCHistogram(reg prometheus.Registerer) *prometheus.HistogramVec {
	return promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_latency_seconds",
			Help:      "Latency of users RPC calls.",
			Buckets:   prometheus.LinearBuckets(0.01, 0.05, 10),
		},
		[]string{"method", "code"})
}

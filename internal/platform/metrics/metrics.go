package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	IdentitiesRegistered prometheus.Counter
	ProfileUpdates       *prometheus.CounterVec

	ConsentsCreated       prometheus.Counter
	ConsentStatusChanges  *prometheus.CounterVec
	ConsentChecksGranted  prometheus.Counter
	ConsentChecksRejected prometheus.Counter

	AccessGranted   *prometheus.CounterVec
	AccessDenied    *prometheus.CounterVec
	RewardsMinted   prometheus.Counter
	RewardSupply    prometheus.Gauge
	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		IdentitiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credshare_identities_registered_total",
			Help: "Total number of identities registered",
		}),
		ProfileUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credshare_profile_updates_total",
			Help: "Total number of profile updates, labeled by source (authority, owner)",
		}, []string{"source"}),
		ConsentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credshare_consents_created_total",
			Help: "Total number of consent records created",
		}),
		ConsentStatusChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credshare_consent_status_changes_total",
			Help: "Total number of consent status changes, labeled by new status",
		}, []string{"status"}),
		ConsentChecksGranted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credshare_consent_checks_granted_total",
			Help: "Total number of consent checks that reported granted",
		}),
		ConsentChecksRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credshare_consent_checks_rejected_total",
			Help: "Total number of consent checks that reported not granted",
		}),
		AccessGranted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credshare_access_granted_total",
			Help: "Total number of gated reads served, labeled by field",
		}, []string{"field"}),
		AccessDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credshare_access_denied_total",
			Help: "Total number of gated reads denied, labeled by reason",
		}, []string{"reason"}),
		RewardsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credshare_rewards_minted_total",
			Help: "Total number of first-access rewards minted",
		}),
		RewardSupply: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credshare_reward_supply",
			Help: "Current total supply of the reward ledger",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credshare_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records the latency for a given endpoint in seconds.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

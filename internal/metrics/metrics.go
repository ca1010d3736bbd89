package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const Namespace = "faucet"

// Outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomeSubmitted          = "submitted"
	OutcomeInvalidAddress     = "invalid_address"
	OutcomeSubmissionFailed   = "submission_failed"
	OutcomeConfirmationFailed = "confirmation_failed"
	OutcomeTimeout            = "confirmation_timeout"
)

type Metrics struct {
	registry *prometheus.Registry

	fundingRequests *prometheus.CounterVec
	fundedAmount    *prometheus.CounterVec
	fundingDuration *prometheus.HistogramVec

	queueWait prometheus.Histogram
	inFlight  prometheus.Gauge
	nonce     prometheus.Gauge

	info *prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

// NewMetrics registers all faucet metrics plus the Go and process collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = Namespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{"version"}),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "up",
			Help:      "1 if the faucet has finished starting up",
		}),

		fundingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "funding_requests_total",
			Help:      "Count of funding requests by outcome",
		}, []string{"token", "outcome"}),
		fundedAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "funding_amount_total",
			Help:      "Total of token base units sent by accepted funding transfers",
		}, []string{"token", "outcome"}),
		fundingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "funding_duration_seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			Help:      "Duration of a funding request from validation to its terminal outcome",
		}, []string{"token", "outcome"}),

		queueWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_queue_wait_seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			Help:      "Time a request waited for the wallet's submission slot",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transfers_in_flight",
			Help:      "Transfers broadcast but not yet confirmed",
		}),
		nonce: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wallet_next_nonce",
			Help:      "Next nonce the faucet wallet will use",
		}),
	}

	registry.MustRegister(
		m.info, m.up,
		m.fundingRequests, m.fundedAmount, m.fundingDuration,
		m.queueWait, m.inFlight, m.nonce,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordInfo sets a pseudo-metric that contains versioning info.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordFundAction(token string) func(outcome string, amount float64) {
	start := time.Now()
	return func(outcome string, amount float64) {
		m.fundingDuration.WithLabelValues(token, outcome).Observe(time.Since(start).Seconds())
		m.fundingRequests.WithLabelValues(token, outcome).Inc()
		if amount > 0 {
			m.fundedAmount.WithLabelValues(token, outcome).Add(amount)
		}
	}
}

func (m *Metrics) RecordQueueWait(d time.Duration) {
	m.queueWait.Observe(d.Seconds())
}

func (m *Metrics) RecordNonce(nonce uint64) {
	m.nonce.Set(float64(nonce))
}

func (m *Metrics) RecordInFlight(delta int) {
	m.inFlight.Add(float64(delta))
}

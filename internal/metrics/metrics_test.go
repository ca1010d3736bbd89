package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/metrics"
)

func TestFaucetMetrics(t *testing.T) {
	m := metrics.NewMetrics("")

	m.RecordInfo("v1.2.3")
	m.RecordUp()

	onDone := m.RecordFundAction("xbzz")
	onDone(metrics.OutcomeSuccess, 1e15)
	onDone = m.RecordFundAction("xbzz")
	onDone(metrics.OutcomeSuccess, 1e15)
	onDone = m.RecordFundAction("xbzz")
	onDone(metrics.OutcomeSubmissionFailed, 0)

	m.RecordQueueWait(25 * time.Millisecond)
	m.RecordNonce(42)
	m.RecordInFlight(2)
	m.RecordInFlight(-1)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := ""
			for _, l := range metric.GetLabel() {
				labels += l.GetName() + "=" + l.GetValue() + ","
			}
			key := mf.GetName() + "{" + labels + "}"
			switch {
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				values[key] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	require.Equal(t, 2.0, values["faucet_funding_requests_total{outcome=success,token=xbzz,}"])
	require.Equal(t, 1.0, values["faucet_funding_requests_total{outcome=submission_failed,token=xbzz,}"])
	require.Equal(t, 2e15, values["faucet_funding_amount_total{outcome=success,token=xbzz,}"])
	require.NotContains(t, values, "faucet_funding_amount_total{outcome=submission_failed,token=xbzz,}")
	require.Equal(t, 2.0, values["faucet_funding_duration_seconds{outcome=success,token=xbzz,}"])
	require.Equal(t, 1.0, values["faucet_submission_queue_wait_seconds{}"])
	require.Equal(t, 42.0, values["faucet_wallet_next_nonce{}"])
	require.Equal(t, 1.0, values["faucet_transfers_in_flight{}"])
	require.Equal(t, 1.0, values["faucet_up{}"])
	require.Equal(t, 1.0, values["faucet_info{version=v1.2.3,}"])

	count, err := testutil.GatherAndCount(m.Registry(), "faucet_funding_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNoopMetrics(t *testing.T) {
	var m metrics.Metricer = metrics.NoopMetrics{}

	require.NotPanics(t, func() {
		m.RecordInfo("v")
		m.RecordUp()
		m.RecordFundAction("xbzz")(metrics.OutcomeSuccess, 1)
		m.RecordQueueWait(time.Second)
		m.RecordNonce(1)
		m.RecordInFlight(1)
	})
}

package metrics

import "time"

// Metricer records funding activity. The faucet service depends on this interface only.
type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	// RecordFundAction starts timing one funding request, onDone records its outcome.
	RecordFundAction(token string) (onDone func(outcome string, amount float64))
	RecordQueueWait(d time.Duration)
	RecordNonce(nonce uint64)
	RecordInFlight(delta int)
}

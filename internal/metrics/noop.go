package metrics

import "time"

type NoopMetrics struct{}

var _ Metricer = NoopMetrics{}

func (NoopMetrics) RecordInfo(string) {}

func (NoopMetrics) RecordUp() {}

func (NoopMetrics) RecordFundAction(string) func(string, float64) {
	return func(string, float64) {}
}

func (NoopMetrics) RecordQueueWait(time.Duration) {}

func (NoopMetrics) RecordNonce(uint64) {}

func (NoopMetrics) RecordInFlight(int) {}

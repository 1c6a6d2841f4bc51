package service

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordStageLatency(stage string, seconds float64)
	RecordStageOutcome(stage, status string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordAgentRetry(agent string)
	RecordBreakerState(agent string, open bool)
	RecordRequest(status string)
}

// NopMetrics discards every signal. Used in tests.
type NopMetrics struct{}

func (NopMetrics) RecordStageLatency(string, float64) {}
func (NopMetrics) RecordStageOutcome(string, string)  {}
func (NopMetrics) RecordCacheHit()                    {}
func (NopMetrics) RecordCacheMiss()                   {}
func (NopMetrics) RecordAgentRetry(string)            {}
func (NopMetrics) RecordBreakerState(string, bool)    {}
func (NopMetrics) RecordRequest(string)               {}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline metrics through Prometheus.
type Recorder struct {
	stageLatency  *prometheus.HistogramVec
	stageOutcomes *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	agentRetries  *prometheus.CounterVec
	breakerState  *prometheus.GaugeVec
	requests      *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "preapprove_stage_duration_seconds",
				Help:    "Duration of pipeline stage calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preapprove_stage_outcomes_total",
				Help: "Stage completions by terminal status",
			},
			[]string{"stage", "status"},
		),
		cacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "preapprove_cache_hits_total",
				Help: "Pipeline cache hits",
			},
		),
		cacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "preapprove_cache_misses_total",
				Help: "Pipeline cache misses",
			},
		),
		agentRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preapprove_agent_retries_total",
				Help: "Retry attempts per agent",
			},
			[]string{"agent"},
		),
		breakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "preapprove_breaker_open",
				Help: "Circuit breaker state per agent (1 open, 0 closed)",
			},
			[]string{"agent"},
		),
		requests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preapprove_requests_total",
				Help: "Pre-approval requests by result status",
			},
			[]string{"status"},
		),
	}
}

// RecordStageLatency records one stage call duration.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordStageOutcome counts a stage's terminal status.
func (r *Recorder) RecordStageOutcome(stage, status string) {
	r.stageOutcomes.WithLabelValues(stage, status).Inc()
}

// RecordCacheHit counts a pipeline cache hit.
func (r *Recorder) RecordCacheHit() {
	r.cacheHits.Inc()
}

// RecordCacheMiss counts a pipeline cache miss.
func (r *Recorder) RecordCacheMiss() {
	r.cacheMisses.Inc()
}

// RecordAgentRetry counts one retry attempt for an agent.
func (r *Recorder) RecordAgentRetry(agent string) {
	r.agentRetries.WithLabelValues(agent).Inc()
}

// RecordBreakerState sets the breaker gauge for an agent.
func (r *Recorder) RecordBreakerState(agent string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	r.breakerState.WithLabelValues(agent).Set(v)
}

// RecordRequest counts one pre-approval request by result status.
func (r *Recorder) RecordRequest(status string) {
	r.requests.WithLabelValues(status).Inc()
}

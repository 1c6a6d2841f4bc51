package models

import "errors"

// Error taxonomy shared across the pipeline. Only ErrUserNotFound,
// ErrUpstreamUnavailable, and ErrPipelineAborted ever surface to callers;
// everything else is absorbed into degraded stage outcomes.
var (
	ErrUpstreamUnavailable  = errors.New("upstream banking services unavailable")
	ErrUserNotFound         = errors.New("user not found")
	ErrAgentTimeout         = errors.New("agent call timed out")
	ErrAgentCircuitOpen     = errors.New("agent circuit breaker open")
	ErrAgentInvalidResponse = errors.New("agent returned invalid response")
	ErrPipelineAborted      = errors.New("mandatory pipeline stage failed")
	ErrCacheUnavailable     = errors.New("cache unavailable")
)

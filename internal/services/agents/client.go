package agents

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
	"PreApprove/pkg/config"
	httpclient "PreApprove/pkg/http"
	"PreApprove/pkg/logger"
)

// caller holds the retry, timeout and breaker machinery shared by every
// agent client.
type caller struct {
	http           *httpclient.Client
	breaker        *Breaker
	logger         *logger.Logger
	metrics        service.Metrics
	attemptTimeout time.Duration
	maxAttempts    int
	backoffBase    time.Duration
	backoffFactor  float64
}

func newCaller(cfg config.AgentsConfig, l *logger.Logger, m service.Metrics) *caller {
	if m == nil {
		m = service.NopMetrics{}
	}
	return &caller{
		http:           httpclient.NewClient(httpclient.WithTimeout(cfg.AttemptTimeout + time.Second)),
		breaker:        NewBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		logger:         l,
		metrics:        m,
		attemptTimeout: cfg.AttemptTimeout,
		maxAttempts:    cfg.MaxAttempts,
		backoffBase:    cfg.BackoffBase,
		backoffFactor:  cfg.BackoffFactor,
	}
}

// post calls an agent endpoint with the payload and decodes the JSON reply
// into dest. It retries transient failures with exponential backoff and
// consults the per-agent circuit breaker before touching the network.
func (c *caller) post(ctx context.Context, agent, url string, payload, dest interface{}) error {
	if !c.breaker.Allow(agent) {
		c.metrics.RecordBreakerState(agent, true)
		return fmt.Errorf("%w: %s", models.ErrAgentCircuitOpen, agent)
	}
	if err := ctx.Err(); err != nil {
		// The run was already cancelled; do not count this against the agent.
		return c.classify(agent, err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.RecordAgentRetry(agent)
			select {
			case <-ctx.Done():
				return c.classify(agent, ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		err := c.http.SendAndParse(attemptCtx, &httpclient.RequestOptions{
			Method: httpclient.MethodPost,
			URL:    url,
			Body:   payload,
		}, dest)
		cancel()

		if err == nil {
			c.breaker.Success(agent)
			c.metrics.RecordBreakerState(agent, false)
			return nil
		}

		lastErr = c.classify(agent, err)
		if !c.retryable(err) {
			break
		}
		if attempt < c.maxAttempts {
			c.logger.Warn("agent call failed, will retry",
				logger.String("agent", agent),
				logger.Int("attempt", attempt),
				logger.Error(err))
		}
	}

	if ctx.Err() == nil {
		// Count only genuine agent failures toward the breaker, not calls the
		// caller cancelled.
		if c.breaker.Failure(agent) {
			c.metrics.RecordBreakerState(agent, true)
		}
	}
	return lastErr
}

// retryable reports whether err is worth another attempt. Timeouts, transport
// failures and 5xx responses are transient; anything the agent rejected with a
// 4xx is not.
func (c *caller) retryable(err error) bool {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}

// classify maps a raw call error onto the domain error taxonomy.
func (c *caller) classify(agent string, err error) error {
	var statusErr *httpclient.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %v", models.ErrAgentTimeout, agent, err)
	case errors.As(err, &statusErr):
		if statusErr.Code >= 500 {
			return fmt.Errorf("%w: %s: status %d", models.ErrUpstreamUnavailable, agent, statusErr.Code)
		}
		return fmt.Errorf("%w: %s: status %d", models.ErrAgentInvalidResponse, agent, statusErr.Code)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("agent %s: %w", agent, err)
	default:
		return fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, agent, err)
	}
}

// backoff returns the delay before the given attempt, with jitter.
func (c *caller) backoff(attempt int) time.Duration {
	d := float64(c.backoffBase)
	for i := 2; i < attempt; i++ {
		d *= c.backoffFactor
	}
	jitter := 0.5 + rand.Float64() // 0.5x to 1.5x
	return time.Duration(d * jitter)
}

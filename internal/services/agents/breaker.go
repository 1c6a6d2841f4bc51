package agents

import (
	"sync"
	"time"
)

type breakerEntry struct {
	failures int
	openedAt time.Time
	open     bool
}

// Breaker tracks consecutive failures per agent and trips open once the
// threshold is reached. While open, Allow rejects calls until the cooldown
// elapses; the first success after cooldown resets the entry.
type Breaker struct {
	mu        sync.Mutex
	m         map[string]*breakerEntry
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		m:         make(map[string]*breakerEntry),
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call to key may proceed.
func (b *Breaker) Allow(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[key]
	if !ok || !e.open {
		return true
	}
	if b.now().Sub(e.openedAt) >= b.cooldown {
		// Half-open: close the breaker but leave the count one short of
		// the threshold, so the next failure re-opens it immediately.
		// Callers racing through this window all proceed until then.
		e.open = false
		e.failures = b.threshold - 1
		return true
	}
	return false
}

// Success resets the failure count for key.
func (b *Breaker) Success(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.m[key]; ok {
		e.failures = 0
		e.open = false
	}
}

// Failure records a failed call and trips the breaker at the threshold.
// It returns true when the breaker is open after recording.
func (b *Breaker) Failure(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[key]
	if !ok {
		e = &breakerEntry{}
		b.m[key] = e
	}
	e.failures++
	if e.failures >= b.threshold {
		e.open = true
		e.openedAt = b.now()
	}
	return e.open
}

// Open reports whether the breaker for key is currently tripped.
func (b *Breaker) Open(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.m[key]
	if !ok || !e.open {
		return false
	}
	return b.now().Sub(e.openedAt) < b.cooldown
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Status reports cache introspection data.
type Status struct {
	EntryCount int           `json:"entry_count"`
	OldestAge  time.Duration `json:"oldest_age"`
}

// Store defines the pipeline-result cache. Values are serialized on Set and
// deserialized into a fresh copy on Get, so a cached entry can never be
// mutated through a previously returned reference.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeleteAll(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
	Close() error
}

// envelope wraps a stored value with its creation time so backends can
// answer oldest-entry queries without extra bookkeeping.
type envelope struct {
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

func seal(value interface{}) ([]byte, time.Time, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, time.Time{}, err
	}
	now := time.Now()
	b, err := json.Marshal(envelope{CreatedAt: now, Payload: payload})
	if err != nil {
		return nil, time.Time{}, err
	}
	return b, now, nil
}

func open(b []byte, dest interface{}) (time.Time, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return time.Time{}, err
	}
	if dest == nil {
		return env.CreatedAt, nil
	}
	return env.CreatedAt, json.Unmarshal(env.Payload, dest)
}

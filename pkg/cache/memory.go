package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	createdAt time.Time
	expireAt  time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryStore implements Store with in-process storage and LRU eviction.
type MemoryStore struct {
	data          map[string]*memoryItem
	access        map[string]time.Time
	mutex         sync.RWMutex
	maxSize       int
	cleanupTicker *time.Ticker
	stop          chan struct{}
}

// NewMemoryStore creates an in-memory cache.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:          make(map[string]*memoryItem),
		access:        make(map[string]time.Time),
		maxSize:       cfg.MaxSize,
		cleanupTicker: time.NewTicker(cfg.CleanupInterval),
		stop:          make(chan struct{}),
	}

	go ms.cleanupExpired()
	return ms
}

func (ms *MemoryStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, createdAt, err := seal(value)
	if err != nil {
		return err
	}

	expireAt := createdAt.Add(ttl)
	if ttl <= 0 {
		expireAt = createdAt.Add(24 * time.Hour)
	}

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if _, exists := ms.data[key]; !exists && len(ms.data) >= ms.maxSize {
		ms.evictLRU()
	}

	ms.data[key] = &memoryItem{
		data:      data,
		createdAt: createdAt,
		expireAt:  expireAt,
	}
	ms.access[key] = createdAt
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, key string, dest interface{}) error {
	ms.mutex.Lock()
	item, exists := ms.data[key]
	if !exists || item.expired() {
		if exists {
			delete(ms.data, key)
			delete(ms.access, key)
		}
		ms.mutex.Unlock()
		return ErrCacheMiss
	}
	ms.access[key] = time.Now()
	data := item.data
	ms.mutex.Unlock()

	// Deserialize outside the lock; data slices are never mutated in place.
	_, err := open(data, dest)
	return err
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	for _, key := range keys {
		delete(ms.data, key)
		delete(ms.access, key)
	}
	return nil
}

func (ms *MemoryStore) DeleteAll(_ context.Context) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.data = make(map[string]*memoryItem)
	ms.access = make(map[string]time.Time)
	return nil
}

func (ms *MemoryStore) Status(_ context.Context) (Status, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	st := Status{}
	now := time.Now()
	var oldest time.Time
	for _, item := range ms.data {
		if item.expired() {
			continue
		}
		st.EntryCount++
		if oldest.IsZero() || item.createdAt.Before(oldest) {
			oldest = item.createdAt
		}
	}
	if !oldest.IsZero() {
		st.OldestAge = now.Sub(oldest)
	}
	return st, nil
}

func (ms *MemoryStore) evictLRU() {
	if len(ms.data) == 0 {
		return
	}

	var oldestKey string
	oldestTime := time.Now()

	for key, accessTime := range ms.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(ms.data, oldestKey)
		delete(ms.access, oldestKey)
	}
}

func (ms *MemoryStore) cleanupExpired() {
	for {
		select {
		case <-ms.cleanupTicker.C:
			ms.mutex.Lock()
			now := time.Now()
			for key, item := range ms.data {
				if now.After(item.expireAt) {
					delete(ms.data, key)
					delete(ms.access, key)
				}
			}
			ms.mutex.Unlock()
		case <-ms.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore) Close() error {
	ms.cleanupTicker.Stop()
	close(ms.stop)
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type doc struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

func TestMemoryStoreSetGet(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	want := doc{Name: "alice", Tags: []string{"a", "b"}}
	if err := ms.Set(ctx, "k1", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got doc
	if err := ms.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != want.Name || len(got.Tags) != 2 {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()

	var got doc
	if err := ms.Get(context.Background(), "absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "k1", doc{Name: "short"}, 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	var got doc
	if err := ms.Get(ctx, "k1", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired entry must miss, got %v", err)
	}
}

func TestMemoryStoreReturnsIndependentCopies(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "k1", doc{Name: "orig", Tags: []string{"x"}}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var first doc
	if err := ms.Get(ctx, "k1", &first); err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Name = "mutated"
	first.Tags[0] = "mutated"

	var second doc
	if err := ms.Get(ctx, "k1", &second); err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.Name != "orig" || second.Tags[0] != "x" {
		t.Fatalf("cached entry was mutated through a returned copy: %+v", second)
	}
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := ms.Set(ctx, k, doc{Name: k}, time.Minute); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := ms.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	st, err := ms.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.EntryCount != 0 {
		t.Fatalf("expected empty cache, got %d entries", st.EntryCount)
	}
}

func TestMemoryStoreStatus(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "old", doc{Name: "old"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := ms.Set(ctx, "new", doc{Name: "new"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	st, err := ms.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", st.EntryCount)
	}
	if st.OldestAge < 30*time.Millisecond {
		t.Fatalf("oldest age %v should reflect the first entry", st.OldestAge)
	}
}

// Hammers a small shared key space from many goroutines. Run with -race to
// check the locking; a concurrent Get may only fail with ErrCacheMiss, and
// any value it does return must be one a writer actually stored.
func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	const (
		workers = 8
		rounds  = 200
		keys    = 4
	)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				key := fmt.Sprintf("k%d", i%keys)
				switch i % 5 {
				case 0:
					if err := ms.Set(ctx, key, doc{Name: key, Tags: []string{"a", "b"}}, time.Minute); err != nil {
						errs <- fmt.Errorf("set %s: %w", key, err)
						return
					}
				case 1:
					if err := ms.Delete(ctx, key); err != nil {
						errs <- fmt.Errorf("delete %s: %w", key, err)
						return
					}
				case 2:
					if w == 0 && i%50 == 2 {
						if err := ms.DeleteAll(ctx); err != nil {
							errs <- fmt.Errorf("delete all: %w", err)
							return
						}
					}
					if _, err := ms.Status(ctx); err != nil {
						errs <- fmt.Errorf("status: %w", err)
						return
					}
				default:
					var got doc
					err := ms.Get(ctx, key, &got)
					if errors.Is(err, ErrCacheMiss) {
						continue
					}
					if err != nil {
						errs <- fmt.Errorf("get %s: %w", key, err)
						return
					}
					if got.Name != key || len(got.Tags) != 2 {
						errs <- fmt.Errorf("get %s returned corrupt value %+v", key, got)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		t.Fatalf("concurrent access: %v", err)
	}
}

func TestMemoryStoreLRUEviction(t *testing.T) {
	ms := NewMemoryStore(WithMemoryMaxSize(2))
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "a", doc{Name: "a"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := ms.Set(ctx, "b", doc{Name: "b"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := ms.Set(ctx, "c", doc{Name: "c"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got doc
	if err := ms.Get(ctx, "a", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("least recently used entry should be evicted, got %v", err)
	}
	if err := ms.Get(ctx, "c", &got); err != nil {
		t.Fatalf("newest entry must survive: %v", err)
	}
}

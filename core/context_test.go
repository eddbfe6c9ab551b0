package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextStore_MergeLaterKeysWin(t *testing.T) {
	store := NewContextStore(Context{"user": "alice"})

	store.Merge(Context{"a": 1})
	got := store.Merge(Context{"a": 2, "b": 3})

	assert.Equal(t, Context{"user": "alice", "a": 2, "b": 3}, got)
	assert.Equal(t, got, store.Get())
}

func TestContextStore_EmptyPatchIsNoOp(t *testing.T) {
	store := NewContextStore(Context{"k": "v"})

	assert.Equal(t, Context{"k": "v"}, store.Merge(nil))
	assert.Equal(t, Context{"k": "v"}, store.Merge(Context{}))
}

func TestContextStore_SnapshotsAreIsolated(t *testing.T) {
	initial := Context{"k": "v"}
	store := NewContextStore(initial)

	snap := store.Get()
	snap["k"] = "mutated"
	initial["k"] = "mutated too"

	assert.Equal(t, "v", store.Get()["k"])

	before := store.Get()
	store.Merge(Context{"k": "new"})
	assert.Equal(t, "v", before["k"], "earlier snapshot must not change")
}

func TestContextStore_NilInitial(t *testing.T) {
	store := NewContextStore(nil)

	assert.NotNil(t, store.Get())
	assert.Empty(t, store.Get())
}

func TestContextStore_ConcurrentMerges(t *testing.T) {
	store := NewContextStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			store.Merge(Context{"last": i, string(rune('a' + i%26)): i})
		}(i)
	}

	wg.Wait()

	got := store.Get()
	assert.Contains(t, got, "last")
	assert.Len(t, got, 27)
}

func TestContext_Merge(t *testing.T) {
	base := Context{"a": 1}
	out := base.Merge(Context{"a": 2, "b": 3})

	assert.Equal(t, Context{"a": 1}, base)
	assert.Equal(t, Context{"a": 2, "b": 3}, out)
}

package core

import (
	"maps"
	"sync"
)

// Context is the shared key/value state threaded through instructions, tools
// and handovers of one conversation. Values should be JSON-serializable.
type Context map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty, non-nil map.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a new Context holding c overlaid with patch. Keys present in
// patch win. Neither input is modified.
func (c Context) Merge(patch Context) Context {
	out := make(Context, len(c)+len(patch))
	maps.Copy(out, c)
	maps.Copy(out, patch)
	return out
}

// ContextStore owns the current Context snapshot of a conversation. Every
// update replaces the snapshot (shallow merge, later keys win); snapshots
// handed out by Get are never mutated afterwards.
//
// Merges are serialized, so tools executing concurrently within one step
// observe deterministic last-writer-wins semantics.
type ContextStore struct {
	mu      sync.RWMutex
	current Context
}

// NewContextStore creates a store seeded with a copy of initial.
func NewContextStore(initial Context) *ContextStore {
	return &ContextStore{current: initial.Clone()}
}

// Get returns a read-only snapshot of the current context.
func (s *ContextStore) Get() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

// Merge applies patch on top of the current snapshot and returns the new one.
// An empty or nil patch is a no-op.
func (s *ContextStore) Merge(patch Context) Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(patch) > 0 {
		s.current = s.current.Merge(patch)
	}

	return s.current.Clone()
}

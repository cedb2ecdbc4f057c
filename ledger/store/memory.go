// Package store provides Ledger implementations.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/warp/provenance-engine/ledger"
)

// =============================================================================
// MEMORY LEDGER - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = clone(value)
	return nil
}

func (m *Memory) RangeScan(_ context.Context, startKey, endKeyExclusive string) ([]ledger.KV, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.KV
	for k, v := range m.entries {
		if k >= startKey && k < endKeyExclusive {
			result = append(result, ledger.KV{Key: k, Value: clone(v)})
		}
	}
	// Map iteration order is random; the contract requires key order.
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *Memory) Query(_ context.Context, sel ledger.Selector) ([]ledger.KV, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type hit struct {
		kv   ledger.KV
		sort string
	}
	var hits []hit
	for k, v := range m.entries {
		var doc map[string]any
		if err := json.Unmarshal(v, &doc); err != nil {
			continue // non-JSON entries are invisible to selector queries
		}
		if !sel.Matches(doc) {
			continue
		}
		hits = append(hits, hit{kv: ledger.KV{Key: k, Value: clone(v)}, sort: sel.SortValue(doc)})
	}

	// Sort value first, key as tiebreaker, so ordering is reproducible.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].sort != hits[j].sort {
			if sel.Descending {
				return hits[i].sort > hits[j].sort
			}
			return hits[i].sort < hits[j].sort
		}
		return hits[i].kv.Key < hits[j].kv.Key
	})

	if sel.Limit > 0 && len(hits) > sel.Limit {
		hits = hits[:sel.Limit]
	}

	result := make([]ledger.KV, len(hits))
	for i, h := range hits {
		result[i] = h.kv
	}
	return result, nil
}

// clone copies a stored value so callers can never mutate the map's
// backing slices. Every read path hands out a copy.
func clone(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

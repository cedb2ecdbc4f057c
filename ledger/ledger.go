/*
ledger.go - The key/value ledger contract

PURPOSE:
  Defines the interface between the deterministic domain engine and the
  durable store that holds all entity state. The engine never talks to a
  database directly - every read and write goes through this contract.

CRITICAL INVARIANTS:
  1. DURABLE SOURCE OF TRUTH: Entities live in the ledger, never in the engine.
  2. NO DELETE: The contract exposes Get/Put/scan/query only. Records are
     superseded by new writes, never removed.
  3. DETERMINISTIC READS: For a fixed stored state, RangeScan and Query must
     return entries in a stable, reproducible order. Independent executions
     of the same operation against the same state must observe identical
     results.

WHY A CONTRACT AND NOT A DATABASE?
  The engine is designed to run inside a replicated execution environment
  where the substrate (transaction ordering, conflict detection, identity)
  is external. Modeling it as a key/value store with range scans and
  selector queries keeps the engine portable across substrates and trivially
  testable against the in-memory implementation.

SEE ALSO:
  - selector.go: The predicate model used by Query
  - store/memory.go: In-memory implementation for tests and dev
  - ../store/sqlite/sqlite.go: SQLite-backed implementation
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// LEDGER - Key/value store with range scans and selector queries
// =============================================================================

// KV is a single stored entry. Value is the raw JSON document.
type KV struct {
	Key   string
	Value []byte
}

// Ledger is the storage contract consumed by the domain engine.
//
// Get returns (nil, nil) for an absent key; absence is not an error.
// RangeScan returns entries with startKey <= key < endKeyExclusive, ordered
// by key ascending. Query evaluates a Selector against the stored JSON
// documents.
type Ledger interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Put(ctx context.Context, key string, value []byte) error

	RangeScan(ctx context.Context, startKey, endKeyExclusive string) ([]KV, error)

	Query(ctx context.Context, sel Selector) ([]KV, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrStorage wraps ledger-level failures. A failed read or write means
	// the operation did not happen; callers must propagate, never swallow.
	ErrStorage = errors.New("ledger storage failure")

	// ErrBadSelector is returned by Query when a Selector fails
	// Validate: a field path that cannot resolve to any document field.
	ErrBadSelector = errors.New("invalid selector")
)

// StorageError carries the failing operation and key for diagnostics.
type StorageError struct {
	Op  string // "get", "put", "scan", "query"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ledger %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

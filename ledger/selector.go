package ledger

import (
	"fmt"
	"strings"
)

// =============================================================================
// SELECTOR - Predicate over stored JSON documents
// =============================================================================

// Selector describes a query against the ledger's secondary index: equality
// match on document fields, optional sort, optional limit.
//
// DocType matches the "docType" discriminator every stored document carries.
// Equality keys are dotted paths into the document ("category",
// "locationData.current.location"); values are compared against the JSON
// field's string form. The engine only selects on string-valued fields.
//
// Ordering contract: results are sorted by SortBy (lexicographic on the
// field's string value), with the entry key as tiebreaker so that two
// documents with equal sort values always come back in the same order.
// RFC 3339 timestamps sort correctly under lexicographic comparison, which
// the engine relies on for "most recent first" listings.
type Selector struct {
	DocType    string
	Equals     map[string]string
	SortBy     string
	Descending bool
	Limit      int // 0 means no limit
}

// Validate rejects selectors whose field paths cannot resolve: an empty
// equality key, or a dotted path with an empty segment. Both stores call
// this before evaluating, so a malformed selector fails the same way
// everywhere.
func (s Selector) Validate() error {
	if s.SortBy != "" && !validPath(s.SortBy) {
		return fmt.Errorf("%w: sort field %q", ErrBadSelector, s.SortBy)
	}
	for field := range s.Equals {
		if !validPath(field) {
			return fmt.Errorf("%w: equality field %q", ErrBadSelector, field)
		}
	}
	return nil
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether a decoded document satisfies the equality
// clauses. Used by the in-memory store; the SQLite store translates the
// same clauses to SQL.
func (s Selector) Matches(doc map[string]any) bool {
	if s.DocType != "" {
		v, ok := FieldString(doc, "docType")
		if !ok || v != s.DocType {
			return false
		}
	}
	for field, want := range s.Equals {
		v, ok := FieldString(doc, field)
		if !ok || v != want {
			return false
		}
	}
	return true
}

// SortValue extracts the sort field's string form from a decoded document.
// Missing or non-string fields sort as the empty string.
func (s Selector) SortValue(doc map[string]any) string {
	if s.SortBy == "" {
		return ""
	}
	v, _ := FieldString(doc, s.SortBy)
	return v
}

// FieldString resolves a dotted path to a string value inside a decoded
// JSON document.
func FieldString(doc map[string]any, path string) (string, bool) {
	parts := strings.Split(path, ".")
	cur := any(doc)
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[p]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

/*
query.go - Selector queries over the product set

PURPOSE:
  Translates the engine's read-only product listings into selector queries
  against the ledger's secondary index and deserializes the results.

TOLERANT DECODE:
  A stored entry that fails to parse is a data-quality issue, not a reason
  to fail the whole listing. Such entries are logged and skipped, as a
  plain filter-map - no special error channel.
*/
package provenance

import (
	"context"
	"encoding/json"

	"github.com/warp/provenance-engine/ledger"
)

// QueryAllProducts returns every product, ordered by id.
func (e *Engine) QueryAllProducts(ctx context.Context) ([]Product, error) {
	return e.queryProducts(ctx, nil)
}

// QueryProductsByCategory returns products whose category matches exactly.
func (e *Engine) QueryProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return e.queryProducts(ctx, map[string]string{"category": category})
}

// QueryProductsByLocation returns products currently at the given location.
// Matches the current entry only; historical stops are not indexed.
func (e *Engine) QueryProductsByLocation(ctx context.Context, location string) ([]Product, error) {
	return e.queryProducts(ctx, map[string]string{"locationData.current.location": location})
}

func (e *Engine) queryProducts(ctx context.Context, equals map[string]string) ([]Product, error) {
	kvs, err := e.ledger.Query(ctx, ledger.Selector{
		DocType: DocTypeProduct,
		Equals:  equals,
		SortBy:  "id",
	})
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(kvs))
	for _, kv := range kvs {
		var p Product
		if err := json.Unmarshal(kv.Value, &p); err != nil {
			e.cfg.Logger.Printf("skipping corrupt product at %s: %v", kv.Key, err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

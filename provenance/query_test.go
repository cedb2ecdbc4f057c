package provenance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/provenance-engine/ledger/store"
	"github.com/warp/provenance-engine/provenance"
)

func seedQueryFixture(t *testing.T, engine *provenance.Engine) {
	t.Helper()
	ctx := context.Background()

	coffee := validProduct("P1")
	coffee.Category = "coffee"
	require.NoError(t, engine.CreateProduct(ctx, coffee, stamp(1)))

	cocoa := validProduct("P2")
	cocoa.Category = "cocoa"
	require.NoError(t, engine.CreateProduct(ctx, cocoa, stamp(2)))

	moved := validProduct("P3")
	moved.Category = "coffee"
	require.NoError(t, engine.CreateProduct(ctx, moved, stamp(3)))
	require.NoError(t, engine.ShipProduct(ctx, "P3", "Warehouse A", "2021-06-26T00:00:00.000Z", stamp(4)))
}

func TestQueryAllProducts(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedQueryFixture(t, engine)

	products, err := engine.QueryAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Ordered by id for reproducible listings.
	assert.Equal(t, "P1", products[0].ID)
	assert.Equal(t, "P2", products[1].ID)
	assert.Equal(t, "P3", products[2].ID)
}

func TestQueryProductsByCategory(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedQueryFixture(t, engine)

	coffee, err := engine.QueryProductsByCategory(context.Background(), "coffee")
	require.NoError(t, err)
	assert.Len(t, coffee, 2)

	none, err := engine.QueryProductsByCategory(context.Background(), "tea")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQueryProductsByLocation(t *testing.T) {
	// Matches the current location only; P3 moved away from the farm.

	engine, _ := newTestEngine(t)
	seedQueryFixture(t, engine)

	atFarm, err := engine.QueryProductsByLocation(context.Background(), "Huila Farm Cooperative")
	require.NoError(t, err)
	assert.Len(t, atFarm, 2)

	atWarehouse, err := engine.QueryProductsByLocation(context.Background(), "Warehouse A")
	require.NoError(t, err)
	require.Len(t, atWarehouse, 1)
	assert.Equal(t, "P3", atWarehouse[0].ID)
}

func TestQueryProducts_SkipsCorruptEntries(t *testing.T) {
	// A corrupt stored product must not fail the listing; valid ones
	// still come back.

	mem := store.NewMemory()
	engine := provenance.NewQuiet(mem, provenance.Config{})
	ctx := context.Background()

	require.NoError(t, engine.CreateProduct(ctx, validProduct("P1"), stamp(1)))
	require.NoError(t, mem.Put(ctx, "product:corrupt", []byte(`{"docType":"product","id":123}`)))

	products, err := engine.QueryAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P1", products[0].ID)
}

package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/provenance-engine/ledger"
	"github.com/warp/provenance-engine/provenance"
	"github.com/warp/provenance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) *sqlite.Ledger {
	t.Helper()
	l, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

// =============================================================================
// LEDGER CONTRACT
// =============================================================================

func TestSQLite_GetAbsentKey(t *testing.T) {
	l := newTestLedger(t)

	data, err := l.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, data, "absence is not an error")
}

func TestSQLite_PutGetOverwrite(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "k", []byte(`{"docType":"product","v":1}`)))
	require.NoError(t, l.Put(ctx, "k", []byte(`{"docType":"product","v":2}`)))

	data, err := l.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"docType":"product","v":2}`, string(data))
}

func TestSQLite_RangeScan(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "quality:P1:a", []byte(`{}`)))
	require.NoError(t, l.Put(ctx, "quality:P1:b", []byte(`{}`)))
	require.NoError(t, l.Put(ctx, "quality:P2:a", []byte(`{}`)))

	kvs, err := l.RangeScan(ctx, "quality:P1:", "quality:P1;")
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	assert.Equal(t, "quality:P1:a", kvs[0].Key)
	assert.Equal(t, "quality:P1:b", kvs[1].Key)
}

func TestSQLite_QuerySelector(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "n:1", []byte(`{"docType":"notification","timestamp":"2021-01-01T00:00:00Z"}`)))
	require.NoError(t, l.Put(ctx, "n:2", []byte(`{"docType":"notification","timestamp":"2021-03-01T00:00:00Z"}`)))
	require.NoError(t, l.Put(ctx, "p:1", []byte(`{"docType":"product","timestamp":"2021-02-01T00:00:00Z"}`)))

	kvs, err := l.Query(ctx, ledger.Selector{
		DocType:    "notification",
		SortBy:     "timestamp",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, kvs, 2)
	assert.Equal(t, "n:2", kvs[0].Key, "newest first")
	assert.Equal(t, "n:1", kvs[1].Key)
}

func TestSQLite_QueryNestedEquality(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "p:1",
		[]byte(`{"docType":"product","category":"coffee","locationData":{"current":{"location":"Warehouse A"}}}`)))
	require.NoError(t, l.Put(ctx, "p:2",
		[]byte(`{"docType":"product","category":"coffee","locationData":{"current":{"location":"Warehouse B"}}}`)))

	kvs, err := l.Query(ctx, ledger.Selector{
		DocType: "product",
		Equals:  map[string]string{"locationData.current.location": "Warehouse B"},
	})
	require.NoError(t, err)
	require.Len(t, kvs, 1)
	assert.Equal(t, "p:2", kvs[0].Key)
}

func TestSQLite_QueryLimit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for _, k := range []string{"n:1", "n:2", "n:3"} {
		require.NoError(t, l.Put(ctx, k, []byte(`{"docType":"notification"}`)))
	}

	kvs, err := l.Query(ctx, ledger.Selector{DocType: "notification", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, kvs, 2)
}

func TestSQLite_QueryRejectsBadSelector(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Query(context.Background(), ledger.Selector{Equals: map[string]string{"": "x"}})
	assert.ErrorIs(t, err, ledger.ErrBadSelector)
}

// =============================================================================
// ENGINE ON SQLITE - Full stack smoke test
// =============================================================================

func TestEngineOnSQLite(t *testing.T) {
	// The engine must behave identically on the SQLite ledger and the
	// in-memory one. Exercise the main flow end to end.

	l := newTestLedger(t)
	engine := provenance.New(l, provenance.Config{})
	ctx := context.Background()

	p := provenance.Product{
		ID:               "P1",
		Name:             "Arabica Coffee Beans",
		Barcode:          "8901234567890",
		PlaceOfOrigin:    "Huila, Colombia",
		ProductionDate:   "2021-06-24T18:25:43.511Z",
		ExpirationDate:   "2021-06-25T18:25:43.511Z",
		UnitQuantity:     60,
		UnitQuantityType: "kg",
		UnitPrice:        "$8.50",
		Category:         "coffee",
		LocationData: provenance.ProductLocationData{
			Current: provenance.ProductLocationEntry{
				Location:    "Huila Farm Cooperative",
				ArrivalDate: "2021-06-24T18:25:43.511Z",
			},
		},
	}
	require.NoError(t, engine.CreateProduct(ctx, p,
		provenance.EventStamp{ID: "evt-1", At: "2021-06-24T18:30:00.000Z"}))
	require.NoError(t, engine.ShipProduct(ctx, "P1", "Warehouse A", "2021-06-26T00:00:00.000Z",
		provenance.EventStamp{ID: "evt-2", At: "2021-06-26T00:00:00.000Z"}))
	require.NoError(t, engine.AddQualityRecord(ctx, "P1", provenance.QualityRecord{
		Inspector: "M. Rojas",
		Score:     45,
		Notes:     "Off-flavor detected",
		Timestamp: "2021-06-26T10:00:00.000Z",
	}, provenance.EventStamp{ID: "evt-3", At: "2021-06-26T10:00:00.000Z"}))

	got, err := engine.GetProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Warehouse A", got.LocationData.Current.Location)
	require.Len(t, got.LocationData.Previous, 1)

	byLocation, err := engine.QueryProductsByLocation(ctx, "Warehouse A")
	require.NoError(t, err)
	assert.Len(t, byLocation, 1)

	records, err := engine.GetQualityRecords(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 45, records[0].Score)

	notifications, err := engine.Notifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, provenance.SeverityError, notifications[0].Severity)

	require.NoError(t, engine.AcknowledgeNotification(ctx, notifications[0].ID))
	data, err := engine.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.TotalProducts)
	assert.Equal(t, 45.0, data.QualityScore)
}

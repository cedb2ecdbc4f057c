package provenance_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/provenance-engine/provenance"
)

// =============================================================================
// EMPTY LEDGER DEFAULTS
// =============================================================================

func TestAnalytics_EmptyLedger(t *testing.T) {
	engine, _ := newTestEngine(t)

	data, err := engine.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, data.TotalProducts)
	assert.Equal(t, 0, data.ActiveShipments)
	assert.Equal(t, 0, data.CompletedDeliveries)
	assert.Equal(t, 0, data.AverageDeliveryTime)
	assert.Equal(t, float64(100), data.OnTimeDeliveryRate, "no measured deliveries counts as full compliance")
	assert.Equal(t, 95.0, data.QualityScore, "default score when no records exist")
	assert.Empty(t, data.CategoryStats)
	assert.Empty(t, data.LocationStats)
	assert.Empty(t, data.MonthlyTrends)
}

// =============================================================================
// POPULATED LEDGER
// =============================================================================

// seedAnalyticsFixture loads three products:
//   - P1: coffee, never shipped
//   - P2: coffee, shipped once, delivered in 4 days (on time)
//   - P3: cocoa, shipped twice, delivered in 17 days (late)
func seedAnalyticsFixture(t *testing.T, engine *provenance.Engine) {
	t.Helper()
	ctx := context.Background()

	p1 := validProduct("P1")
	p1.Category = "coffee"
	p1.ProductionDate = "2021-05-10T08:00:00.000Z"
	p1.ExpirationDate = "2022-05-10T08:00:00.000Z"
	p1.LocationData.Current.ArrivalDate = "2021-05-10T08:00:00.000Z"
	require.NoError(t, engine.CreateProduct(ctx, p1, stamp(1)))

	p2 := validProduct("P2")
	p2.Category = "coffee"
	p2.ProductionDate = "2021-06-01T08:00:00.000Z"
	p2.ExpirationDate = "2022-06-01T08:00:00.000Z"
	p2.LocationData.Current.ArrivalDate = "2021-06-01T08:00:00.000Z"
	require.NoError(t, engine.CreateProduct(ctx, p2, stamp(2)))
	require.NoError(t, engine.ShipProduct(ctx, "P2", "Warehouse A", "2021-06-05T08:00:00.000Z", stamp(3)))

	p3 := validProduct("P3")
	p3.Category = "cocoa"
	p3.ProductionDate = "2021-06-15T08:00:00.000Z"
	p3.ExpirationDate = "2022-06-15T08:00:00.000Z"
	p3.LocationData.Current.ArrivalDate = "2021-06-15T08:00:00.000Z"
	require.NoError(t, engine.CreateProduct(ctx, p3, stamp(4)))
	require.NoError(t, engine.ShipProduct(ctx, "P3", "Port of Callao", "2021-06-20T08:00:00.000Z", stamp(5)))
	require.NoError(t, engine.ShipProduct(ctx, "P3", "Warehouse B", "2021-07-02T08:00:00.000Z", stamp(6)))
}

func TestAnalytics_CategoryAndLocationStats(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedAnalyticsFixture(t, engine)

	data, err := engine.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, data.TotalProducts)
	assert.Equal(t, map[string]int{"coffee": 2, "cocoa": 1}, data.CategoryStats)
	assert.Equal(t, map[string]int{
		"Huila Farm Cooperative": 1, // P1, never moved
		"Warehouse A":            1,
		"Warehouse B":            1,
	}, data.LocationStats)
}

func TestAnalytics_ShipmentCounts(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedAnalyticsFixture(t, engine)

	data, err := engine.Analytics(context.Background())
	require.NoError(t, err)

	// P2 (1 transition) and P3 (2 transitions) are in flight; a product
	// with 2 transitions counts as both active and completed.
	assert.Equal(t, 2, data.ActiveShipments)
	assert.Equal(t, 1, data.CompletedDeliveries)
}

func TestAnalytics_DeliveryTimes(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedAnalyticsFixture(t, engine)

	data, err := engine.Analytics(context.Background())
	require.NoError(t, err)

	// P2: 4 days (on time), P3: 17 days (late). Mean 10.5 -> 10 whole days.
	assert.Equal(t, 10, data.AverageDeliveryTime)
	assert.Equal(t, 50.0, data.OnTimeDeliveryRate)
}

func TestAnalytics_QualityScore(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedAnalyticsFixture(t, engine)
	ctx := context.Background()

	q := validQualityRecord()
	q.Score = 90
	require.NoError(t, engine.AddQualityRecord(ctx, "P1", q, stamp(20)))

	q = validQualityRecord()
	q.Score = 81
	require.NoError(t, engine.AddQualityRecord(ctx, "P2", q, stamp(21)))

	data, err := engine.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 85.5, data.QualityScore, "mean of 90 and 81, one decimal")
}

func TestAnalytics_MonthlyTrends(t *testing.T) {
	engine, _ := newTestEngine(t)
	seedAnalyticsFixture(t, engine)

	data, err := engine.Analytics(context.Background())
	require.NoError(t, err)

	// Production months: May (P1), June (P2, P3). Shipment months come
	// from the current arrival of moved products: June (P2), July (P3).
	assert.Equal(t, []provenance.MonthlyTrend{
		{Month: "May 2021", Products: 1, Shipments: 0},
		{Month: "Jun 2021", Products: 2, Shipments: 1},
		{Month: "Jul 2021", Products: 0, Shipments: 1},
	}, data.MonthlyTrends)
}

func TestAnalytics_TrendsKeepMostRecentSixMonths(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// Nine products across nine consecutive months.
	for i := 1; i <= 9; i++ {
		p := validProduct(fmt.Sprintf("P%d", i))
		p.ProductionDate = fmt.Sprintf("2021-%02d-01T00:00:00.000Z", i)
		p.ExpirationDate = fmt.Sprintf("2022-%02d-01T00:00:00.000Z", i)
		p.LocationData.Current.ArrivalDate = p.ProductionDate
		require.NoError(t, engine.CreateProduct(ctx, p, stamp(i)))
	}

	data, err := engine.Analytics(ctx)
	require.NoError(t, err)

	require.Len(t, data.MonthlyTrends, 6)
	assert.Equal(t, "Apr 2021", data.MonthlyTrends[0].Month, "oldest kept bucket")
	assert.Equal(t, "Sep 2021", data.MonthlyTrends[5].Month, "most recent bucket last")
}

/*
analytics.go - Derived statistics over the full product and quality sets

PURPOSE:
  Computes a recomputed-on-demand snapshot from one read-only pass over all
  products plus all quality records: category/location distributions,
  month-bucketed trend series, delivery-time statistics, and the mean
  quality score.

DETERMINISM:
  Averages and rates are computed with decimal arithmetic so every replica
  rounds identically. Map-keyed aggregates are emitted in sorted key order.

DEFAULTS WORTH KNOWING:
  - onTimeDeliveryRate is 100 when no delivery has been measured: absence
    of evidence is treated as full compliance.
  - qualityScore is 95.0 when no quality records exist.

SEE ALSO:
  - query.go: Product listing this walks
  - quality.go: Record listing this walks
*/
package provenance

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/provenance-engine/ledger"
)

const (
	onTimeThresholdDays = 7
	trendMonths         = 6

	defaultQualityScore = 95.0
)

// monthBucketLayout keys trend buckets; monthLabelLayout renders them.
const (
	monthBucketLayout = "2006-01"
	monthLabelLayout  = "Jan 2006"
)

// =============================================================================
// COMPUTE
// =============================================================================

// Analytics computes the full snapshot. Read-only; nothing is written.
func (e *Engine) Analytics(ctx context.Context) (AnalyticsData, error) {
	products, err := e.QueryAllProducts(ctx)
	if err != nil {
		return AnalyticsData{}, err
	}
	scores, err := e.allQualityScores(ctx)
	if err != nil {
		return AnalyticsData{}, err
	}

	data := AnalyticsData{
		TotalProducts:      len(products),
		OnTimeDeliveryRate: 100,
		QualityScore:       defaultQualityScore,
		CategoryStats:      make(map[string]int),
		LocationStats:      make(map[string]int),
		MonthlyTrends:      []MonthlyTrend{},
	}

	months := make(map[string]*monthCounts)
	bump := func(bucket string) *monthCounts {
		mc, ok := months[bucket]
		if !ok {
			mc = &monthCounts{}
			months[bucket] = mc
		}
		return mc
	}

	var (
		totalDelivery    time.Duration
		deliveriesOnTime int
		deliveriesTotal  int
	)

	for _, p := range products {
		data.CategoryStats[p.Category]++
		data.LocationStats[p.LocationData.Current.Location]++

		transitions := len(p.LocationData.Previous)
		if transitions >= 1 && transitions <= 2 {
			data.ActiveShipments++
		}
		if transitions >= 2 {
			data.CompletedDeliveries++
		}

		if produced, err := ParseTimestamp(p.ProductionDate); err == nil {
			bump(produced.UTC().Format(monthBucketLayout)).products++
		}

		// The current arrival corresponds to a shipment only when the
		// product has actually moved; the origin entry is not a shipment.
		if transitions > 0 {
			if arrived, err := ParseTimestamp(p.LocationData.Current.ArrivalDate); err == nil {
				bump(arrived.UTC().Format(monthBucketLayout)).shipments++
			}
		}

		if transitions > 0 {
			first, errFirst := ParseTimestamp(p.LocationData.Previous[0].ArrivalDate)
			last, errLast := ParseTimestamp(p.LocationData.Current.ArrivalDate)
			if errFirst == nil && errLast == nil {
				elapsed := last.Sub(first)
				totalDelivery += elapsed
				deliveriesTotal++
				if elapsed <= onTimeThresholdDays*24*time.Hour {
					deliveriesOnTime++
				}
			}
		}
	}

	if deliveriesTotal > 0 {
		avg := totalDelivery / time.Duration(deliveriesTotal)
		data.AverageDeliveryTime = int(avg / (24 * time.Hour))

		rate := decimal.NewFromInt(int64(deliveriesOnTime) * 100).
			DivRound(decimal.NewFromInt(int64(deliveriesTotal)), 1)
		data.OnTimeDeliveryRate, _ = rate.Float64()
	}

	if len(scores) > 0 {
		sum := decimal.Zero
		for _, s := range scores {
			sum = sum.Add(decimal.NewFromInt(int64(s)))
		}
		mean := sum.DivRound(decimal.NewFromInt(int64(len(scores))), 1)
		data.QualityScore, _ = mean.Float64()
	}

	data.MonthlyTrends = renderTrends(months, trendMonths)
	return data, nil
}

type monthCounts struct {
	products  int
	shipments int
}

// renderTrends keeps the most recent n buckets, chronological, with the
// month rendered as a short human label.
func renderTrends(months map[string]*monthCounts, n int) []MonthlyTrend {
	buckets := make([]string, 0, len(months))
	for b := range months {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets) // YYYY-MM sorts chronologically
	if len(buckets) > n {
		buckets = buckets[len(buckets)-n:]
	}

	trends := make([]MonthlyTrend, 0, len(buckets))
	for _, b := range buckets {
		label := b
		if t, err := time.Parse(monthBucketLayout, b); err == nil {
			label = t.Format(monthLabelLayout)
		}
		trends = append(trends, MonthlyTrend{
			Month:     label,
			Products:  months[b].products,
			Shipments: months[b].shipments,
		})
	}
	return trends
}

// allQualityScores walks every stored quality record. Corrupt entries are
// skipped, consistent with listing behavior.
func (e *Engine) allQualityScores(ctx context.Context) ([]int, error) {
	kvs, err := e.ledger.Query(ctx, ledger.Selector{DocType: DocTypeQuality, SortBy: "timestamp"})
	if err != nil {
		return nil, err
	}
	scores := make([]int, 0, len(kvs))
	for _, kv := range kvs {
		var q QualityRecord
		if err := json.Unmarshal(kv.Value, &q); err != nil {
			e.cfg.Logger.Printf("skipping corrupt quality record at %s: %v", kv.Key, err)
			continue
		}
		scores = append(scores, q.Score)
	}
	return scores, nil
}

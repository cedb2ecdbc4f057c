/*
quality.go - Append-only quality inspection records

PURPOSE:
  Stores per-product inspection records under keys combining the product id
  and the write instant, so multiple records per product coexist. Records
  are immutable once written; there is no update or delete path.

SEVERITY DERIVATION:
  Each added record emits a quality_check notification whose severity is
  derived from the score:
    score >= 80        -> info
    60 <= score < 80   -> warning
    score < 60         -> error

SEE ALSO:
  - validate.go: Record validation
  - notification.go: Event emission
*/
package provenance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	qualityInfoThreshold    = 80
	qualityWarningThreshold = 60
)

// =============================================================================
// ADD
// =============================================================================

// AddQualityRecord validates and persists an inspection record for an
// existing product, then emits a quality_check notification.
func (e *Engine) AddQualityRecord(ctx context.Context, productID string, q QualityRecord, stamp EventStamp) error {
	exists, err := e.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Kind: "product", ID: productID}
	}

	q.DocType = DocTypeQuality
	q.ProductID = productID
	if err := ValidateQualityRecord(q); err != nil {
		return err
	}

	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("quality record for %s: marshal: %w", productID, err)
	}
	if err := e.ledger.Put(ctx, e.qualityKey(productID, stamp), data); err != nil {
		return err
	}

	e.emitDiscarding(ctx, Notification{
		ID:        stamp.ID,
		ProductID: productID,
		Type:      NotificationQualityCheck,
		Message:   fmt.Sprintf("Quality check by %s scored %d", q.Inspector, q.Score),
		Timestamp: stamp.At,
		Location:  q.Location,
		Severity:  SeverityForScore(q.Score),
	})
	return nil
}

// SeverityForScore maps an inspection score to a notification severity.
func SeverityForScore(score int) Severity {
	switch {
	case score >= qualityInfoThreshold:
		return SeverityInfo
	case score >= qualityWarningThreshold:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// =============================================================================
// LIST
// =============================================================================

// GetQualityRecords returns every record for the product, most recent
// first. Malformed stored entries are skipped rather than failing the
// whole listing: one corrupt record must not take down the call.
func (e *Engine) GetQualityRecords(ctx context.Context, productID string) ([]QualityRecord, error) {
	start, end := e.qualityRange(productID)
	kvs, err := e.ledger.RangeScan(ctx, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]QualityRecord, 0, len(kvs))
	for _, kv := range kvs {
		var q QualityRecord
		if err := json.Unmarshal(kv.Value, &q); err != nil {
			e.cfg.Logger.Printf("skipping corrupt quality record at %s: %v", kv.Key, err)
			continue
		}
		// Composite keys are not escaped, so an id containing ':' lands
		// inside another id's range. The stored productId settles ownership.
		if q.ProductID != productID {
			continue
		}
		records = append(records, q)
	}

	// Timestamp descending. SliceStable keeps key order for equal
	// timestamps, so every replica produces the same sequence.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

/*
validate.go - Pure validation of incoming payloads

PURPOSE:
  Structural and business-rule checks on Product and QualityRecord inputs
  before any mutation. Validation never touches the ledger and has no side
  effects, so it is trivially deterministic and unit-testable.

RULES (products):
  - Required: id, name, barcode, placeOfOrigin, productionDate,
    expirationDate, unitQuantity, unitQuantityType, unitPrice, category,
    locationData.current.{location, arrivalDate}
  - unitQuantity must be positive; batchQuantity, when given, likewise
  - Dates must be RFC 3339 strings with a literal 'T' separator
  - expirationDate must be strictly after productionDate
  - name <= 100 chars, placeOfOrigin <= 200 chars

RULES (quality records):
  - Required: inspector, notes, timestamp
  - score within [0, 100]; 0 and 100 inclusive
  - timestamp must parse

SEE ALSO:
  - product.go, quality.go: Callers
*/
package provenance

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxNameLen          = 100
	maxPlaceOfOriginLen = 200

	minQualityScore = 0
	maxQualityScore = 100
)

// =============================================================================
// PRODUCT VALIDATION
// =============================================================================

// ValidateProduct checks a product payload. Returns a *ValidationError on
// the first rule violation, nil otherwise.
func ValidateProduct(p Product) error {
	required := []struct {
		field string
		value string
	}{
		{"id", p.ID},
		{"name", p.Name},
		{"barcode", p.Barcode},
		{"placeOfOrigin", p.PlaceOfOrigin},
		{"productionDate", p.ProductionDate},
		{"expirationDate", p.ExpirationDate},
		{"unitQuantityType", p.UnitQuantityType},
		{"unitPrice", p.UnitPrice},
		{"category", p.Category},
		{"locationData.current.location", p.LocationData.Current.Location},
		{"locationData.current.arrivalDate", p.LocationData.Current.ArrivalDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "required"}
		}
	}

	if p.UnitQuantity <= 0 {
		return &ValidationError{Field: "unitQuantity", Reason: "must be positive"}
	}
	if p.BatchQuantity < 0 {
		return &ValidationError{Field: "batchQuantity", Reason: "must be positive when set"}
	}
	if len(p.Name) > maxNameLen {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("exceeds %d characters", maxNameLen)}
	}
	if len(p.PlaceOfOrigin) > maxPlaceOfOriginLen {
		return &ValidationError{Field: "placeOfOrigin", Reason: fmt.Sprintf("exceeds %d characters", maxPlaceOfOriginLen)}
	}

	production, err := ParseTimestamp(p.ProductionDate)
	if err != nil {
		return &ValidationError{Field: "productionDate", Reason: err.Error()}
	}
	expiration, err := ParseTimestamp(p.ExpirationDate)
	if err != nil {
		return &ValidationError{Field: "expirationDate", Reason: err.Error()}
	}
	if _, err := ParseTimestamp(p.LocationData.Current.ArrivalDate); err != nil {
		return &ValidationError{Field: "locationData.current.arrivalDate", Reason: err.Error()}
	}

	// Strictly after; equal instants are rejected.
	if !expiration.After(production) {
		return &ValidationError{Field: "expirationDate", Reason: "must be after productionDate"}
	}

	return nil
}

// =============================================================================
// QUALITY RECORD VALIDATION
// =============================================================================

// ValidateQualityRecord checks a quality inspection payload.
func ValidateQualityRecord(q QualityRecord) error {
	if strings.TrimSpace(q.Inspector) == "" {
		return &ValidationError{Field: "inspector", Reason: "required"}
	}
	if strings.TrimSpace(q.Notes) == "" {
		return &ValidationError{Field: "notes", Reason: "required"}
	}
	if strings.TrimSpace(q.Timestamp) == "" {
		return &ValidationError{Field: "timestamp", Reason: "required"}
	}
	if q.Score < minQualityScore || q.Score > maxQualityScore {
		return &ValidationError{
			Field:  "score",
			Reason: fmt.Sprintf("must be between %d and %d", minQualityScore, maxQualityScore),
		}
	}
	if _, err := ParseTimestamp(q.Timestamp); err != nil {
		return &ValidationError{Field: "timestamp", Reason: err.Error()}
	}
	return nil
}

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

// ParseTimestamp parses an ISO-8601 date-time string. The wire format
// requires a literal 'T' separator; a bare date is not a valid instant.
func ParseTimestamp(s string) (time.Time, error) {
	if !strings.Contains(s, "T") {
		return time.Time{}, fmt.Errorf("not a date-time: %q (missing time component)", s)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a date-time: %q", s)
	}
	return t, nil
}

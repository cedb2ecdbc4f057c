/*
Package provenance implements the deterministic supply-chain domain engine.

PURPOSE:
  Tracks physical goods through a supply chain: creation, shipment between
  locations, quality inspection, and derived analytics over the resulting
  history. All state lives in an external key/value ledger (see the ledger
  package); the engine validates, mutates, and queries it per operation and
  holds nothing between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: The tracked good, keyed by immutable id, with append-only
    location history
  - QualityRecord: Immutable per-product inspection record
  - Notification: Event record derived from mutations, acknowledgeable once
  - AnalyticsData: Recomputed-on-demand snapshot over the full product set

DESIGN PRINCIPLES:
  1. Determinism: The engine is re-executed independently by replicas that
     must agree byte-for-byte. It never reads the wall clock or a PRNG;
     every timestamp or identifier that becomes persisted state arrives as
     an explicit argument.
  2. Append-only history: A product's previous locations are never edited
     or removed; shipping is the only path that touches them.
  3. Opaque payloads: The misc field is caller-owned JSON the engine
     passes through untouched.

WIRE FORMAT:
  All payloads are UTF-8 JSON. Dates are ISO-8601 strings with a literal
  'T' time separator (RFC 3339).

SEE ALSO:
  - validate.go: Structural and business-rule validation
  - product.go: Create/ship/read operations
  - analytics.go: Derived statistics
*/
package provenance

import "encoding/json"

// =============================================================================
// DOC TYPES - Discriminators for selector queries
// =============================================================================

const (
	DocTypeProduct      = "product"
	DocTypeQuality      = "quality"
	DocTypeNotification = "notification"
)

// =============================================================================
// PRODUCT
// =============================================================================

// ProductLocationEntry is one stop in a product's journey.
type ProductLocationEntry struct {
	Location    string `json:"location"`
	ArrivalDate string `json:"arrivalDate"`
}

// ProductLocationData holds the current location plus the full history.
//
// INVARIANTS:
//   - Current always reflects the most recent physical location.
//   - Every superseded Current value is appended to Previous exactly once.
//   - Previous is append-only, oldest first, never reordered.
type ProductLocationData struct {
	Current  ProductLocationEntry   `json:"current"`
	Previous []ProductLocationEntry `json:"previous"`
}

// Product is the tracked good. ID is immutable once created.
type Product struct {
	DocType             string              `json:"docType"`
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Barcode             string              `json:"barcode"`
	PlaceOfOrigin       string              `json:"placeOfOrigin"`
	ProductionDate      string              `json:"productionDate"`
	ExpirationDate      string              `json:"expirationDate"`
	UnitQuantity        float64             `json:"unitQuantity"`
	UnitQuantityType    string              `json:"unitQuantityType"`
	BatchQuantity       float64             `json:"batchQuantity,omitempty"`
	UnitPrice           string              `json:"unitPrice"`
	Category            string              `json:"category"`
	Variety             string              `json:"variety,omitempty"`
	Misc                json.RawMessage     `json:"misc,omitempty"`
	ComponentProductIDs []string            `json:"componentProductIds,omitempty"`
	LocationData        ProductLocationData `json:"locationData"`
}

// ProductWithHistory is a product plus its resolved component products.
// Component resolution is best-effort: ids that no longer resolve are
// skipped, not errors.
type ProductWithHistory struct {
	Product
	Components []Product `json:"components"`
}

// =============================================================================
// QUALITY RECORD
// =============================================================================

// QualityRecord is an immutable inspection record. Multiple records per
// product coexist, keyed by productId plus the write instant.
type QualityRecord struct {
	DocType            string `json:"docType"`
	ProductID          string `json:"productId"`
	Inspector          string `json:"inspector"`
	Score              int    `json:"score"` // 0-100 inclusive
	Notes              string `json:"notes"`
	Timestamp          string `json:"timestamp"`
	Location           string `json:"location,omitempty"`
	TestResults        string `json:"testResults,omitempty"`
	CertificationType  string `json:"certificationType,omitempty"`
	InspectionStandard string `json:"inspectionStandard,omitempty"`
	BatchID            string `json:"batchId,omitempty"`
}

// =============================================================================
// NOTIFICATION
// =============================================================================

type NotificationType string

const (
	NotificationCreated      NotificationType = "created"
	NotificationShipped      NotificationType = "shipped"
	NotificationQualityCheck NotificationType = "quality_check"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is an event record emitted alongside product and quality
// mutations. Acknowledged starts false and may flip to true exactly once.
type Notification struct {
	DocType      string           `json:"docType"`
	ID           string           `json:"id"`
	ProductID    string           `json:"productId"`
	Type         NotificationType `json:"type"`
	Message      string           `json:"message"`
	Timestamp    string           `json:"timestamp"`
	Location     string           `json:"location,omitempty"`
	Severity     Severity         `json:"severity"`
	Acknowledged bool             `json:"acknowledged"`
}

// EventStamp carries the caller-supplied identity and instant of a mutation.
// The engine persists these verbatim instead of minting its own, so that
// independent replicas of the same logical operation write identical state.
type EventStamp struct {
	ID string // becomes the notification id / quality key suffix
	At string // RFC 3339 instant of the mutation
}

// =============================================================================
// ANALYTICS
// =============================================================================

// MonthlyTrend is one calendar-month bucket of the trend series.
type MonthlyTrend struct {
	Month     string `json:"month"` // short label, e.g. "Jun 2021"
	Products  int    `json:"products"`
	Shipments int    `json:"shipments"`
}

// AnalyticsData is a derived snapshot recomputed on demand; nothing in it
// is stored.
type AnalyticsData struct {
	TotalProducts       int            `json:"totalProducts"`
	ActiveShipments     int            `json:"activeShipments"`
	CompletedDeliveries int            `json:"completedDeliveries"`
	AverageDeliveryTime int            `json:"averageDeliveryTime"` // whole days
	OnTimeDeliveryRate  float64        `json:"onTimeDeliveryRate"`  // percent
	QualityScore        float64        `json:"qualityScore"`
	CategoryStats       map[string]int `json:"categoryStats"`
	LocationStats       map[string]int `json:"locationStats"`
	MonthlyTrends       []MonthlyTrend `json:"monthlyTrends"`
}

/*
product.go - Product store operations

PURPOSE:
  Create, read, and ship products. Shipping is the only mutation path for
  location history: the present current entry is archived onto previous,
  then replaced. There is no edit-history operation and no delete, which is
  what keeps the history append-only.

NOTIFICATIONS:
  Create and ship each emit an event record. Emission is best-effort; a
  failed emit is logged and discarded so it never aborts the mutation that
  triggered it.

SEE ALSO:
  - validate.go: Input checks
  - notification.go: Event emission
*/
package provenance

import (
	"context"
	"encoding/json"
	"fmt"
)

// =============================================================================
// EXISTENCE & READ
// =============================================================================

// ProductExists reports whether the ledger holds non-empty data for the id.
func (e *Engine) ProductExists(ctx context.Context, id string) (bool, error) {
	data, err := e.ledger.Get(ctx, e.productKey(id))
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

// GetProduct returns the stored record verbatim.
func (e *Engine) GetProduct(ctx context.Context, id string) (Product, error) {
	data, err := e.ledger.Get(ctx, e.productKey(id))
	if err != nil {
		return Product{}, err
	}
	if len(data) == 0 {
		return Product{}, &NotFoundError{Kind: "product", ID: id}
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("product %s: corrupt record: %w", id, err)
	}
	return p, nil
}

// GetProductWithHistory returns the product plus its resolved components.
// Component references are advisory, not integrity-enforced: ids that no
// longer resolve are skipped silently.
func (e *Engine) GetProductWithHistory(ctx context.Context, id string) (ProductWithHistory, error) {
	p, err := e.GetProduct(ctx, id)
	if err != nil {
		return ProductWithHistory{}, err
	}

	components := make([]Product, 0, len(p.ComponentProductIDs))
	for _, cid := range p.ComponentProductIDs {
		c, err := e.GetProduct(ctx, cid)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return ProductWithHistory{}, err
		}
		components = append(components, c)
	}
	return ProductWithHistory{Product: p, Components: components}, nil
}

// =============================================================================
// CREATE
// =============================================================================

// CreateProduct validates and persists a new product, then emits a
// "created" notification stamped with the caller-supplied id and instant.
func (e *Engine) CreateProduct(ctx context.Context, p Product, stamp EventStamp) error {
	exists, err := e.ProductExists(ctx, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return &AlreadyExistsError{ID: p.ID}
	}

	if err := ValidateProduct(p); err != nil {
		return err
	}

	p.DocType = DocTypeProduct
	if err := e.putProduct(ctx, p); err != nil {
		return err
	}

	e.emitDiscarding(ctx, Notification{
		ID:        stamp.ID,
		ProductID: p.ID,
		Type:      NotificationCreated,
		Message:   fmt.Sprintf("Product %s created at %s", p.Name, p.LocationData.Current.Location),
		Timestamp: stamp.At,
		Location:  p.LocationData.Current.Location,
		Severity:  SeverityInfo,
	})
	return nil
}

// =============================================================================
// SHIP
// =============================================================================

// ShipProduct moves a product to a new location. The present current entry
// is appended to previous - exactly once, never mutated afterwards - and
// current is replaced with the new stop.
func (e *Engine) ShipProduct(ctx context.Context, id, newLocation, arrivalDate string, stamp EventStamp) error {
	if newLocation == "" {
		return &ValidationError{Field: "newLocation", Reason: "required"}
	}
	if arrivalDate == "" {
		return &ValidationError{Field: "arrivalDate", Reason: "required"}
	}
	if _, err := ParseTimestamp(arrivalDate); err != nil {
		return &ValidationError{Field: "arrivalDate", Reason: err.Error()}
	}

	p, err := e.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	p.LocationData.Previous = append(p.LocationData.Previous, p.LocationData.Current)
	p.LocationData.Current = ProductLocationEntry{
		Location:    newLocation,
		ArrivalDate: arrivalDate,
	}

	if err := e.putProduct(ctx, p); err != nil {
		return err
	}

	e.emitDiscarding(ctx, Notification{
		ID:        stamp.ID,
		ProductID: id,
		Type:      NotificationShipped,
		Message:   fmt.Sprintf("Product %s shipped to %s", p.Name, newLocation),
		Timestamp: stamp.At,
		Location:  newLocation,
		Severity:  SeverityInfo,
	})
	return nil
}

func (e *Engine) putProduct(ctx context.Context, p Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("product %s: marshal: %w", p.ID, err)
	}
	return e.ledger.Put(ctx, e.productKey(p.ID), data)
}

/*
notification.go - Event records derived from mutations

PURPOSE:
  Persists and lists notification records emitted alongside product and
  quality mutations, and handles the single allowed mutation: a one-way
  acknowledged flag.

BEST-EFFORT EMISSION:
  Emission failure must never cause the triggering mutation to fail or roll
  back. emitDiscarding logs and drops the error; everything else in the
  engine propagates storage failures.

SEE ALSO:
  - product.go, quality.go: Emitters
  - query.go: Selector plumbing used by listings
*/
package provenance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warp/provenance-engine/ledger"
)

// =============================================================================
// EMIT
// =============================================================================

// EmitNotification persists an event record. Used directly by callers that
// want the error; mutations go through emitDiscarding instead.
func (e *Engine) EmitNotification(ctx context.Context, n Notification) error {
	n.DocType = DocTypeNotification
	n.Acknowledged = false

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notification %s: marshal: %w", n.ID, err)
	}
	return e.ledger.Put(ctx, e.notificationKey(n.ID), data)
}

// emitDiscarding is the best-effort path used by product and quality
// mutations: failures are logged and dropped.
func (e *Engine) emitDiscarding(ctx context.Context, n Notification) {
	if err := e.EmitNotification(ctx, n); err != nil {
		e.cfg.Logger.Printf("dropping %s notification for product %s: %v", n.Type, n.ProductID, err)
	}
}

// =============================================================================
// LIST
// =============================================================================

// Notifications returns up to limit records ordered by timestamp
// descending. limit <= 0 falls back to the configured default.
func (e *Engine) Notifications(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = e.cfg.DefaultNotificationLimit
	}

	kvs, err := e.ledger.Query(ctx, ledger.Selector{
		DocType:    DocTypeNotification,
		SortBy:     "timestamp",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(kvs))
	for _, kv := range kvs {
		var n Notification
		if err := json.Unmarshal(kv.Value, &n); err != nil {
			e.cfg.Logger.Printf("skipping corrupt notification at %s: %v", kv.Key, err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// UnacknowledgedNotifications is Notifications restricted to records not
// yet acknowledged. Same ordering and limit semantics.
func (e *Engine) UnacknowledgedNotifications(ctx context.Context, limit int) ([]Notification, error) {
	all, err := e.Notifications(ctx, limit)
	if err != nil {
		return nil, err
	}
	pending := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.Acknowledged {
			pending = append(pending, n)
		}
	}
	return pending, nil
}

// =============================================================================
// ACKNOWLEDGE
// =============================================================================

// AcknowledgeNotification flips acknowledged to true. Idempotent: repeating
// the call on an already-acknowledged record is not an error, and the flag
// never transitions back to false.
func (e *Engine) AcknowledgeNotification(ctx context.Context, id string) error {
	key := e.notificationKey(id)
	data, err := e.ledger.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return &NotFoundError{Kind: "notification", ID: id}
	}

	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("notification %s: corrupt record: %w", id, err)
	}
	if n.Acknowledged {
		return nil
	}

	n.Acknowledged = true
	updated, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notification %s: marshal: %w", id, err)
	}
	return e.ledger.Put(ctx, key, updated)
}

/*
handlers.go - HTTP API handlers for the provenance engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the engine. The gateway is also where
  non-determinism lives: notification ids and mutation instants are minted
  here (uuid + wall clock) and handed to the engine as explicit arguments,
  because the engine itself must stay reproducible across replicas.

ENDPOINTS:
  Products:
    GET    /api/products                    List (optional ?category=, ?location=)
    POST   /api/products                    Create
    GET    /api/products/{id}               Get
    GET    /api/products/{id}/exists        Existence probe
    GET    /api/products/{id}/history       Get with resolved components
    POST   /api/products/{id}/ship          Ship to new location
    GET    /api/products/{id}/quality       List quality records
    POST   /api/products/{id}/quality       Add quality record

  Analytics & notifications:
    GET    /api/analytics                   Derived snapshot
    GET    /api/notifications               List (?limit=, ?unacknowledged=true)
    POST   /api/notifications/{id}/acknowledge

ERROR HANDLING:
  Engine error kinds map to HTTP status:
  - validation         -> 400
  - not found          -> 404
  - already exists     -> 409
  - storage / other    -> 500

SEE ALSO:
  - dto.go: Request types
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/provenance-engine/provenance"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *provenance.Engine

	// Overridable in tests for reproducible stamps.
	NewID func() string
	Now   func() time.Time
}

// NewHandler creates a handler over the given engine.
func NewHandler(engine *provenance.Engine) *Handler {
	return &Handler{
		Engine: engine,
		NewID:  uuid.NewString,
		Now:    time.Now,
	}
}

// stamp mints the identity and instant for one mutation. This is the only
// place ids and wall-clock time enter the system.
func (h *Handler) stamp() provenance.EventStamp {
	return provenance.EventStamp{
		ID: h.NewID(),
		At: h.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns all products, optionally filtered by category or
// current location.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		products []provenance.Product
		err      error
	)
	switch {
	case r.URL.Query().Get("category") != "":
		products, err = h.Engine.QueryProductsByCategory(ctx, r.URL.Query().Get("category"))
	case r.URL.Query().Get("location") != "":
		products, err = h.Engine.QueryProductsByLocation(ctx, r.URL.Query().Get("location"))
	default:
		products, err = h.Engine.QueryAllProducts(ctx)
	}
	if err != nil {
		writeEngineError(w, "Failed to list products", err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// CreateProduct creates a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p provenance.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product payload", err)
		return
	}

	if err := h.Engine.CreateProduct(r.Context(), p, h.stamp()); err != nil {
		writeEngineError(w, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": p.ID, "status": "created"})
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Engine.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, "Failed to get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProductExists probes existence without returning the record.
func (h *Handler) ProductExists(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exists, err := h.Engine.ProductExists(r.Context(), id)
	if err != nil {
		writeEngineError(w, "Failed to check product", err)
		return
	}
	writeJSON(w, http.StatusOK, ExistsResponse{ID: id, Exists: exists})
}

// GetProductWithHistory returns the product plus resolved components.
func (h *Handler) GetProductWithHistory(w http.ResponseWriter, r *http.Request) {
	p, err := h.Engine.GetProductWithHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, "Failed to get product history", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ShipProduct moves a product to a new location.
func (h *Handler) ShipProduct(w http.ResponseWriter, r *http.Request) {
	var req ShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ship payload", err)
		return
	}

	stamp := h.stamp()
	if req.ArrivalDate == "" {
		req.ArrivalDate = stamp.At
	}

	id := chi.URLParam(r, "id")
	if err := h.Engine.ShipProduct(r.Context(), id, req.NewLocation, req.ArrivalDate, stamp); err != nil {
		writeEngineError(w, "Failed to ship product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          id,
		"newLocation": req.NewLocation,
		"arrivalDate": req.ArrivalDate,
	})
}

// =============================================================================
// QUALITY HANDLERS
// =============================================================================

// ListQualityRecords returns a product's inspection records, newest first.
func (h *Handler) ListQualityRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.GetQualityRecords(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, "Failed to list quality records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// AddQualityRecord appends an inspection record to a product.
func (h *Handler) AddQualityRecord(w http.ResponseWriter, r *http.Request) {
	var q provenance.QualityRecord
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quality payload", err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Engine.AddQualityRecord(r.Context(), id, q, h.stamp()); err != nil {
		writeEngineError(w, "Failed to add quality record", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"productId": id, "status": "recorded"})
}

// =============================================================================
// ANALYTICS & NOTIFICATION HANDLERS
// =============================================================================

// GetAnalytics returns the derived snapshot.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	data, err := h.Engine.Analytics(r.Context())
	if err != nil {
		writeEngineError(w, "Failed to compute analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ListNotifications returns recent notifications, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		limit = n
	}

	var (
		notifications []provenance.Notification
		err           error
	)
	if r.URL.Query().Get("unacknowledged") == "true" {
		notifications, err = h.Engine.UnacknowledgedNotifications(ctx, limit)
	} else {
		notifications, err = h.Engine.Notifications(ctx, limit)
	}
	if err != nil {
		writeEngineError(w, "Failed to list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// AcknowledgeNotification marks a notification as seen.
func (h *Handler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Engine.AcknowledgeNotification(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to acknowledge notification", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "acknowledged": true})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error kinds to HTTP status codes.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case provenance.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case provenance.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case provenance.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

/*
seed.go - Demo data loader

PURPOSE:
  Populates the ledger with a small reference flow so the dashboard has
  something to show on a fresh database: a few products across categories,
  one shipped twice, quality checks spanning all three severities.

  Idempotent-ish: seeding twice reports the duplicate-create failures but
  still returns 200, matching how a demo loader gets used.
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/warp/provenance-engine/provenance"
)

// Seed loads the demo scenario.
// POST /api/seed
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products := []provenance.Product{
		{
			ID:               "PROD-1001",
			Name:             "Arabica Coffee Beans",
			Barcode:          "8901234567890",
			PlaceOfOrigin:    "Huila, Colombia",
			ProductionDate:   "2025-05-12T08:00:00.000Z",
			ExpirationDate:   "2026-05-12T08:00:00.000Z",
			UnitQuantity:     60,
			UnitQuantityType: "kg",
			BatchQuantity:    40,
			UnitPrice:        "$8.50",
			Category:         "coffee",
			Variety:          "arabica",
			Misc:             json.RawMessage(`{"altitude":"1800m"}`),
			LocationData: provenance.ProductLocationData{
				Current: provenance.ProductLocationEntry{
					Location:    "Huila Farm Cooperative",
					ArrivalDate: "2025-05-12T08:00:00.000Z",
				},
			},
		},
		{
			ID:               "PROD-1002",
			Name:             "Single-Origin Cocoa",
			Barcode:          "8901234567891",
			PlaceOfOrigin:    "San Martin, Peru",
			ProductionDate:   "2025-06-03T10:30:00.000Z",
			ExpirationDate:   "2026-12-03T10:30:00.000Z",
			UnitQuantity:     25,
			UnitQuantityType: "kg",
			UnitPrice:        "$12.00",
			Category:         "cocoa",
			LocationData: provenance.ProductLocationData{
				Current: provenance.ProductLocationEntry{
					Location:    "San Martin Collection Center",
					ArrivalDate: "2025-06-03T10:30:00.000Z",
				},
			},
		},
		{
			ID:                  "PROD-1003",
			Name:                "Mocha Blend",
			Barcode:             "8901234567892",
			PlaceOfOrigin:       "Rotterdam, Netherlands",
			ProductionDate:      "2025-07-20T09:00:00.000Z",
			ExpirationDate:      "2026-01-20T09:00:00.000Z",
			UnitQuantity:        10,
			UnitQuantityType:    "kg",
			UnitPrice:           "$15.75",
			Category:            "coffee",
			Variety:             "blend",
			ComponentProductIDs: []string{"PROD-1001", "PROD-1002"},
			LocationData: provenance.ProductLocationData{
				Current: provenance.ProductLocationEntry{
					Location:    "Rotterdam Blending Facility",
					ArrivalDate: "2025-07-20T09:00:00.000Z",
				},
			},
		},
	}

	var failures []string
	for _, p := range products {
		if err := h.Engine.CreateProduct(ctx, p, h.stamp()); err != nil {
			failures = append(failures, p.ID+": "+err.Error())
		}
	}

	shipments := []struct {
		id, location, arrival string
	}{
		{"PROD-1001", "Cartagena Port", "2025-05-15T14:00:00.000Z"},
		{"PROD-1001", "Rotterdam Blending Facility", "2025-05-28T09:30:00.000Z"},
		{"PROD-1002", "Callao Port", "2025-06-10T16:45:00.000Z"},
	}
	for _, s := range shipments {
		if err := h.Engine.ShipProduct(ctx, s.id, s.location, s.arrival, h.stamp()); err != nil {
			failures = append(failures, s.id+": "+err.Error())
		}
	}

	quality := []struct {
		productID string
		record    provenance.QualityRecord
	}{
		{"PROD-1001", provenance.QualityRecord{
			Inspector: "M. Rojas",
			Score:     92,
			Notes:     "Cupping score excellent, moisture within range",
			Timestamp: "2025-05-13T11:00:00.000Z",
			Location:  "Huila Farm Cooperative",
		}},
		{"PROD-1002", provenance.QualityRecord{
			Inspector: "L. Quispe",
			Score:     71,
			Notes:     "Minor fermentation inconsistency in batch sample",
			Timestamp: "2025-06-05T09:15:00.000Z",
			Location:  "San Martin Collection Center",
		}},
		{"PROD-1003", provenance.QualityRecord{
			Inspector: "A. de Vries",
			Score:     45,
			Notes:     "Off-flavor detected, batch quarantined pending retest",
			Timestamp: "2025-07-21T13:30:00.000Z",
			Location:  "Rotterdam Blending Facility",
		}},
	}
	for _, q := range quality {
		if err := h.Engine.AddQualityRecord(ctx, q.productID, q.record, h.stamp()); err != nil {
			failures = append(failures, q.productID+": "+err.Error())
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "seeded",
		"products": len(products),
		"failures": failures,
	})
}

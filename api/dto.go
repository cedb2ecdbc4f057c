/*
dto.go - Request types and error envelope for the HTTP gateway

PURPOSE:
  Request bodies that don't map 1:1 onto a domain type live here. Response
  payloads reuse the domain types directly: their JSON tags are the wire
  format (camelCase, ISO-8601 dates with a literal 'T'), so wrapping them
  in DTOs would only invite drift.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// ShipRequest moves a product to a new location. ArrivalDate is optional;
// the gateway stamps the current instant when it's omitted.
type ShipRequest struct {
	NewLocation string `json:"newLocation"`
	ArrivalDate string `json:"arrivalDate,omitempty"`
}

// ExistsResponse answers a product existence probe.
type ExistsResponse struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

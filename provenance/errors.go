/*
errors.go - Centralized error types for the provenance engine

PURPOSE:
  All engine error kinds in one place. Callers distinguish kinds with
  errors.Is / errors.As; messages stay human-readable.

ERROR CATEGORIES:
  1. Validation errors - Malformed or out-of-range input. Never retried.
  2. AlreadyExists      - Duplicate product id on create.
  3. NotFound           - Referenced product/notification absent.
  4. Storage errors     - Ledger failures, defined in the ledger package
                          and propagated untouched.

The single deliberate exception to "propagate everything" is notification
emission: a failed emit is logged and discarded so a non-critical side
effect never aborts a primary mutation. See notification.go.

SEE ALSO:
  - validate.go: Produces ValidationError
  - ../ledger/ledger.go: StorageError
*/
package provenance

import (
	"errors"
	"fmt"

	"github.com/warp/provenance-engine/ledger"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed, missing, or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists is returned when creating a product whose id is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when a referenced record is absent from the ledger.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports the kind and id of the missing record.
type NotFoundError struct {
	Kind string // "product", "notification"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyExistsError reports a duplicate product id.
type AlreadyExistsError struct {
	ID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("product %s already exists", e.ID)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict returns true for duplicate-create failures.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage returns true for ledger-level failures, which indicate the
// read or write itself did not happen.
func IsStorage(err error) bool {
	return errors.Is(err, ledger.ErrStorage)
}

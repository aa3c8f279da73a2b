package fipe

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable covers transport failures, non-2xx statuses and
	// malformed payloads from the pricing API.
	ErrUpstreamUnavailable = errors.New("fipe: upstream unavailable")
	// ErrQuotaExhausted means today's upstream call budget is spent.
	ErrQuotaExhausted = errors.New("fipe: daily quota exhausted")
	// ErrInvalidVehicleType rejects vehicle types outside cars/motorcycles/trucks.
	ErrInvalidVehicleType = errors.New("fipe: invalid vehicle type")
	// ErrInvalidParameter rejects empty identifiers and malformed reference codes.
	ErrInvalidParameter = errors.New("fipe: invalid parameter")
	// ErrNotFound is returned when the upstream answers 404 for a lookup.
	ErrNotFound = errors.New("fipe: not found")
	// ErrLedgerUnavailable means the quota ledger could not answer; the
	// gateway fails closed and skips the upstream.
	ErrLedgerUnavailable = errors.New("fipe: quota ledger unavailable")
)

// UpstreamError wraps a failed upstream round-trip with its operation and, when
// a response arrived, its HTTP status.
type UpstreamError struct {
	Operation string
	Status    int
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fipe: upstream %s: status=%d: %v", e.Operation, e.Status, e.Err)
	}
	return fmt.Sprintf("fipe: upstream %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err was caused by caller input rather than by
// the gateway or its dependencies.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidVehicleType) || errors.Is(err, ErrInvalidParameter)
}

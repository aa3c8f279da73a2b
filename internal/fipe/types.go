// Package fipe holds the pricing-table vocabulary shared by the gateway, its
// upstream client and the HTTP surface.
package fipe

import (
	"fmt"
	"strings"
	"time"
)

// VehicleType segments every catalog and price lookup.
type VehicleType string

const (
	Cars        VehicleType = "cars"
	Motorcycles VehicleType = "motorcycles"
	Trucks      VehicleType = "trucks"
)

// ParseVehicleType normalizes raw input and rejects anything outside the three
// upstream segments.
func ParseVehicleType(raw string) (VehicleType, error) {
	switch vt := VehicleType(strings.ToLower(strings.TrimSpace(raw))); vt {
	case Cars, Motorcycles, Trucks:
		return vt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVehicleType, raw)
	}
}

// Reference identifies one monthly snapshot of the pricing table.
type Reference struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

const maxReferenceCodeLen = 8

// ValidReferenceCode reports whether code is syntactically a reference code.
// It never consults the upstream.
func ValidReferenceCode(code string) bool {
	if code == "" || len(code) > maxReferenceCodeLen {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NamedCode is the {code, name} pair returned for brands, models and years.
type NamedCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// VehicleInfo is the priced vehicle returned by vehicle and by-code lookups.
type VehicleInfo struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	ModelYear      int    `json:"modelYear"`
	Fuel           string `json:"fuel"`
	Price          string `json:"price"`
	CodeFipe       string `json:"codeFipe"`
	ReferenceMonth string `json:"referenceMonth,omitempty"`
	FuelAcronym    string `json:"fuelAcronym,omitempty"`
}

// Query carries the parameters of a single lookup. Fields irrelevant to an
// operation stay empty.
type Query struct {
	VehicleType VehicleType
	BrandID     string
	ModelID     string
	YearID      string
	CodeFipe    string
	Reference   string
}

// UsageStats reports the quota ledger state for the current quota day.
type UsageStats struct {
	Date           string    `json:"date"`
	TotalCalls     int64     `json:"total_calls"`
	RemainingCalls int64     `json:"remaining_calls"`
	RateLimit      int64     `json:"rate_limit"`
	ResetsAt       time.Time `json:"resets_at"`
}

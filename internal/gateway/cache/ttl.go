package cache

import (
	"fmt"
	"time"
)

const (
	defaultReferencesTTL = 6 * time.Hour
	defaultCatalogTTL    = 24 * time.Hour
	defaultPriceTTL      = time.Hour
)

// TTLPolicy assigns a lifetime to each class of lookup. Reference lists and
// brand/model/year catalogs change at most monthly; prices are re-requested
// most often and get the shortest lifetime. A zero duration disables caching
// for that class.
type TTLPolicy struct {
	References time.Duration
	Catalog    time.Duration
	Price      time.Duration
}

// DefaultTTLPolicy returns the lifetimes used when configuration is silent.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		References: defaultReferencesTTL,
		Catalog:    defaultCatalogTTL,
		Price:      defaultPriceTTL,
	}
}

// ParseTTLPolicy builds a policy from duration strings ("6h", "30m"). Empty
// strings keep the default for that class.
func ParseTTLPolicy(references, catalog, price string) (TTLPolicy, error) {
	policy := DefaultTTLPolicy()
	fields := []struct {
		name  string
		raw   string
		field *time.Duration
	}{
		{name: "references", raw: references, field: &policy.References},
		{name: "catalog", raw: catalog, field: &policy.Catalog},
		{name: "price", raw: price, field: &policy.Price},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return TTLPolicy{}, fmt.Errorf("cache: ttl %s: %w", f.name, err)
		}
		if d < 0 {
			return TTLPolicy{}, fmt.Errorf("cache: ttl %s: negative duration %s", f.name, f.raw)
		}
		*f.field = d
	}
	return policy, nil
}

// For returns the lifetime for entries produced by op.
func (p TTLPolicy) For(op Operation) time.Duration {
	switch op {
	case OpReferences:
		return p.References
	case OpBrands, OpModels, OpYears:
		return p.Catalog
	case OpVehicleInfo, OpByCode:
		return p.Price
	default:
		return 0
	}
}

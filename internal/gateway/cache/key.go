package cache

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/l0p7/fipegate/internal/fipe"
)

// Operation names the gateway lookup a cache entry belongs to.
type Operation string

const (
	OpReferences  Operation = "references"
	OpBrands      Operation = "brands"
	OpModels      Operation = "models"
	OpYears       Operation = "years"
	OpVehicleInfo Operation = "vehicle_info"
	OpByCode      Operation = "by_code"
)

// Key is the structured identity of a cached lookup. Keys are comparable, so
// two lookups share an entry exactly when every component is equal.
type Key struct {
	Operation   Operation        `json:"operation"`
	VehicleType fipe.VehicleType `json:"vehicleType,omitempty"`
	BrandID     string           `json:"brandId,omitempty"`
	ModelID     string           `json:"modelId,omitempty"`
	YearID      string           `json:"yearId,omitempty"`
	CodeFipe    string           `json:"codeFipe,omitempty"`
	Reference   string           `json:"reference,omitempty"`
}

// NewKey keeps only the query components that take part in op's identity.
// Reference is kept for every operation except the reference list itself.
func NewKey(op Operation, q fipe.Query) Key {
	k := Key{Operation: op}
	switch op {
	case OpReferences:
		return k
	case OpByCode:
		k.CodeFipe = q.CodeFipe
	case OpVehicleInfo:
		k.YearID = q.YearID
		fallthrough
	case OpYears:
		k.ModelID = q.ModelID
		fallthrough
	case OpModels:
		k.BrandID = q.BrandID
		fallthrough
	case OpBrands:
		k.VehicleType = q.VehicleType
	}
	k.Reference = q.Reference
	return k
}

// Digest hashes the key with FNV-1a over length-prefixed components, so
// identifiers containing separators cannot alias another key's encoding. The
// digest is 64 bits and may still collide; stores that address entries by it
// compare the stored Key on read.
func (k Key) Digest() string {
	h := fnv.New64a()
	for _, part := range []string{
		string(k.Operation),
		string(k.VehicleType),
		k.BrandID,
		k.ModelID,
		k.YearID,
		k.CodeFipe,
		k.Reference,
	} {
		_, _ = h.Write([]byte(strconv.Itoa(len(part))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(part))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// String renders the key as "<operation>:<digest>" for backends that need a
// flat string key.
func (k Key) String() string {
	return string(k.Operation) + ":" + k.Digest()
}

// Package upstream talks to the third-party pricing API. Each call performs
// exactly one round-trip; retries are a caller decision because every call is
// charged against the daily quota.
package upstream

import (
	"context"
	"strings"

	"github.com/l0p7/fipegate/internal/fipe"
)

// Operation names used in errors and metrics.
const (
	OpReferences  = "references"
	OpBrands      = "brands"
	OpModels      = "models"
	OpYears       = "years"
	OpVehicleInfo = "vehicle_info"
	OpByCode      = "by_code"
)

// Client is one method per upstream capability. Failures unwrap to
// fipe.ErrUpstreamUnavailable or fipe.ErrNotFound through *fipe.UpstreamError.
type Client interface {
	FetchReferences(ctx context.Context) ([]fipe.Reference, error)
	FetchBrands(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	FetchModels(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	FetchYears(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	FetchVehicleInfo(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error)
	FetchByCode(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error)
}

// Routes holds the path template of every operation, relative to the base URL.
// Templates see VehicleType, BrandID, ModelID, YearID and CodeFipe, already
// path-escaped.
type Routes struct {
	References  string
	Brands      string
	Models      string
	Years       string
	VehicleInfo string
	ByCode      string
}

// DefaultRoutes matches the parallelum FIPE v2 API.
func DefaultRoutes() Routes {
	return Routes{
		References:  "references",
		Brands:      "{{ .VehicleType }}/brands",
		Models:      "{{ .VehicleType }}/brands/{{ .BrandID }}/models",
		Years:       "{{ .VehicleType }}/brands/{{ .BrandID }}/models/{{ .ModelID }}/years",
		VehicleInfo: "{{ .VehicleType }}/brands/{{ .BrandID }}/models/{{ .ModelID }}/years/{{ .YearID }}",
		ByCode:      "fipe/{{ .CodeFipe }}",
	}
}

// withDefaults fills empty routes from DefaultRoutes.
func (r Routes) withDefaults() Routes {
	def := DefaultRoutes()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&r.References, def.References)
	fill(&r.Brands, def.Brands)
	fill(&r.Models, def.Models)
	fill(&r.Years, def.Years)
	fill(&r.VehicleInfo, def.VehicleInfo)
	fill(&r.ByCode, def.ByCode)
	return r
}

func (r Routes) byOperation() map[string]string {
	return map[string]string{
		OpReferences:  r.References,
		OpBrands:      r.Brands,
		OpModels:      r.Models,
		OpYears:       r.Years,
		OpVehicleInfo: r.VehicleInfo,
		OpByCode:      r.ByCode,
	}
}

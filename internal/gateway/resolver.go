package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/l0p7/fipegate/internal/fipe"
)

// ReferenceSource lists the available references, most recent first.
type ReferenceSource interface {
	GetReferences(ctx context.Context) ([]fipe.Reference, error)
}

// Resolver is the single place where an omitted reference is defaulted.
type Resolver struct {
	source ReferenceSource
}

// NewResolver builds a resolver over source.
func NewResolver(source ReferenceSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns requested when supplied, after a syntax check only.
// Otherwise it returns the first reference listed by the source. A failure to
// list references wraps both fipe.ErrUpstreamUnavailable and the cause.
func (r *Resolver) Resolve(ctx context.Context, requested string) (fipe.Reference, error) {
	if code := strings.TrimSpace(requested); code != "" {
		if !fipe.ValidReferenceCode(code) {
			return fipe.Reference{}, fmt.Errorf("%w: reference %q", fipe.ErrInvalidParameter, requested)
		}
		return fipe.Reference{Code: code}, nil
	}

	refs, err := r.source.GetReferences(ctx)
	if err != nil {
		if errors.Is(err, fipe.ErrUpstreamUnavailable) {
			return fipe.Reference{}, fmt.Errorf("gateway: resolve default reference: %w", err)
		}
		return fipe.Reference{}, fmt.Errorf("%w: resolve default reference: %w", fipe.ErrUpstreamUnavailable, err)
	}
	if len(refs) == 0 {
		return fipe.Reference{}, fmt.Errorf("%w: empty reference list", fipe.ErrUpstreamUnavailable)
	}
	current := refs[0]
	if !fipe.ValidReferenceCode(current.Code) {
		return fipe.Reference{}, fmt.Errorf("%w: malformed reference code %q", fipe.ErrUpstreamUnavailable, current.Code)
	}
	return current, nil
}

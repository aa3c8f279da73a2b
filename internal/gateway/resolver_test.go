package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/l0p7/fipegate/internal/fipe"
)

type staticReferences struct {
	refs  []fipe.Reference
	err   error
	calls int
}

func (s *staticReferences) GetReferences(context.Context) ([]fipe.Reference, error) {
	s.calls++
	return s.refs, s.err
}

func TestResolverExplicitReferenceSkipsSource(t *testing.T) {
	source := &staticReferences{err: errors.New("must not be called")}
	resolver := NewResolver(source)

	ref, err := resolver.Resolve(context.Background(), " 320 ")
	require.NoError(t, err)
	require.Equal(t, fipe.Reference{Code: "320"}, ref)
	require.Zero(t, source.calls)

	_, err = resolver.Resolve(context.Background(), "2025-08")
	require.ErrorIs(t, err, fipe.ErrInvalidParameter)
	require.Zero(t, source.calls)
}

func TestResolverDefaultsToFirstReference(t *testing.T) {
	source := &staticReferences{refs: augustRefs}
	ref, err := NewResolver(source).Resolve(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, augustRefs[0], ref)
	require.Equal(t, 1, source.calls)
}

func TestResolverFailures(t *testing.T) {
	tests := []struct {
		name     string
		source   *staticReferences
		wantErrs []error
	}{
		{
			name:     "empty list",
			source:   &staticReferences{refs: []fipe.Reference{}},
			wantErrs: []error{fipe.ErrUpstreamUnavailable},
		},
		{
			name:     "malformed first code",
			source:   &staticReferences{refs: []fipe.Reference{{Code: "abc"}}},
			wantErrs: []error{fipe.ErrUpstreamUnavailable},
		},
		{
			name:     "quota exhausted",
			source:   &staticReferences{err: fipe.ErrQuotaExhausted},
			wantErrs: []error{fipe.ErrUpstreamUnavailable, fipe.ErrQuotaExhausted},
		},
		{
			name:     "upstream outage",
			source:   &staticReferences{err: &fipe.UpstreamError{Operation: "references", Status: 500, Err: fipe.ErrUpstreamUnavailable}},
			wantErrs: []error{fipe.ErrUpstreamUnavailable},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewResolver(tc.source).Resolve(context.Background(), "")
			for _, want := range tc.wantErrs {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

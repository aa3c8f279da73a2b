package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLPolicyFor(t *testing.T) {
	policy := TTLPolicy{References: time.Hour, Catalog: 2 * time.Hour, Price: 3 * time.Minute}

	tests := []struct {
		op   Operation
		want time.Duration
	}{
		{op: OpReferences, want: time.Hour},
		{op: OpBrands, want: 2 * time.Hour},
		{op: OpModels, want: 2 * time.Hour},
		{op: OpYears, want: 2 * time.Hour},
		{op: OpVehicleInfo, want: 3 * time.Minute},
		{op: OpByCode, want: 3 * time.Minute},
		{op: Operation("unknown"), want: 0},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, policy.For(tc.op), "operation %s", tc.op)
	}
}

func TestParseTTLPolicy(t *testing.T) {
	tests := []struct {
		name       string
		references string
		catalog    string
		price      string
		want       TTLPolicy
		wantErr    bool
	}{
		{name: "defaults when empty", want: DefaultTTLPolicy()},
		{
			name:       "overrides each class",
			references: "1h",
			catalog:    "12h",
			price:      "15m",
			want:       TTLPolicy{References: time.Hour, Catalog: 12 * time.Hour, Price: 15 * time.Minute},
		},
		{
			name:  "zero disables a class",
			price: "0s",
			want:  TTLPolicy{References: defaultReferencesTTL, Catalog: defaultCatalogTTL},
		},
		{name: "rejects garbage", catalog: "soon", wantErr: true},
		{name: "rejects negative", references: "-1h", wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTTLPolicy(tc.references, tc.catalog, tc.price)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

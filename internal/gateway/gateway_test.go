package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/l0p7/fipegate/internal/fipe"
	"github.com/l0p7/fipegate/internal/gateway/cache"
	"github.com/l0p7/fipegate/internal/gateway/quota"
	"github.com/l0p7/fipegate/internal/metrics"
	cachemocks "github.com/l0p7/fipegate/internal/mocks/cache"
	quotamocks "github.com/l0p7/fipegate/internal/mocks/quota"
	upstreammocks "github.com/l0p7/fipegate/internal/mocks/upstream"
)

var (
	augustRefs = []fipe.Reference{{Code: "324", Label: "agosto de 2025"}, {Code: "323", Label: "julho de 2025"}}
	vwBrands   = []fipe.NamedCode{{Code: "59", Name: "VW - VolksWagen"}}
	golModels  = []fipe.NamedCode{{Code: "5940", Name: "Gol 1.0"}}
	golPrice   = fipe.VehicleInfo{
		Brand:     "VW - VolksWagen",
		Model:     "Gol 1.0",
		ModelYear: 2014,
		Fuel:      "Gasolina",
		Price:     "R$ 65.128,00",
		CodeFipe:  "005340-6",
	}
)

type fixture struct {
	gw     *Gateway
	client *upstreammocks.MockClient
	store  cache.Store
	ledger *quota.Memory
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, limit int64, opts ...Option) fixture {
	t.Helper()
	client := upstreammocks.NewMockClient(t)
	store := cache.NewMemory()
	ledger := quota.NewMemory(limit)
	opts = append([]Option{WithCache(store), WithLedger(ledger), WithLogger(quietLogger())}, opts...)
	gw, err := New(client, opts...)
	require.NoError(t, err)
	return fixture{gw: gw, client: client, store: store, ledger: ledger}
}

func (f fixture) used(t *testing.T) int64 {
	t.Helper()
	used, err := f.ledger.UsedToday(context.Background())
	require.NoError(t, err)
	return used
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestRepeatedLookupServedFromCache(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, BrandID: "59", Reference: "324"}
	f.client.EXPECT().
		FetchModels(mock.Anything, q).
		Return(golModels, nil).
		Once()

	for i := 0; i < 3; i++ {
		models, err := f.gw.GetModels(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, golModels, models)
	}
	require.EqualValues(t, 1, f.used(t), "cache hits must not spend quota")
}

func TestDefaultReferenceSharesEntryWithExplicit(t *testing.T) {
	f := newFixture(t, 500)
	f.client.EXPECT().FetchReferences(mock.Anything).Return(augustRefs, nil).Once()
	f.client.EXPECT().
		FetchBrands(mock.Anything, fipe.Query{VehicleType: fipe.Cars, Reference: "324"}).
		Return(vwBrands, nil).
		Once()

	implicit, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars})
	require.NoError(t, err)
	explicit, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars, Reference: "324"})
	require.NoError(t, err)
	require.Equal(t, implicit, explicit)

	_, ok, err := f.store.Get(context.Background(), cache.NewKey(cache.OpBrands, fipe.Query{VehicleType: fipe.Cars, Reference: "324"}))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEndToEndDefaultReferenceTwice(t *testing.T) {
	f := newFixture(t, 500)
	f.client.EXPECT().
		FetchReferences(mock.Anything).
		Return([]fipe.Reference{{Code: "324", Label: "agosto de 2025"}}, nil).
		Once()
	f.client.EXPECT().
		FetchBrands(mock.Anything, fipe.Query{VehicleType: fipe.Cars, Reference: "324"}).
		Return(vwBrands, nil).
		Once()

	for i := 0; i < 2; i++ {
		brands, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: "cars"})
		require.NoError(t, err)
		require.Equal(t, []fipe.NamedCode{{Code: "59", Name: "VW - VolksWagen"}}, brands)
	}
	require.EqualValues(t, 2, f.used(t))
}

func TestUpstreamFailureIsNotCached(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	outage := &fipe.UpstreamError{Operation: "brands", Status: 503, Err: fipe.ErrUpstreamUnavailable}
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(nil, outage).Once()
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	_, err := f.gw.GetBrands(context.Background(), q)
	require.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)

	brands, err := f.gw.GetBrands(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, vwBrands, brands)
	require.EqualValues(t, 2, f.used(t), "the failed call's quota unit is not refunded")
}

func TestUntypedUpstreamErrorBecomesUnavailable(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(nil, errors.New("connection reset")).Once()

	_, err := f.gw.GetBrands(context.Background(), q)
	require.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)
	var upstreamErr *fipe.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, "brands", upstreamErr.Operation)
}

func TestNotFoundIsNotCached(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{CodeFipe: "999999-9", Reference: "324"}
	notFound := &fipe.UpstreamError{Operation: "by_code", Status: 404, Err: fipe.ErrNotFound}
	f.client.EXPECT().FetchByCode(mock.Anything, q).Return(fipe.VehicleInfo{}, notFound).Twice()

	for i := 0; i < 2; i++ {
		_, err := f.gw.SearchVehicleByCode(context.Background(), q)
		require.ErrorIs(t, err, fipe.ErrNotFound)
	}
}

func TestClearCacheForcesRefetch(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, BrandID: "59", Reference: "324"}
	f.client.EXPECT().FetchModels(mock.Anything, q).Return(golModels, nil).Twice()

	_, err := f.gw.GetModels(context.Background(), q)
	require.NoError(t, err)

	result, err := f.gw.ClearCache(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, result.EvictedCount)
	require.NotEmpty(t, result.Message)

	_, err = f.gw.GetModels(context.Background(), q)
	require.NoError(t, err)
}

func TestExhaustedQuotaShortCircuitsUpstream(t *testing.T) {
	f := newFixture(t, 1)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	_, err := f.gw.GetBrands(context.Background(), q)
	require.NoError(t, err)
	require.False(t, f.gw.HasAvailableCalls(context.Background()))

	ctx := context.Background()
	_, err = f.gw.GetModels(ctx, fipe.Query{VehicleType: fipe.Cars, BrandID: "59", Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrQuotaExhausted)
	_, err = f.gw.GetYears(ctx, fipe.Query{VehicleType: fipe.Cars, BrandID: "59", ModelID: "5940", Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrQuotaExhausted)
	_, err = f.gw.GetVehicleInfo(ctx, fipe.Query{VehicleType: fipe.Cars, BrandID: "59", ModelID: "5940", YearID: "2014-1", Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrQuotaExhausted)
	_, err = f.gw.SearchVehicleByCode(ctx, fipe.Query{CodeFipe: "005340-6", Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrQuotaExhausted)

	_, err = f.gw.GetBrands(ctx, fipe.Query{VehicleType: fipe.Motorcycles})
	require.ErrorIs(t, err, fipe.ErrQuotaExhausted, "reference resolution is itself quota bound")
	require.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)

	brands, err := f.gw.GetBrands(ctx, q)
	require.NoError(t, err, "cached answers are still served once quota is spent")
	require.Equal(t, vwBrands, brands)
}

func TestInvalidInputTouchesNothing(t *testing.T) {
	client := upstreammocks.NewMockClient(t)
	store := cachemocks.NewMockStore(t)
	ledger := quotamocks.NewMockLedger(t)
	gw, err := New(client, WithCache(store), WithLedger(ledger), WithLogger(quietLogger()))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{
			name:    "unknown vehicle type",
			call:    func() error { _, err := gw.GetBrands(ctx, fipe.Query{VehicleType: "boats"}); return err },
			wantErr: fipe.ErrInvalidVehicleType,
		},
		{
			name:    "missing brand",
			call:    func() error { _, err := gw.GetModels(ctx, fipe.Query{VehicleType: fipe.Cars, BrandID: " "}); return err },
			wantErr: fipe.ErrInvalidParameter,
		},
		{
			name: "missing year",
			call: func() error {
				_, err := gw.GetVehicleInfo(ctx, fipe.Query{VehicleType: fipe.Trucks, BrandID: "1", ModelID: "2"})
				return err
			},
			wantErr: fipe.ErrInvalidParameter,
		},
		{
			name:    "missing code",
			call:    func() error { _, err := gw.SearchVehicleByCode(ctx, fipe.Query{}); return err },
			wantErr: fipe.ErrInvalidParameter,
		},
		{
			name:    "malformed reference",
			call:    func() error { _, err := gw.GetBrands(ctx, fipe.Query{VehicleType: fipe.Cars, Reference: "agosto"}); return err },
			wantErr: fipe.ErrInvalidParameter,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.call(), tc.wantErr)
		})
	}
}

func TestVehicleTypeIsNormalized(t *testing.T) {
	f := newFixture(t, 500)
	f.client.EXPECT().
		FetchBrands(mock.Anything, fipe.Query{VehicleType: fipe.Motorcycles, Reference: "324"}).
		Return(vwBrands, nil).
		Once()

	_, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: " Motorcycles ", Reference: "324"})
	require.NoError(t, err)
	_, err = f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: "motorcycles", Reference: "324"})
	require.NoError(t, err)
}

func TestEmptyListIsCachedAsEmpty(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Trucks, BrandID: "1", ModelID: "2", Reference: "324"}
	f.client.EXPECT().FetchYears(mock.Anything, q).Return(nil, nil).Once()

	for i := 0; i < 2; i++ {
		years, err := f.gw.GetYears(context.Background(), q)
		require.NoError(t, err)
		require.NotNil(t, years)
		require.Empty(t, years)
	}
}

func TestEmptyReferenceListIsNotCached(t *testing.T) {
	f := newFixture(t, 500)
	f.client.EXPECT().FetchReferences(mock.Anything).Return([]fipe.Reference{}, nil).Once()
	f.client.EXPECT().FetchReferences(mock.Anything).Return(augustRefs, nil).Once()
	f.client.EXPECT().
		FetchBrands(mock.Anything, fipe.Query{VehicleType: fipe.Cars, Reference: "324"}).
		Return(vwBrands, nil).
		Once()

	_, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars})
	require.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)

	_, ok, err := f.store.Get(context.Background(), cache.NewKey(cache.OpReferences, fipe.Query{}))
	require.NoError(t, err)
	require.False(t, ok, "an empty reference list must not be stored")

	brands, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars})
	require.NoError(t, err)
	require.Equal(t, vwBrands, brands)
	require.EqualValues(t, 3, f.used(t))
}

func TestUndecodableEntryIsOverwritten(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	key := cache.NewKey(cache.OpBrands, q)
	require.NoError(t, f.store.Put(context.Background(), key, []byte(`{"brands":"VW"}`), time.Hour))
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	for i := 0; i < 2; i++ {
		brands, err := f.gw.GetBrands(context.Background(), q)
		require.NoError(t, err)
		require.Equal(t, vwBrands, brands)
	}

	entry, ok, err := f.store.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"code":"59","name":"VW - VolksWagen"}]`, string(entry.Value))
	require.EqualValues(t, 1, f.used(t))
}

func TestConcurrentMissesCoalesce(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, BrandID: "59", ModelID: "5940", YearID: "2014-1", Reference: "324"}
	release := make(chan struct{})
	f.client.EXPECT().
		FetchVehicleInfo(mock.Anything, q).
		RunAndReturn(func(context.Context, fipe.Query) (fipe.VehicleInfo, error) {
			<-release
			return golPrice, nil
		}).
		Once()

	const callers = 25
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := f.gw.GetVehicleInfo(context.Background(), q)
			if err == nil && info != golPrice {
				err = errors.New("unexpected vehicle info")
			}
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, f.used(t), "coalesced misses spend one quota unit")
}

func TestCancelledCallerStillFillsCache(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{CodeFipe: "005340-6", Reference: "324"}
	started := make(chan struct{})
	release := make(chan struct{})
	f.client.EXPECT().
		FetchByCode(mock.Anything, q).
		RunAndReturn(func(ctx context.Context, _ fipe.Query) (fipe.VehicleInfo, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return fipe.VehicleInfo{}, err
			}
			return golPrice, nil
		}).
		Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.gw.SearchVehicleByCode(ctx, q)
		done <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		_, ok, err := f.store.Get(context.Background(), cache.NewKey(cache.OpByCode, q))
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)

	info, err := f.gw.SearchVehicleByCode(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, golPrice, info)
}

func TestLedgerFailureFailsClosed(t *testing.T) {
	client := upstreammocks.NewMockClient(t)
	ledger := quotamocks.NewMockLedger(t)
	ledger.EXPECT().TryConsume(mock.Anything).Return(quota.Denied, errors.New("redis: connection refused")).Once()

	gw, err := New(client, WithLedger(ledger), WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars, Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrLedgerUnavailable)
}

func TestCacheFailuresDegradeToUpstream(t *testing.T) {
	client := upstreammocks.NewMockClient(t)
	store := cachemocks.NewMockStore(t)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	key := cache.NewKey(cache.OpBrands, q)

	store.EXPECT().Get(mock.Anything, key).Return(cache.Entry{}, false, errors.New("valkey: i/o timeout")).Twice()
	store.EXPECT().Put(mock.Anything, key, mock.Anything, cache.DefaultTTLPolicy().Catalog).Return(errors.New("valkey: i/o timeout")).Once()
	client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	gw, err := New(client, WithCache(store), WithLogger(quietLogger()))
	require.NoError(t, err)

	brands, err := gw.GetBrands(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, vwBrands, brands)
}

func TestTTLPolicyUpdateAppliesToNewWrites(t *testing.T) {
	f := newFixture(t, 500)
	q := fipe.Query{VehicleType: fipe.Cars, BrandID: "59", ModelID: "5940", YearID: "2014-1", Reference: "324"}
	f.client.EXPECT().FetchVehicleInfo(mock.Anything, q).Return(golPrice, nil).Twice()

	f.gw.SetTTLPolicy(cache.TTLPolicy{References: time.Hour, Catalog: time.Hour})
	require.Zero(t, f.gw.TTLPolicy().Price)

	for i := 0; i < 2; i++ {
		_, err := f.gw.GetVehicleInfo(context.Background(), q)
		require.NoError(t, err)
	}
}

func TestPacerFailureSpendsNoQuota(t *testing.T) {
	f := newFixture(t, 500, WithPacer(rate.NewLimiter(rate.Limit(1), 0)))

	_, err := f.gw.GetBrands(context.Background(), fipe.Query{VehicleType: fipe.Cars, Reference: "324"})
	require.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)
	require.Zero(t, f.used(t))
}

func TestUsageStatsAndHealth(t *testing.T) {
	f := newFixture(t, 3)
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	_, err := f.gw.GetBrands(context.Background(), q)
	require.NoError(t, err)

	stats, err := f.gw.UsageStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, f.ledger.Today().Date, stats.Date)
	require.EqualValues(t, 1, stats.TotalCalls)
	require.EqualValues(t, 2, stats.RemainingCalls)
	require.EqualValues(t, 3, stats.RateLimit)
	require.True(t, stats.ResetsAt.Equal(f.gw.QuotaResetsAt()))
	require.True(t, f.gw.HasAvailableCalls(context.Background()))

	health, err := f.gw.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.EqualValues(t, 1, health.CacheEntries)

	f.ledger.SetDailyLimit(1)
	health, err = f.gw.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "degraded", health.Status)
	require.False(t, f.gw.HasAvailableCalls(context.Background()))
}

func TestHasAvailableCallsFalseOnLedgerError(t *testing.T) {
	ledger := quotamocks.NewMockLedger(t)
	ledger.EXPECT().Remaining(mock.Anything).Return(int64(0), errors.New("boom")).Once()
	gw, err := New(upstreammocks.NewMockClient(t), WithLedger(ledger), WithLogger(quietLogger()))
	require.NoError(t, err)
	require.False(t, gw.HasAvailableCalls(context.Background()))
}

func TestLookupMetrics(t *testing.T) {
	rec := metrics.NewRecorder(nil)
	f := newFixture(t, 500, WithMetrics(rec))
	q := fipe.Query{VehicleType: fipe.Cars, Reference: "324"}
	f.client.EXPECT().FetchBrands(mock.Anything, q).Return(vwBrands, nil).Once()

	for i := 0; i < 2; i++ {
		_, err := f.gw.GetBrands(context.Background(), q)
		require.NoError(t, err)
	}

	require.EqualValues(t, 1, counterValue(t, rec, "fipegate_gateway_lookups_total", map[string]string{"operation": "brands", "result": "miss"}))
	require.EqualValues(t, 1, counterValue(t, rec, "fipegate_gateway_lookups_total", map[string]string{"operation": "brands", "result": "hit"}))
	require.EqualValues(t, 1, counterValue(t, rec, "fipegate_upstream_requests_total", map[string]string{"operation": "brands", "outcome": "ok"}))
	require.EqualValues(t, 1, counterValue(t, rec, "fipegate_quota_decisions_total", map[string]string{"decision": "allowed"}))
}

func counterValue(t *testing.T, rec *metrics.Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, m := range mf.GetMetric() {
			for key, want := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == key && lp.GetValue() == want {
						found = true
						break
					}
				}
				if !found {
					continue metricLoop
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asset-disposition/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCache_HitServesFromRedis(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := testContext(t)

	// Seed the cache directly; the nil repository proves the database is
	// never consulted on a hit
	ref := &models.StateReference{
		StateCode:       "TX",
		ForeclosureDays: 60,
		MarketingMonths: 4,
		RehabMonths:     3,
		AvgLegalFee:     decimal.NewFromInt(1400),
	}
	require.NoError(t, cache.Set(ctx, cache.GenerateStateRefKey("TX"), ref))

	rc := NewReferenceCache(cache, nil)

	got, err := rc.GetStateReference(ctx, "TX")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 60, got.ForeclosureDays)

	stats := rc.GetStats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Zero(t, stats.CacheMisses)
}

func TestReferenceCache_ServicerAndTradeHits(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := testContext(t)

	sched := &models.ServicerFeeSchedule{
		ServicerID: "svc-1",
		Name:       "Test Servicing",
		BoardFee:   decimal.NewFromInt(150),
	}
	require.NoError(t, cache.Set(ctx, cache.GenerateServicerKey("svc-1"), sched))

	trade := &models.TradeAssumptions{TradeID: "trade-1"}
	require.NoError(t, cache.Set(ctx, cache.GenerateTradeKey("trade-1"), trade))

	rc := NewReferenceCache(cache, nil)

	gotSched, err := rc.GetServicerFeeSchedule(ctx, "svc-1")
	require.NoError(t, err)
	require.NotNil(t, gotSched)
	assert.True(t, gotSched.BoardFee.Equal(decimal.NewFromInt(150)))

	gotTrade, err := rc.GetTradeAssumptions(ctx, "trade-1")
	require.NoError(t, err)
	require.NotNil(t, gotTrade)
	assert.Equal(t, "trade-1", gotTrade.TradeID)
}

func TestReferenceCache_InvalidateTrade(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := testContext(t)

	key := cache.GenerateTradeKey("trade-1")
	require.NoError(t, cache.Set(ctx, key, &models.TradeAssumptions{TradeID: "trade-1"}))

	rc := NewReferenceCache(cache, nil)
	require.NoError(t, rc.InvalidateTrade(ctx, "trade-1"))

	var got models.TradeAssumptions
	found, err := cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReferenceCache_LookupOnceDeduplicates(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	rc := NewReferenceCache(cache, nil)
	ctx := testContext(t)

	var fetches atomic.Int64
	release := make(chan struct{})

	fetch := func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		<-release
		return "shared-result", nil
	}

	const waiters = 10
	results := make([]interface{}, waiters)
	errs := make([]error, waiters)

	var started, done sync.WaitGroup
	for i := 0; i < waiters; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = rc.lookupOnce(ctx, "stateref:nj", fetch)
		}(i)
	}

	started.Wait()
	// Give every goroutine a moment to either own or join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int64(1), fetches.Load(), "concurrent misses must share one fetch")
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared-result", results[i], "waiter %d", i)
	}

	// Completed calls leave no in-flight state behind
	assert.Zero(t, rc.GetStats().InflightCount)
}

func TestReferenceCache_LookupOnceHonorsContext(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	rc := NewReferenceCache(cache, nil)

	release := make(chan struct{})

	owner := testContext(t)
	ownerDone := make(chan struct{})
	go func() {
		defer close(ownerDone)
		_, _ = rc.lookupOnce(owner, "stateref:ca", func(ctx context.Context) (interface{}, error) {
			<-release
			return nil, nil
		})
	}()

	// Wait for the owner to register its in-flight call
	require.Eventually(t, func() bool {
		rc.inflightMu.Lock()
		defer rc.inflightMu.Unlock()
		_, exists := rc.inflight["stateref:ca"]
		return exists
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rc.lookupOnce(ctx, "stateref:ca", func(ctx context.Context) (interface{}, error) {
		t.Fatal("joining waiter must not fetch")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-ownerDone
}

func TestReferenceCache_GetStats(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := testContext(t)

	require.NoError(t, cache.Set(ctx, cache.GenerateStateRefKey("NJ"), &models.StateReference{StateCode: "NJ"}))

	rc := NewReferenceCache(cache, nil)
	for i := 0; i < 3; i++ {
		_, err := rc.GetStateReference(ctx, "NJ")
		require.NoError(t, err)
	}

	stats := rc.GetStats()
	assert.Equal(t, int64(3), stats.CacheHits)
	assert.Zero(t, stats.CacheMisses)
	assert.InDelta(t, 100.0, stats.HitRate, 1e-9)
}

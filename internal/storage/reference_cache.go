package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/asset-disposition/internal/models"
)

// ReferenceCache provides read-through cached access to the shared reference
// records consulted on every model run: state benchmarks, servicer fee
// schedules and trade assumptions. A pool run fans hundreds of assets across
// workers that mostly share a handful of states and one trade, so concurrent
// misses for the same key are deduplicated into a single database query.
type ReferenceCache struct {
	cache *CacheService
	repo  *AssumptionRepository

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	// In-flight request tracking to prevent cache stampede
	inflightMu sync.Mutex
	inflight   map[string]*inflightLookup
}

// inflightLookup carries the outcome of an in-flight database lookup to
// every goroutine waiting on the same key
type inflightLookup struct {
	done  chan struct{}
	value interface{}
	err   error
}

// NewReferenceCache creates a new reference cache
func NewReferenceCache(cache *CacheService, repo *AssumptionRepository) *ReferenceCache {
	return &ReferenceCache{
		cache:    cache,
		repo:     repo,
		inflight: make(map[string]*inflightLookup),
	}
}

// GetStateReference retrieves a state benchmark record, consulting Redis
// before the database. Returns (nil, nil) when the state has no record.
func (rc *ReferenceCache) GetStateReference(ctx context.Context, stateCode string) (*models.StateReference, error) {
	key := rc.cache.GenerateStateRefKey(stateCode)

	var cached models.StateReference
	found, err := rc.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	if found {
		rc.cacheHits.Add(1)
		return &cached, nil
	}
	rc.cacheMisses.Add(1)

	value, err := rc.lookupOnce(ctx, key, func(ctx context.Context) (interface{}, error) {
		ref, err := rc.repo.GetStateReference(ctx, stateCode)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			if cacheErr := rc.cache.Set(ctx, key, ref); cacheErr != nil {
				// Serve the database result even when the write-back fails
				return ref, nil
			}
		}
		return ref, nil
	})
	if err != nil {
		return nil, err
	}
	ref, _ := value.(*models.StateReference)
	return ref, nil
}

// GetServicerFeeSchedule retrieves a servicer fee schedule through the cache
func (rc *ReferenceCache) GetServicerFeeSchedule(ctx context.Context, servicerID string) (*models.ServicerFeeSchedule, error) {
	key := rc.cache.GenerateServicerKey(servicerID)

	var cached models.ServicerFeeSchedule
	found, err := rc.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	if found {
		rc.cacheHits.Add(1)
		return &cached, nil
	}
	rc.cacheMisses.Add(1)

	value, err := rc.lookupOnce(ctx, key, func(ctx context.Context) (interface{}, error) {
		sched, err := rc.repo.GetServicerFeeSchedule(ctx, servicerID)
		if err != nil {
			return nil, err
		}
		if sched != nil {
			_ = rc.cache.Set(ctx, key, sched)
		}
		return sched, nil
	})
	if err != nil {
		return nil, err
	}
	sched, _ := value.(*models.ServicerFeeSchedule)
	return sched, nil
}

// GetTradeAssumptions retrieves trade assumptions through the cache
func (rc *ReferenceCache) GetTradeAssumptions(ctx context.Context, tradeID string) (*models.TradeAssumptions, error) {
	key := rc.cache.GenerateTradeKey(tradeID)

	var cached models.TradeAssumptions
	found, err := rc.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	if found {
		rc.cacheHits.Add(1)
		return &cached, nil
	}
	rc.cacheMisses.Add(1)

	value, err := rc.lookupOnce(ctx, key, func(ctx context.Context) (interface{}, error) {
		trade, err := rc.repo.GetTradeAssumptions(ctx, tradeID)
		if err != nil {
			return nil, err
		}
		if trade != nil {
			_ = rc.cache.Set(ctx, key, trade)
		}
		return trade, nil
	})
	if err != nil {
		return nil, err
	}
	trade, _ := value.(*models.TradeAssumptions)
	return trade, nil
}

// InvalidateTrade drops the cached assumptions for a trade after an update
func (rc *ReferenceCache) InvalidateTrade(ctx context.Context, tradeID string) error {
	return rc.cache.Invalidate(ctx, rc.cache.GenerateTradeKey(tradeID))
}

// lookupOnce runs fetch for the key, sharing one database query across all
// goroutines that miss the cache for the same key at the same time
func (rc *ReferenceCache) lookupOnce(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	call, isNew := rc.getOrCreateInflight(key)

	if !isNew {
		// Another goroutine owns the fetch; wait for it to finish
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call.value, call.err = fetch(ctx)
	rc.completeInflight(key, call)
	return call.value, call.err
}

// getOrCreateInflight atomically checks for or creates an in-flight lookup.
// Returns the call record and whether this caller owns the fetch.
func (rc *ReferenceCache) getOrCreateInflight(key string) (*inflightLookup, bool) {
	rc.inflightMu.Lock()
	defer rc.inflightMu.Unlock()

	if call, exists := rc.inflight[key]; exists {
		return call, false
	}

	call := &inflightLookup{done: make(chan struct{})}
	rc.inflight[key] = call
	return call, true
}

// completeInflight publishes the result to all waiting goroutines and cleans up
func (rc *ReferenceCache) completeInflight(key string, call *inflightLookup) {
	rc.inflightMu.Lock()
	delete(rc.inflight, key)
	rc.inflightMu.Unlock()

	close(call.done)
}

// ReferenceCacheStats reports hit/miss counters for the reference cache
type ReferenceCacheStats struct {
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	HitRate       float64 `json:"hit_rate"`
	InflightCount int     `json:"inflight_count"`
}

// GetStats returns cache statistics
func (rc *ReferenceCache) GetStats() *ReferenceCacheStats {
	hits := rc.cacheHits.Load()
	misses := rc.cacheMisses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	rc.inflightMu.Lock()
	inflightCount := len(rc.inflight)
	rc.inflightMu.Unlock()

	return &ReferenceCacheStats{
		CacheHits:     hits,
		CacheMisses:   misses,
		HitRate:       hitRate,
		InflightCount: inflightCount,
	}
}

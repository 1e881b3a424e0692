package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/service/metrics"
	"RiskLens/pkg/cache"
	"RiskLens/pkg/logger"
)

var currentSnapshotKey = cache.GenerateKey("snapshot", "current")

// SnapshotBuilder is the part of SnapshotUseCase the cache needs.
type SnapshotBuilder interface {
	FetchAggregateSnapshot(ctx context.Context) *models.AggregateSnapshot
}

// CurrentSnapshot serves the most recent snapshot from cache and rebuilds
// it on miss, expiry or explicit refresh. Concurrent misses in one process
// share a single build.
type CurrentSnapshot struct {
	builder SnapshotBuilder
	cache   cache.Service
	ttl     time.Duration
	log     *logger.Logger

	mu sync.Mutex
}

func NewCurrentSnapshot(builder SnapshotBuilder, c cache.Service, ttl time.Duration, log *logger.Logger) *CurrentSnapshot {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CurrentSnapshot{builder: builder, cache: c, ttl: ttl, log: log}
}

// Current returns the cached snapshot, building one when needed.
func (cs *CurrentSnapshot) Current(ctx context.Context, refresh bool) *models.AggregateSnapshot {
	if !refresh {
		if snap, ok := cs.cached(ctx); ok {
			return snap
		}
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !refresh {
		if snap, ok := cs.cached(ctx); ok {
			return snap
		}
	}
	return cs.rebuildLocked(ctx)
}

// Refresh rebuilds unconditionally and stores the result.
func (cs *CurrentSnapshot) Refresh(ctx context.Context) *models.AggregateSnapshot {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.rebuildLocked(ctx)
}

// rebuildLocked ignores the caller's cancellation; the result is shared by
// every reader. The builder bounds the build with its own timeout.
func (cs *CurrentSnapshot) rebuildLocked(ctx context.Context) *models.AggregateSnapshot {
	ctx = context.WithoutCancel(ctx)
	snap := cs.builder.FetchAggregateSnapshot(ctx)
	if cs.cache != nil {
		if err := cs.cache.Set(ctx, currentSnapshotKey, snap, cs.ttl); err != nil {
			cs.log.Warn("cache snapshot failed", logger.Error(err))
		}
	}
	return snap
}

func (cs *CurrentSnapshot) cached(ctx context.Context) (*models.AggregateSnapshot, bool) {
	if cs.cache == nil {
		return nil, false
	}
	var snap models.AggregateSnapshot
	err := cs.cache.Get(ctx, currentSnapshotKey, &snap)
	switch {
	case err == nil:
		metrics.CacheResults.WithLabelValues("hit").Inc()
		return &snap, true
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CacheResults.WithLabelValues("miss").Inc()
	default:
		metrics.CacheResults.WithLabelValues("error").Inc()
		cs.log.Warn("read cached snapshot failed", logger.Error(err))
	}
	return nil, false
}

package usecase

import (
	"context"
	"errors"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/internal/service/sample"
	"RiskLens/internal/services/risk"
	"RiskLens/pkg/logger"
)

// EntityFetcher resolves one tracked entity into a scored series. A missing
// credential selects the bundled sample series; any other provider failure
// is returned so the caller can drop the entity.
type EntityFetcher struct {
	prices      repository.PriceProvider
	metrics     repository.Metrics
	log         *logger.Logger
	now         func() time.Time
	historyDays int
}

func NewEntityFetcher(prices repository.PriceProvider, metrics repository.Metrics, log *logger.Logger, historyDays int) *EntityFetcher {
	if log == nil {
		log = logger.Nop()
	}
	if historyDays <= 0 {
		historyDays = 90
	}
	return &EntityFetcher{prices: prices, metrics: metrics, log: log, now: time.Now, historyDays: historyDays}
}

func (f *EntityFetcher) Fetch(ctx context.Context, e models.TrackedEntity) (models.EntitySeries, error) {
	start := time.Now()
	obs, err := f.prices.DailySeries(ctx, e.Symbol)
	f.recordFetch("prices", err, time.Since(start))

	switch {
	case err == nil:
		return risk.BuildSeries(e, obs, models.SourceLive), nil
	case errors.Is(err, repository.ErrMissingCredential):
		if f.metrics != nil {
			f.metrics.RecordFallback("missing_credential")
		}
		return f.Sample(e), nil
	default:
		f.log.Warn("entity dropped from snapshot",
			logger.String("entity", e.ID),
			logger.String("symbol", e.Symbol),
			logger.String("kind", repository.FailureKind(err)),
			logger.Error(err),
		)
		return models.EntitySeries{}, err
	}
}

// Sample returns the bundled series for e ending today.
func (f *EntityFetcher) Sample(e models.TrackedEntity) models.EntitySeries {
	return risk.BuildSeries(e, sample.Series(e.Symbol, f.now(), f.historyDays), models.SourceSample)
}

func (f *EntityFetcher) recordFetch(provider string, err error, d time.Duration) {
	if f.metrics != nil {
		f.metrics.RecordFetch(provider, repository.FailureKind(err), d)
	}
}

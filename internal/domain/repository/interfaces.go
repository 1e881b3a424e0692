package repository

import (
	"context"
	"time"

	"RiskLens/internal/domain/models"
)

// PriceProvider returns daily observations for one symbol, ascending by
// date and truncated to the configured history length.
type PriceProvider interface {
	DailySeries(ctx context.Context, symbol string) ([]models.DailyObservation, error)
}

// MacroProvider returns the latest value of the macro indicator used as the
// macroeconomic signal.
type MacroProvider interface {
	LatestMacro(ctx context.Context) (float64, error)
}

// NewsProvider returns recent news articles with sentiment annotations for
// the given tickers, bounded by the client's configured limit.
type NewsProvider interface {
	Articles(ctx context.Context, tickers []string) ([]models.Article, error)
}

// AlertPublisher fans alerts out to downstream consumers.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.Alert) error
	Close() error
}

// SnapshotArchive persists generated snapshots for later analysis.
type SnapshotArchive interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, s *models.AggregateSnapshot) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records aggregation and provider telemetry.
type Metrics interface {
	RecordFetch(provider string, outcome string, d time.Duration)
	RecordSnapshot(riskIndex int, alerts int, d time.Duration)
	RecordFallback(reason string)
	RecordError(kind string)
}

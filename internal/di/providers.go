package di

import (
	"context"
	"fmt"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/internal/domain/service"
	"RiskLens/internal/handler/api"
	internalrepo "RiskLens/internal/repository"
	"RiskLens/internal/service/alphavantage"
	"RiskLens/internal/service/breaker"
	"RiskLens/internal/service/llm"
	"RiskLens/internal/service/ratelimit"
	"RiskLens/internal/services/narrative"
	"RiskLens/internal/usecase"
	"RiskLens/pkg/cache"
	pkgch "RiskLens/pkg/clickhouse"
	"RiskLens/pkg/config"
	pkgkafka "RiskLens/pkg/kafka"
	applogger "RiskLens/pkg/logger"
	"RiskLens/pkg/metrics"
	"RiskLens/pkg/server"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache returns the snapshot cache: in-process memory, fronting
// Redis when Redis is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize))
		return mem, func() { _ = mem.Close() }, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemorySize),
		cache.WithLayeredMemoryTTL(cfg.Cache.SnapshotTTL/2),
	)
	return lc, func() { _ = lc.Close() }, nil
}

func providerBreaker(cfg *config.Config, name string) *breaker.Breaker {
	return breaker.New(breaker.Settings{
		Name:                name,
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		OpenTimeout:         cfg.Breaker.OpenTimeout,
	})
}

// ProvidePriceClient creates the price and macro client. Both share one
// credential, so they share one pacer.
func ProvidePriceClient(cfg *config.Config, l *applogger.Logger) *alphavantage.PriceClient {
	p := cfg.Providers.AlphaVantage
	return alphavantage.NewPriceClient(alphavantage.Config{
		Name:        "alphavantage",
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		MinInterval: p.MinInterval,
		Timeout:     p.Timeout,
	}, p.HistoryDays,
		alphavantage.WithBreaker(providerBreaker(cfg, "alphavantage")),
		alphavantage.WithLogger(l.With(applogger.String("provider", "alphavantage"))),
	)
}

// ProvideNewsClient creates the news client with its own credential and
// pacer.
func ProvideNewsClient(cfg *config.Config, l *applogger.Logger) *alphavantage.NewsClient {
	p := cfg.Providers.News
	return alphavantage.NewNewsClient(alphavantage.Config{
		Name:        "news",
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		MinInterval: p.MinInterval,
		Timeout:     p.Timeout,
	}, p.Limit,
		alphavantage.WithBreaker(providerBreaker(cfg, "news")),
		alphavantage.WithLogger(l.With(applogger.String("provider", "news"))),
	)
}

// ProvideSummarizer selects the text generator; unconfigured means Disabled.
func ProvideSummarizer(cfg *config.Config) (service.Summarizer, error) {
	s, err := llm.New(context.Background(), llm.Config{
		Provider:    cfg.Summarizer.Provider,
		Model:       cfg.Summarizer.Model,
		APIKey:      cfg.Summarizer.APIKey,
		MaxTokens:   cfg.Summarizer.MaxTokens,
		Temperature: cfg.Summarizer.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	return s, nil
}

// ProvideAlertPublisher creates the Kafka alert publisher, or nil when
// Kafka is disabled.
func ProvideAlertPublisher(cfg *config.Config) (repository.AlertPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.Topic)
	return pub, func() { _ = pub.Close() }, nil
}

// ProvideSnapshotArchive connects ClickHouse and ensures the archive
// schema, or returns nil when ClickHouse is disabled.
func ProvideSnapshotArchive(cfg *config.Config, l *applogger.Logger) (repository.SnapshotArchive, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive := internalrepo.NewCHSnapshotArchive(client, cfg.ClickHouse.Database, l)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, func() { _ = archive.Close() }, nil
}

// ProvideEntities converts the configured entity list.
func ProvideEntities(cfg *config.Config) []models.TrackedEntity {
	out := make([]models.TrackedEntity, len(cfg.Entities))
	for i, e := range cfg.Entities {
		out[i] = models.TrackedEntity{ID: e.ID, Symbol: e.Symbol, DisplayName: e.DisplayName, Sector: e.Sector}
	}
	return out
}

func ProvideEntityFetcher(cfg *config.Config, prices *alphavantage.PriceClient, m repository.Metrics, l *applogger.Logger) *usecase.EntityFetcher {
	return usecase.NewEntityFetcher(prices, m, l, cfg.Providers.AlphaVantage.HistoryDays)
}

// ProvideSnapshotUseCase assembles the aggregation pipeline. Optional side
// effects are attached only when their backend is configured.
func ProvideSnapshotUseCase(
	cfg *config.Config,
	entities []models.TrackedEntity,
	fetcher *usecase.EntityFetcher,
	prices *alphavantage.PriceClient,
	news *alphavantage.NewsClient,
	summarizer service.Summarizer,
	publisher repository.AlertPublisher,
	archive repository.SnapshotArchive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SnapshotUseCase {
	opts := []usecase.SnapshotOption{
		usecase.WithSummarizer(summarizer, cfg.Summarizer.Inline, cfg.Summarizer.Timeout),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	}
	if publisher != nil {
		opts = append(opts, usecase.WithAlertPublisher(publisher))
	}
	if archive != nil {
		opts = append(opts, usecase.WithArchive(archive))
	}
	return usecase.NewSnapshotUseCase(entities, fetcher, prices, news, narrative.NewClassifier(nil), opts...)
}

func ProvideCurrentSnapshot(cfg *config.Config, uc *usecase.SnapshotUseCase, c cache.Service, l *applogger.Logger) *usecase.CurrentSnapshot {
	return usecase.NewCurrentSnapshot(uc, c, cfg.Cache.SnapshotTTL, l)
}

func ProvideScenarioUseCase(cs *usecase.CurrentSnapshot) *usecase.ScenarioUseCase {
	return usecase.NewScenarioUseCase(cs)
}

func ProvideInsightsUseCase(cfg *config.Config, s service.Summarizer, l *applogger.Logger) *usecase.InsightsUseCase {
	return usecase.NewInsightsUseCase(s, cfg.Summarizer.Timeout, l)
}

func ProvideRefresher(cfg *config.Config, cs *usecase.CurrentSnapshot, c cache.Service, l *applogger.Logger) *usecase.Refresher {
	return usecase.NewRefresher(cs, c, cfg.Refresh.Schedule, 0, l)
}

func ProvideHub(l *applogger.Logger) *api.Hub {
	return api.NewHub(l)
}

// ProvideSnapshotHandler builds the HTTP handler with a per-address
// inbound limiter.
func ProvideSnapshotHandler(
	cfg *config.Config,
	l *applogger.Logger,
	cs *usecase.CurrentSnapshot,
	sc *usecase.ScenarioUseCase,
	ins *usecase.InsightsUseCase,
	entities []models.TrackedEntity,
	hub *api.Hub,
) *api.SnapshotEchoHandler {
	limiter := ratelimit.New(cfg.Server.RequestsPerSec, cfg.Server.Burst)
	return api.NewSnapshotEchoHandler(l, cs, sc, ins, entities, hub, limiter)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.SnapshotUseCase,
	r *usecase.Refresher,
	hub *api.Hub,
	h *api.SnapshotEchoHandler,
) *server.App {
	return server.New(cfg, l, uc, r, hub, h)
}

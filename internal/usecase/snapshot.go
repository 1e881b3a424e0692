package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/internal/domain/service"
	"RiskLens/internal/services/narrative"
	"RiskLens/internal/services/risk"
	"RiskLens/pkg/logger"
)

// SnapshotListener receives every freshly built snapshot.
type SnapshotListener func(*models.AggregateSnapshot)

// SnapshotUseCase builds aggregate snapshots: fetch every source in
// parallel, join, then reduce.
type SnapshotUseCase struct {
	entities   []models.TrackedEntity
	fetcher    *EntityFetcher
	macro      repository.MacroProvider
	news       repository.NewsProvider
	classifier *narrative.Classifier

	summarizer      service.Summarizer
	inlineInsights  bool
	insightsTimeout time.Duration

	publisher repository.AlertPublisher
	archive   repository.SnapshotArchive
	metrics   repository.Metrics
	log       *logger.Logger

	timeout           time.Duration
	sideEffectTimeout time.Duration

	mu        sync.RWMutex
	listeners []SnapshotListener
	now       func() time.Time
}

type SnapshotOption func(*SnapshotUseCase)

func WithSummarizer(s service.Summarizer, inline bool, timeout time.Duration) SnapshotOption {
	return func(uc *SnapshotUseCase) {
		uc.summarizer = s
		uc.inlineInsights = inline
		if timeout > 0 {
			uc.insightsTimeout = timeout
		}
	}
}

func WithAlertPublisher(p repository.AlertPublisher) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.publisher = p }
}

func WithArchive(a repository.SnapshotArchive) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.archive = a }
}

func WithMetrics(m repository.Metrics) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.metrics = m }
}

func WithLogger(l *logger.Logger) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.log = l }
}

// WithTimeout bounds one whole aggregation, pacing waits included.
func WithTimeout(d time.Duration) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.timeout = d }
}

func WithClock(now func() time.Time) SnapshotOption {
	return func(uc *SnapshotUseCase) { uc.now = now }
}

func NewSnapshotUseCase(
	entities []models.TrackedEntity,
	fetcher *EntityFetcher,
	macro repository.MacroProvider,
	news repository.NewsProvider,
	classifier *narrative.Classifier,
	opts ...SnapshotOption,
) *SnapshotUseCase {
	uc := &SnapshotUseCase{
		entities:          entities,
		fetcher:           fetcher,
		macro:             macro,
		news:              news,
		classifier:        classifier,
		insightsTimeout:   20 * time.Second,
		timeout:           5 * time.Minute,
		sideEffectTimeout: 10 * time.Second,
		log:               logger.Nop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.classifier == nil {
		uc.classifier = narrative.NewClassifier(nil)
	}
	return uc
}

// Subscribe registers l for every snapshot built after this call.
func (uc *SnapshotUseCase) Subscribe(l SnapshotListener) {
	uc.mu.Lock()
	uc.listeners = append(uc.listeners, l)
	uc.mu.Unlock()
}

func (uc *SnapshotUseCase) Entities() []models.TrackedEntity {
	out := make([]models.TrackedEntity, len(uc.entities))
	copy(out, uc.entities)
	return out
}

type fetched struct {
	kind   string // entity, macro, news
	index  int
	series models.EntitySeries
	macro  float64
	news   []models.Article
	err    error
}

// FetchAggregateSnapshot always returns a snapshot. Provider failures drop
// the affected entity or select a fallback value, and are only logged.
func (uc *SnapshotUseCase) FetchAggregateSnapshot(ctx context.Context) *models.AggregateSnapshot {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	ch := make(chan fetched, len(uc.entities)+2)
	var wg sync.WaitGroup

	for i, e := range uc.entities {
		wg.Add(1)
		go func(i int, e models.TrackedEntity) {
			defer wg.Done()
			s, err := uc.fetcher.Fetch(ctx, e)
			ch <- fetched{kind: "entity", index: i, series: s, err: err}
		}(i, e)
	}
	if uc.macro != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t := time.Now()
			v, err := uc.macro.LatestMacro(ctx)
			uc.recordFetch("macro", err, time.Since(t))
			ch <- fetched{kind: "macro", macro: v, err: err}
		}()
	}
	if uc.news != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t := time.Now()
			v, err := uc.news.Articles(ctx, uc.symbols())
			uc.recordFetch("news", err, time.Since(t))
			ch <- fetched{kind: "news", news: v, err: err}
		}()
	}

	go func() { wg.Wait(); close(ch) }()

	type indexed struct {
		i int
		s models.EntitySeries
	}
	var (
		arrived   []indexed
		macro     *float64
		articles  []models.Article
		newsOK    bool
		entityErr int
	)
	for it := range ch {
		switch it.kind {
		case "entity":
			if it.err != nil {
				entityErr++
				continue
			}
			arrived = append(arrived, indexed{it.index, it.series})
		case "macro":
			if it.err != nil {
				uc.logSourceError("macro", it.err)
				continue
			}
			v := it.macro
			macro = &v
		case "news":
			if it.err != nil {
				uc.logSourceError("news", it.err)
				continue
			}
			articles, newsOK = it.news, true
		}
	}

	// Completion order is irrelevant; restore configuration order.
	sort.Slice(arrived, func(a, b int) bool { return arrived[a].i < arrived[b].i })
	entities := make([]models.EntitySeries, 0, len(arrived))
	for _, a := range arrived {
		entities = append(entities, a.s)
	}

	if len(entities) == 0 && entityErr > 0 {
		uc.log.Warn("all live fetches failed, serving bundled sample data", logger.Int("failed", entityErr))
		if uc.metrics != nil {
			uc.metrics.RecordFallback("all_live_failed")
		}
		for _, e := range uc.entities {
			entities = append(entities, uc.fetcher.Sample(e))
		}
	}

	var sentiment *float64
	if newsOK {
		if v, ok := risk.SentimentSignal(articles, uc.symbols()); ok {
			sentiment = &v
		}
	}

	snap := &models.AggregateSnapshot{
		Entities:    entities,
		Drivers:     risk.Shares(risk.ComputeSignals(entities, macro, sentiment)),
		Alerts:      risk.GenerateAlerts(entities),
		Narratives:  uc.classifier.Classify(articles),
		GeneratedAt: uc.now().UTC(),
	}
	snap.RiskIndex, snap.RiskScoreChange, snap.RiskLevel = risk.Index(entities)

	if uc.inlineInsights && uc.summarizer != nil {
		uc.attachInsights(ctx, snap)
	}

	uc.afterBuild(ctx, snap, time.Since(started))
	return snap
}

// Summarize runs the configured summarizer against snap under its own
// timeout.
func (uc *SnapshotUseCase) Summarize(ctx context.Context, snap *models.AggregateSnapshot) (string, error) {
	if uc.summarizer == nil {
		return "", service.ErrSummarizerDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, uc.insightsTimeout)
	defer cancel()
	return uc.summarizer.Summarize(ctx, models.InsightsInputFrom(snap))
}

func (uc *SnapshotUseCase) attachInsights(ctx context.Context, snap *models.AggregateSnapshot) {
	text, err := uc.Summarize(ctx, snap)
	switch {
	case err == nil:
		snap.Insights = text
	case errors.Is(err, service.ErrSummarizerDisabled):
	default:
		snap.InsightsError = err.Error()
		uc.log.Warn("insights generation failed", logger.String("summarizer", uc.summarizer.Name()), logger.Error(err))
		if uc.metrics != nil {
			uc.metrics.RecordError("summarizer")
		}
	}
}

// afterBuild runs the side effects. Each one is independent of the others
// and of the returned snapshot.
func (uc *SnapshotUseCase) afterBuild(ctx context.Context, snap *models.AggregateSnapshot, took time.Duration) {
	ctx = context.WithoutCancel(ctx)

	if uc.publisher != nil && len(snap.Alerts) > 0 {
		pctx, cancel := context.WithTimeout(ctx, uc.sideEffectTimeout)
		if err := uc.publisher.PublishAlerts(pctx, snap.Alerts); err != nil {
			uc.log.Error("publish alerts failed", logger.Int("alerts", len(snap.Alerts)), logger.Error(err))
			uc.recordError("alert_publish")
		}
		cancel()
	}
	if uc.archive != nil {
		actx, cancel := context.WithTimeout(ctx, uc.sideEffectTimeout)
		if err := uc.archive.Store(actx, snap); err != nil {
			uc.log.Error("archive snapshot failed", logger.Error(err))
			uc.recordError("archive_store")
		}
		cancel()
	}
	if uc.metrics != nil {
		uc.metrics.RecordSnapshot(snap.RiskIndex, len(snap.Alerts), took)
	}

	uc.mu.RLock()
	listeners := append([]SnapshotListener(nil), uc.listeners...)
	uc.mu.RUnlock()
	for _, l := range listeners {
		l(snap)
	}

	uc.log.Info("snapshot built",
		logger.Int("entities", len(snap.Entities)),
		logger.Int("alerts", len(snap.Alerts)),
		logger.Int("narratives", len(snap.Narratives)),
		logger.Int("risk_index", snap.RiskIndex),
		logger.Duration("duration_ms", took),
	)
}

func (uc *SnapshotUseCase) symbols() []string {
	out := make([]string, len(uc.entities))
	for i, e := range uc.entities {
		out[i] = e.Symbol
	}
	return out
}

func (uc *SnapshotUseCase) logSourceError(source string, err error) {
	if errors.Is(err, repository.ErrMissingCredential) {
		uc.log.Debug("source skipped, no credential", logger.String("source", source))
		return
	}
	uc.log.Warn("source unavailable, using fallback",
		logger.String("source", source),
		logger.String("kind", repository.FailureKind(err)),
		logger.Error(err),
	)
}

func (uc *SnapshotUseCase) recordFetch(provider string, err error, d time.Duration) {
	if uc.metrics != nil {
		uc.metrics.RecordFetch(provider, repository.FailureKind(err), d)
	}
}

func (uc *SnapshotUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

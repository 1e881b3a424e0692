package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/repository"
	"RiskLens/internal/domain/service"
	"RiskLens/internal/services/narrative"
	"RiskLens/pkg/cache"
)

var testEntities = []models.TrackedEntity{
	{ID: "alpha", Symbol: "AAPL", DisplayName: "Alpha Corp", Sector: "Technology"},
	{ID: "beta", Symbol: "CAT", DisplayName: "Beta Industries", Sector: "Industrials"},
	{ID: "gamma", Symbol: "JPM", DisplayName: "Gamma Financials", Sector: "Financials"},
	{ID: "delta", Symbol: "XOM", DisplayName: "Delta Energy", Sector: "Energy"},
	{ID: "epsilon", Symbol: "JNJ", DisplayName: "Epsilon Health", Sector: "Healthcare"},
	{ID: "zeta", Symbol: "PG", DisplayName: "Zeta Consumer", Sector: "Consumer Staples"},
}

var fixedNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

type fakePrices struct {
	errs  map[string]error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakePrices) DailySeries(ctx context.Context, symbol string) ([]models.DailyObservation, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []models.DailyObservation{
		{Date: start, Close: 100, Volume: 1000},
		{Date: start.AddDate(0, 0, 1), Close: 110, Volume: 1200},
		{Date: start.AddDate(0, 0, 2), Close: 90, Volume: 900},
	}, nil
}

type fakeMacro struct {
	val float64
	err error
}

func (f fakeMacro) LatestMacro(context.Context) (float64, error) { return f.val, f.err }

type fakeNews struct {
	articles []models.Article
	err      error
}

func (f fakeNews) Articles(context.Context, []string) ([]models.Article, error) {
	return f.articles, f.err
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f fakeSummarizer) Summarize(context.Context, models.InsightsInput) (string, error) {
	return f.text, f.err
}
func (fakeSummarizer) Name() string { return "fake" }

type fakePublisher struct {
	mu     sync.Mutex
	alerts []models.Alert
	err    error
}

func (f *fakePublisher) PublishAlerts(_ context.Context, a []models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a...)
	return f.err
}
func (f *fakePublisher) Close() error { return nil }

type fakeArchive struct {
	stored int
	err    error
}

func (f *fakeArchive) Init(context.Context) error   { return nil }
func (f *fakeArchive) Health(context.Context) error { return nil }
func (f *fakeArchive) Close() error                 { return nil }
func (f *fakeArchive) Store(context.Context, *models.AggregateSnapshot) error {
	f.stored++
	return f.err
}

type fakeMetrics struct {
	mu        sync.Mutex
	fallbacks []string
	errors    []string
	snapshots int
}

func (m *fakeMetrics) RecordFetch(string, string, time.Duration) {}
func (m *fakeMetrics) RecordSnapshot(int, int, time.Duration) {
	m.mu.Lock()
	m.snapshots++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordFallback(reason string) {
	m.mu.Lock()
	m.fallbacks = append(m.fallbacks, reason)
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors = append(m.errors, kind)
	m.mu.Unlock()
}

func newUseCase(prices repository.PriceProvider, opts ...SnapshotOption) *SnapshotUseCase {
	f := NewEntityFetcher(prices, nil, nil, 30)
	f.now = func() time.Time { return fixedNow }
	opts = append([]SnapshotOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewSnapshotUseCase(testEntities, f, fakeMacro{val: 5.25}, fakeNews{}, narrative.NewClassifier(nil), opts...)
}

func ids(s *models.AggregateSnapshot) []string {
	out := make([]string, len(s.Entities))
	for i, e := range s.Entities {
		out[i] = e.ID
	}
	return out
}

func TestFetchAggregateSnapshot_AllLive(t *testing.T) {
	uc := newUseCase(&fakePrices{})

	snap := uc.FetchAggregateSnapshot(context.Background())

	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}, ids(snap))
	for _, e := range snap.Entities {
		assert.Equal(t, models.SourceLive, e.Source)
	}
	assert.Equal(t, 100, snap.RiskIndex)
	assert.Equal(t, 100, snap.RiskScoreChange)
	assert.Equal(t, models.RiskHigh, snap.RiskLevel)
	assert.Len(t, snap.Alerts, 6)
	assert.Len(t, snap.Drivers, 4)
	assert.NotNil(t, snap.Narratives)
	assert.Equal(t, fixedNow, snap.GeneratedAt)
}

func TestFetchAggregateSnapshot_DropsRateLimitedEntity(t *testing.T) {
	prices := &fakePrices{errs: map[string]error{"JPM": repository.ErrRateLimited}}
	uc := newUseCase(prices)

	snap := uc.FetchAggregateSnapshot(context.Background())

	assert.Equal(t, []string{"alpha", "beta", "delta", "epsilon", "zeta"}, ids(snap))
	for _, e := range snap.Entities {
		assert.Equal(t, models.SourceLive, e.Source)
	}
}

func TestFetchAggregateSnapshot_AllFailedUsesSamples(t *testing.T) {
	errs := map[string]error{}
	for _, e := range testEntities {
		errs[e.Symbol] = repository.ErrProvider
	}
	metrics := &fakeMetrics{}
	uc := newUseCase(&fakePrices{errs: errs}, WithMetrics(metrics))

	snap := uc.FetchAggregateSnapshot(context.Background())

	require.Len(t, snap.Entities, len(testEntities))
	for _, e := range snap.Entities {
		assert.Equal(t, models.SourceSample, e.Source)
		assert.Len(t, e.Observations, 30)
	}
	assert.Contains(t, metrics.fallbacks, "all_live_failed")
	assert.Equal(t, 1, metrics.snapshots)
}

func TestFetchAggregateSnapshot_MissingCredentialUsesSamples(t *testing.T) {
	errs := map[string]error{"AAPL": repository.ErrMissingCredential}
	uc := newUseCase(&fakePrices{errs: errs})

	snap := uc.FetchAggregateSnapshot(context.Background())

	require.Len(t, snap.Entities, len(testEntities))
	assert.Equal(t, models.SourceSample, snap.Entities[0].Source)
	assert.Equal(t, models.SourceLive, snap.Entities[1].Source)
}

func TestFetchAggregateSnapshot_NewsDrivesNarratives(t *testing.T) {
	news := fakeNews{articles: []models.Article{{
		Title:  "Fed signals pause",
		URL:    "https://example.com/fed",
		Topics: []string{"economy_monetary"},
		TickerSentiment: []models.TickerSentiment{
			{Ticker: "JPM", Relevance: 0.5, Score: -0.4},
		},
	}}}
	f := NewEntityFetcher(&fakePrices{}, nil, nil, 30)
	uc := NewSnapshotUseCase(testEntities, f, fakeMacro{val: 5}, news, nil)

	snap := uc.FetchAggregateSnapshot(context.Background())

	require.Len(t, snap.Narratives, 1)
	assert.Equal(t, models.FactorPolicy, snap.Narratives[0].Factor)
	assert.NotZero(t, snap.DriverPercentage(models.DriverSentiment))
}

func TestFetchAggregateSnapshot_InsightsFailureIsolated(t *testing.T) {
	metrics := &fakeMetrics{}
	base := newUseCase(&fakePrices{}).FetchAggregateSnapshot(context.Background())

	uc := newUseCase(&fakePrices{},
		WithSummarizer(fakeSummarizer{err: errors.New("quota exhausted")}, true, time.Second),
		WithMetrics(metrics),
	)
	snap := uc.FetchAggregateSnapshot(context.Background())

	assert.Empty(t, snap.Insights)
	assert.Contains(t, snap.InsightsError, "quota exhausted")
	assert.Equal(t, base.RiskIndex, snap.RiskIndex)
	assert.Equal(t, base.Drivers, snap.Drivers)
	assert.Contains(t, metrics.errors, "summarizer")
}

func TestFetchAggregateSnapshot_InlineInsights(t *testing.T) {
	uc := newUseCase(&fakePrices{}, WithSummarizer(fakeSummarizer{text: "Risk rose."}, true, time.Second))
	snap := uc.FetchAggregateSnapshot(context.Background())
	assert.Equal(t, "Risk rose.", snap.Insights)
	assert.Empty(t, snap.InsightsError)

	disabled := newUseCase(&fakePrices{}, WithSummarizer(fakeSummarizer{err: service.ErrSummarizerDisabled}, true, time.Second))
	snap = disabled.FetchAggregateSnapshot(context.Background())
	assert.Empty(t, snap.Insights)
	assert.Empty(t, snap.InsightsError)
}

func TestFetchAggregateSnapshot_SideEffects(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	arch := &fakeArchive{}
	metrics := &fakeMetrics{}
	uc := newUseCase(&fakePrices{}, WithAlertPublisher(pub), WithArchive(arch), WithMetrics(metrics))

	var got *models.AggregateSnapshot
	uc.Subscribe(func(s *models.AggregateSnapshot) { got = s })

	snap := uc.FetchAggregateSnapshot(context.Background())

	assert.Len(t, pub.alerts, len(snap.Alerts))
	assert.Equal(t, 1, arch.stored)
	assert.Same(t, snap, got)
	assert.Contains(t, metrics.errors, "alert_publish")
	assert.Len(t, snap.Entities, len(testEntities))
}

type countingBuilder struct {
	n atomic.Int32
}

func (b *countingBuilder) FetchAggregateSnapshot(context.Context) *models.AggregateSnapshot {
	n := b.n.Add(1)
	return &models.AggregateSnapshot{RiskIndex: int(n), Alerts: []models.Alert{}}
}

func TestCurrentSnapshot_CachesUntilRefresh(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	b := &countingBuilder{}
	cs := NewCurrentSnapshot(b, mem, time.Minute, nil)
	ctx := context.Background()

	assert.Equal(t, 1, cs.Current(ctx, false).RiskIndex)
	assert.Equal(t, 1, cs.Current(ctx, false).RiskIndex)
	assert.Equal(t, 2, cs.Current(ctx, true).RiskIndex)
	assert.Equal(t, 2, cs.Current(ctx, false).RiskIndex)
	assert.Equal(t, int32(2), b.n.Load())
}

func TestCurrentSnapshot_ConcurrentMissBuildsOnce(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	b := &countingBuilder{}
	cs := NewCurrentSnapshot(b, mem, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cs.Current(context.Background(), false)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), b.n.Load())
}

func TestCurrentSnapshot_AbandonedRequestKeepsLiveData(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	uc := newUseCase(&fakePrices{delay: 60 * time.Millisecond})
	var broadcasts atomic.Int32
	uc.Subscribe(func(*models.AggregateSnapshot) { broadcasts.Add(1) })
	cs := NewCurrentSnapshot(uc, mem, time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	first := cs.Current(ctx, false)
	require.Len(t, first.Entities, 6)
	assert.Equal(t, models.SourceLive, first.Entities[0].Source)

	later := cs.Current(context.Background(), false)
	require.Len(t, later.Entities, 6)
	for _, e := range later.Entities {
		assert.Equal(t, models.SourceLive, e.Source, e.ID)
	}
	assert.Equal(t, int32(1), broadcasts.Load())
}

func TestScenarioUseCase_Apply(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	uc := newUseCase(&fakePrices{})
	cs := NewCurrentSnapshot(uc, mem, time.Minute, nil)
	sc := NewScenarioUseCase(cs)

	base := uc.FetchAggregateSnapshot(context.Background())
	shocked := sc.Apply(context.Background(), &models.ScenarioRequest{InterestRate: -5, Snapshot: base})

	// Financials latest score 100 scaled by 0.95.
	assert.Equal(t, 95, shocked.Entities[2].Observations[2].Score)
	assert.Equal(t, 100, base.Entities[2].Observations[2].Score)

	fromCurrent := sc.Apply(context.Background(), &models.ScenarioRequest{})
	assert.Len(t, fromCurrent.Entities, len(testEntities))
}

func TestInsightsUseCase_Generate(t *testing.T) {
	uc := NewInsightsUseCase(fakeSummarizer{text: "ok"}, time.Second, nil)
	text, err := uc.Generate(context.Background(), models.InsightsInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	failing := NewInsightsUseCase(fakeSummarizer{err: service.ErrSummarizerDisabled}, time.Second, nil)
	_, err = failing.Generate(context.Background(), models.InsightsInput{})
	assert.ErrorIs(t, err, service.ErrSummarizerDisabled)
}

func TestRefresher_RunOnceRespectsLock(t *testing.T) {
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	b := &countingBuilder{}
	cs := NewCurrentSnapshot(b, mem, time.Minute, nil)
	r := NewRefresher(cs, mem, "", time.Minute, nil)
	ctx := context.Background()

	assert.True(t, r.RunOnce(ctx))
	assert.Equal(t, int32(1), b.n.Load())

	ok, err := mem.TryLock(ctx, refreshLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, r.RunOnce(ctx))
	assert.Equal(t, int32(1), b.n.Load())

	require.NoError(t, mem.Unlock(ctx, refreshLockKey))
	assert.True(t, r.RunOnce(ctx))
}

func TestRefresher_RejectsBadSchedule(t *testing.T) {
	r := NewRefresher(NewCurrentSnapshot(&countingBuilder{}, nil, time.Minute, nil), nil, "not a schedule", 0, nil)
	assert.Error(t, r.Start())
}
